package websocket

import (
	"encoding/json"
	"sync"
)

// BalanceUpdate is pushed to subscribers of a mobile whenever a regeneration
// commits a fresh balance.
type BalanceUpdate struct {
	Mobile  string `json:"mobile"`
	Balance string `json:"balance"`
	Outcome string `json:"outcome"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(mobile string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[mobile] == nil {
		h.clients[mobile] = make(map[*Client]struct{})
	}
	h.clients[mobile][client] = struct{}{}
}

func (h *Hub) Unregister(mobile string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[mobile] == nil {
		return
	}
	delete(h.clients[mobile], client)
	if len(h.clients[mobile]) == 0 {
		delete(h.clients, mobile)
	}
}

func (h *Hub) BroadcastBalance(mobile string, update BalanceUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[mobile] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
