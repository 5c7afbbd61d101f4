package otp

import (
	"sync"
	"time"
)

// Cache is a process-scoped OTP store keyed by mobile. Entries expire after
// the configured TTL and are purged lazily on access; nothing survives a
// restart, which is all the mocked delivery flow needs.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	code      string
	expiresAt time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *Cache) Put(mobile, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[mobile] = entry{code: code, expiresAt: c.now().Add(c.ttl)}
}

func (c *Cache) Get(mobile string) (string, bool) {
	c.mu.RLock()
	item, ok := c.entries[mobile]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.entries, mobile)
		c.mu.Unlock()
		return "", false
	}
	return item.code, true
}

func (c *Cache) Delete(mobile string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, mobile)
}
