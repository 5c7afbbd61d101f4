package handlers

import (
	"errors"
	"net/http"

	"phonepe/internal/services"
	"phonepe/internal/validator"
	"phonepe/internal/websocket"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	mobile := chi.URLParam(r, "mobile")
	statement, err := h.service.GetStatement(r.Context(), mobile)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMobile):
			h.metrics.StatementRequests.WithLabelValues("invalid_mobile").Inc()
			respondError(w, http.StatusBadRequest, "mobile must be 10 digits starting with 6-9")
		case errors.Is(err, services.ErrRegenerationFailed):
			h.metrics.StatementRequests.WithLabelValues("regeneration_failed").Inc()
			respondError(w, http.StatusServiceUnavailable, "statement temporarily unavailable")
		default:
			h.metrics.StatementRequests.WithLabelValues("error").Inc()
			h.logger.Error("statement read failed", "mobile", mobile, "error", err)
			respondError(w, http.StatusInternalServerError, "unable to load statement")
		}
		return
	}
	h.metrics.StatementRequests.WithLabelValues("ok").Inc()
	respondJSON(w, http.StatusOK, statement)
}

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	mobile := r.URL.Query().Get("mobile")
	if err := validator.ValidateMobile(mobile); err != nil {
		respondError(w, http.StatusBadRequest, "mobile must be 10 digits starting with 6-9")
		return
	}
	websocket.ServeWS(w, r, h.hub, mobile)
}
