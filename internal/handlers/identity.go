package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"phonepe/internal/services"
)

type registerRequest struct {
	Mobile string  `json:"mobile"`
	Name   *string `json:"name"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	identity, err := h.service.EnsureIdentity(r.Context(), req.Mobile, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMobile) {
			respondError(w, http.StatusBadRequest, "mobile must be 10 digits starting with 6-9")
			return
		}
		h.logger.Error("registration failed", "error", err)
		respondError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	status := http.StatusOK
	if identity.Created {
		status = http.StatusCreated
	}
	respondJSON(w, status, map[string]any{
		"mobile":  req.Mobile,
		"user_id": identity.UserID,
		"upi_id":  identity.UPIHandle,
		"created": identity.Created,
	})
}
