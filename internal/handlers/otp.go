package handlers

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"

	"phonepe/internal/validator"
)

type otpRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

// GenerateOTP issues a 6 digit code and returns it in the response body.
// Delivery is mocked; there is no SMS gateway behind this.
func (h *Handler) GenerateOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateMobile(req.Mobile); err != nil {
		respondError(w, http.StatusBadRequest, "mobile must be 10 digits starting with 6-9")
		return
	}
	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	h.otp.Put(req.Mobile, code)
	h.metrics.OTPIssued.Inc()
	respondJSON(w, http.StatusOK, map[string]string{
		"mobile": req.Mobile,
		"otp":    code,
	})
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateMobile(req.Mobile); err != nil {
		respondError(w, http.StatusBadRequest, "mobile must be 10 digits starting with 6-9")
		return
	}
	code, ok := h.otp.Get(req.Mobile)
	if !ok || code != req.OTP {
		respondError(w, http.StatusUnauthorized, "invalid or expired otp")
		return
	}
	h.otp.Delete(req.Mobile)
	respondJSON(w, http.StatusOK, map[string]any{
		"mobile":   req.Mobile,
		"verified": true,
	})
}
