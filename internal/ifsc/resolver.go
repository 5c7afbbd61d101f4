package ifsc

import (
	"context"
	"log/slog"
	"math/rand"

	"phonepe/internal/metrics"
)

var bankPrefixes = []string{"HDFC", "ICIC", "SBIN", "PUNB", "YESB"}

const candidateAttempts = 3

// Resolver produces an IFSC code for synthesized payloads: it draws random
// candidates and confirms them against the validator, falling back to a
// configured known-valid code when the validator is unavailable or keeps
// rejecting candidates. The fallback path degrades, it never fails.
type Resolver struct {
	validator Validator
	fallback  string
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewResolver(validator Validator, fallback string, logger *slog.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{
		validator: validator,
		fallback:  fallback,
		logger:    logger.With("component", "ifsc-resolver"),
		metrics:   m,
	}
}

func (r *Resolver) Resolve(ctx context.Context, rng *rand.Rand) string {
	for i := 0; i < candidateAttempts; i++ {
		code := Candidate(rng)
		valid, err := r.validator.Validate(ctx, code)
		if err != nil {
			r.metrics.IFSCLookups.WithLabelValues("fallback").Inc()
			r.logger.Warn("using fallback ifsc", "error", err)
			return r.fallback
		}
		if valid {
			return code
		}
	}
	r.metrics.IFSCLookups.WithLabelValues("fallback").Inc()
	return r.fallback
}

// Candidate builds a bank-prefixed code in the shape the gateway emits.
func Candidate(rng *rand.Rand) string {
	prefix := bankPrefixes[rng.Intn(len(bankPrefixes))]
	digits := make([]byte, 3)
	for i := range digits {
		digits[i] = byte('0' + rng.Intn(10))
	}
	return prefix + "000" + string(digits)
}
