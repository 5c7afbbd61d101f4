package ifsc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"phonepe/internal/metrics"
)

// ErrValidatorUnavailable indicates the lookup service could not be reached
// within the allowed number of attempts.
var ErrValidatorUnavailable = errors.New("ifsc validator unavailable")

type Validator interface {
	Validate(ctx context.Context, code string) (bool, error)
}

type Config struct {
	BaseURL     string
	MaxAttempts int
	Timeout     time.Duration
}

// Client checks IFSC codes against an external lookup service. A 200 means
// the code exists, a 404 means it does not; anything else is treated as a
// transient failure and retried.
type Client struct {
	baseURL     string
	maxAttempts int
	http        *http.Client
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func NewClient(cfg Config, logger *slog.Logger, m *metrics.Metrics) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL:     base,
		maxAttempts: attempts,
		http:        &http.Client{Timeout: timeout},
		logger:      logger.With("component", "ifsc"),
		metrics:     m,
	}
}

func (c *Client) Validate(ctx context.Context, code string) (bool, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		valid, retryable, err := c.lookup(ctx, code)
		if err == nil {
			return valid, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.logger.Debug("ifsc lookup attempt failed", "code", code, "attempt", attempt, "error", err)
	}
	c.metrics.IFSCLookups.WithLabelValues("unavailable").Inc()
	c.logger.Warn("ifsc validator unavailable", "code", code, "error", lastErr)
	return false, ErrValidatorUnavailable
}

func (c *Client) lookup(ctx context.Context, code string) (valid bool, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+code, nil)
	if err != nil {
		return false, false, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, false, ctx.Err()
		}
		return false, true, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		c.metrics.IFSCLookups.WithLabelValues("valid").Inc()
		return true, false, nil
	case res.StatusCode == http.StatusNotFound:
		c.metrics.IFSCLookups.WithLabelValues("invalid").Inc()
		return false, false, nil
	default:
		return false, true, fmt.Errorf("ifsc lookup status %d", res.StatusCode)
	}
}
