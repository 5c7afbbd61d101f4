package handlers

import (
	"context"

	"phonepe/internal/config"
	"phonepe/internal/logging"
	"phonepe/internal/metrics"
	"phonepe/internal/services"
	"phonepe/internal/websocket"
)

type stubService struct {
	ensureIdentityFn func(ctx context.Context, mobile string, name *string) (services.Identity, error)
	getStatementFn   func(ctx context.Context, mobile string) (services.Statement, error)
}

func (s stubService) EnsureIdentity(ctx context.Context, mobile string, name *string) (services.Identity, error) {
	if s.ensureIdentityFn == nil {
		return services.Identity{}, nil
	}
	return s.ensureIdentityFn(ctx, mobile, name)
}

func (s stubService) GetStatement(ctx context.Context, mobile string) (services.Statement, error) {
	if s.getStatementFn == nil {
		return services.Statement{}, nil
	}
	return s.getStatementFn(ctx, mobile)
}

type stubOTPCache struct {
	putFn    func(mobile, code string)
	getFn    func(mobile string) (string, bool)
	deleteFn func(mobile string)
}

func (s stubOTPCache) Put(mobile, code string) {
	if s.putFn != nil {
		s.putFn(mobile, code)
	}
}

func (s stubOTPCache) Get(mobile string) (string, bool) {
	if s.getFn == nil {
		return "", false
	}
	return s.getFn(mobile)
}

func (s stubOTPCache) Delete(mobile string) {
	if s.deleteFn != nil {
		s.deleteFn(mobile)
	}
}

func newTestHandler(service StatementService, otp OTPCache) *Handler {
	cfg := config.Config{AllowedOrigins: "*"}
	return New(cfg, service, otp, websocket.NewHub(), logging.NewLogger("error"), metrics.Registry("phonepe_handlers_test"))
}
