package handlers

import (
	"context"

	"phonepe/internal/services"
)

type StatementService interface {
	EnsureIdentity(ctx context.Context, mobile string, name *string) (services.Identity, error)
	GetStatement(ctx context.Context, mobile string) (services.Statement, error)
}

type OTPCache interface {
	Put(mobile, code string)
	Get(mobile string) (string, bool)
	Delete(mobile string)
}
