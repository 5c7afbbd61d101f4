package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"phonepe/internal/services"
)

func TestRegisterCreatesIdentity(t *testing.T) {
	handler := newTestHandler(stubService{
		ensureIdentityFn: func(ctx context.Context, mobile string, name *string) (services.Identity, error) {
			if mobile != "9123456780" {
				t.Fatalf("unexpected mobile %q", mobile)
			}
			return services.Identity{UserID: "user-1", AccountID: "acct-1", UPIHandle: "9123456780@ybl", Created: true}, nil
		},
	}, stubOTPCache{})

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"mobile":"9123456780"}`))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["upi_id"] != "9123456780@ybl" {
		t.Fatalf("unexpected upi_id %v", body["upi_id"])
	}
	if body["created"] != true {
		t.Fatalf("expected created=true, got %v", body["created"])
	}
}

func TestRegisterReturnsExistingIdentity(t *testing.T) {
	handler := newTestHandler(stubService{
		ensureIdentityFn: func(context.Context, string, *string) (services.Identity, error) {
			return services.Identity{UserID: "user-1", AccountID: "acct-1", UPIHandle: "9123456780@ybl"}, nil
		},
	}, stubOTPCache{})

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"mobile":"9123456780"}`))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRegisterRejectsBadMobile(t *testing.T) {
	handler := newTestHandler(stubService{
		ensureIdentityFn: func(context.Context, string, *string) (services.Identity, error) {
			return services.Identity{}, services.ErrInvalidMobile
		},
	}, stubOTPCache{})

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"mobile":"12345"}`))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	handler := newTestHandler(stubService{}, stubOTPCache{})

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
