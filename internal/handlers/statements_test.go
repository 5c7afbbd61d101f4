package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"phonepe/internal/services"

	"github.com/go-chi/chi/v5"
)

func statementRequest(mobile string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/transactions/"+mobile, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("mobile", mobile)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestGetTransactionsReturnsStatement(t *testing.T) {
	handler := newTestHandler(stubService{
		getStatementFn: func(ctx context.Context, mobile string) (services.Statement, error) {
			if mobile != "9123456780" {
				t.Fatalf("unexpected mobile %q", mobile)
			}
			return services.Statement{
				Mobile:    mobile,
				UPIHandle: "9123456780@ybl",
				Balance:   "2450.75",
				Transactions: []services.StatementEntry{
					{ID: "txn-1", Amount: "499.00", Type: "DEBIT", Merchant: "Zomato", Status: "SUCCESS", Reference: "UPI123456789"},
				},
			}, nil
		},
	}, stubOTPCache{})

	rr := httptest.NewRecorder()
	handler.GetTransactions(rr, statementRequest("9123456780"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Balance      string                    `json:"balance"`
		Transactions []services.StatementEntry `json:"transactions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Balance != "2450.75" {
		t.Fatalf("unexpected balance %q", body.Balance)
	}
	if len(body.Transactions) != 1 || body.Transactions[0].Merchant != "Zomato" {
		t.Fatalf("unexpected transactions %#v", body.Transactions)
	}
}

func TestGetTransactionsRejectsBadMobile(t *testing.T) {
	handler := newTestHandler(stubService{
		getStatementFn: func(context.Context, string) (services.Statement, error) {
			return services.Statement{}, services.ErrInvalidMobile
		},
	}, stubOTPCache{})

	rr := httptest.NewRecorder()
	handler.GetTransactions(rr, statementRequest("12345"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetTransactionsReportsRegenerationFailure(t *testing.T) {
	handler := newTestHandler(stubService{
		getStatementFn: func(context.Context, string) (services.Statement, error) {
			return services.Statement{}, services.ErrRegenerationFailed
		},
	}, stubOTPCache{})

	rr := httptest.NewRecorder()
	handler.GetTransactions(rr, statementRequest("9123456780"))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestGetTransactionsHidesInternalErrors(t *testing.T) {
	handler := newTestHandler(stubService{
		getStatementFn: func(context.Context, string) (services.Statement, error) {
			return services.Statement{}, errors.New("connection refused")
		},
	}, stubOTPCache{})

	rr := httptest.NewRecorder()
	handler.GetTransactions(rr, statementRequest("9123456780"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["error"] == "connection refused" {
		t.Fatalf("internal error leaked to the client")
	}
}

func TestWSBalancesRejectsBadMobile(t *testing.T) {
	handler := newTestHandler(stubService{}, stubOTPCache{})

	req := httptest.NewRequest(http.MethodGet, "/ws/balances?mobile=12345", nil)
	rr := httptest.NewRecorder()
	handler.WSBalances(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
