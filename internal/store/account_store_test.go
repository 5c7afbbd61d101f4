package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestAccountStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO accounts") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[0] != "acct-1" || args[1] != "user-1" || args[2] != "9123456780@ybl" || args[3] != int64(0) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAccountStore(stubDB{})
	if err := store.Create(ctx, execer, "acct-1", "user-1", "9123456780@ybl", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccountStoreGetByUserID(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE user_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			row := dest.(*Account)
			*row = Account{ID: "acct-1", UserID: "user-1", UPIID: "9123456780@ybl", Balance: 245075}
			return nil
		},
	})
	account, err := store.GetByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Balance != 245075 {
		t.Fatalf("unexpected account: %#v", account)
	}
}

func TestAccountStoreUpdateBalance(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET balance = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != int64(310050) || args[1] != "acct-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAccountStore(stubDB{})
	if err := store.UpdateBalance(ctx, execer, "acct-1", 310050); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
