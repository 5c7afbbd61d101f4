package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestCounterStoreEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "ON CONFLICT (mobile) DO NOTHING") {
				t.Fatalf("expected conflict-safe insert, got: %s", query)
			}
			if args[0] != "9123456780" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{}, nil
		},
	}
	store := NewCounterStore(stubDB{})
	if err := store.Ensure(ctx, execer, "9123456780"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCounterStoreGetForUpdateLocksRow(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected row lock, got: %s", query)
			}
			row := dest.(*GenerationCounter)
			*row = GenerationCounter{Mobile: "9123456780", Count: 2}
			return nil
		},
	}
	store := NewCounterStore(stubDB{})
	counter, err := store.GetForUpdate(ctx, getter, "9123456780")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter.Count != 2 {
		t.Fatalf("unexpected counter: %#v", counter)
	}
}

func TestCounterStoreIncrementIsConditional(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "AND count = $2") {
				t.Fatalf("expected optimistic guard, got: %s", query)
			}
			if args[1] != 2 {
				t.Fatalf("unexpected expected count: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewCounterStore(stubDB{})
	rows, err := store.Increment(ctx, execer, "9123456780", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
}

func TestCounterStoreIncrementReportsStaleToken(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			return stubResult{rows: 0}, nil
		},
	}
	store := NewCounterStore(stubDB{})
	rows, err := store.Increment(ctx, execer, "9123456780", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected stale token to update nothing, got %d", rows)
	}
}

func TestCounterStoreResetStampsGeneration(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "last_generated_at = NOW()") {
				t.Fatalf("expected generation timestamp, got: %s", query)
			}
			if args[0] != 1 || args[1] != "9123456780" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewCounterStore(stubDB{})
	if err := store.Reset(ctx, execer, "9123456780", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
