package store

import "context"

type CounterStore struct {
	db DB
}

type GenerationCounter struct {
	Mobile          string `db:"mobile"`
	Count           int    `db:"count"`
	LastGeneratedAt any    `db:"last_generated_at"`
}

func NewCounterStore(db DB) *CounterStore {
	return &CounterStore{db: db}
}

func (s *CounterStore) Ensure(ctx context.Context, tx Execer, mobile string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO generation_counters (mobile, count)
		VALUES ($1, 0)
		ON CONFLICT (mobile) DO NOTHING
	`, mobile)
	return err
}

// GetForUpdate locks the counter row, serializing the
// check-increment-or-reset sequence per mobile.
func (s *CounterStore) GetForUpdate(ctx context.Context, tx Getter, mobile string) (GenerationCounter, error) {
	var row GenerationCounter
	err := tx.GetContext(ctx, &row, `
		SELECT mobile, count, last_generated_at
		FROM generation_counters
		WHERE mobile = $1
		FOR UPDATE
	`, mobile)
	if err != nil {
		return GenerationCounter{}, err
	}
	return row, nil
}

// Increment bumps the counter only if it still holds the expected value.
// Returns the number of rows updated; zero means the optimistic check failed.
func (s *CounterStore) Increment(ctx context.Context, tx Execer, mobile string, expected int) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE generation_counters
		SET count = count + 1
		WHERE mobile = $1 AND count = $2
	`, mobile, expected)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *CounterStore) Reset(ctx context.Context, tx Execer, mobile string, count int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE generation_counters
		SET count = $1, last_generated_at = NOW()
		WHERE mobile = $2
	`, count, mobile)
	return err
}

