package store

import (
	"context"
	"time"
)

type TransactionStore struct {
	db DB
}

type TransactionInput struct {
	ID           string
	AccountID    string
	Amount       int64
	Type         string
	Merchant     string
	Status       string
	OccurredAt   time.Time
	UPIReference string
}

type StatementRow struct {
	ID           string `db:"id"`
	Amount       int64  `db:"amount"`
	Type         string `db:"type"`
	Merchant     string `db:"merchant"`
	Status       string `db:"status"`
	OccurredAt   any    `db:"occurred_at"`
	UPIReference string `db:"upi_reference"`
	Payload      []byte `db:"payload"`
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) InsertBatch(ctx context.Context, tx Execer, inputs []TransactionInput) error {
	query := `
		INSERT INTO transactions (id, account_id, amount, type, merchant, status, occurred_at, upi_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, input := range inputs {
		if _, err := tx.ExecContext(ctx, query,
			input.ID, input.AccountID, input.Amount, input.Type,
			input.Merchant, input.Status, input.OccurredAt, input.UPIReference,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *TransactionStore) DeleteByAccount(ctx context.Context, tx Execer, accountID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM transactions
		WHERE account_id = $1
	`, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TransactionStore) ListRecent(ctx context.Context, accountID string, limit int) ([]StatementRow, error) {
	var rows []StatementRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.amount, t.type, t.merchant, t.status, t.occurred_at, t.upi_reference,
		       p.payload
		FROM transactions t
		LEFT JOIN transaction_payloads p ON p.transaction_id = t.id
		WHERE t.account_id = $1
		ORDER BY t.occurred_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

