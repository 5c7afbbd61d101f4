package store

import "context"

type PayloadStore struct {
	db DB
}

type PayloadInput struct {
	ID            string
	TransactionID string
	Payload       string
}

func NewPayloadStore(db DB) *PayloadStore {
	return &PayloadStore{db: db}
}

func (s *PayloadStore) InsertBatch(ctx context.Context, tx Execer, inputs []PayloadInput) error {
	query := `
		INSERT INTO transaction_payloads (id, transaction_id, payload)
		VALUES ($1, $2, $3)
	`
	for _, input := range inputs {
		if _, err := tx.ExecContext(ctx, query, input.ID, input.TransactionID, input.Payload); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByAccount removes every payload belonging to the account's
// transactions. Runs before the transaction rows themselves are deleted.
func (s *PayloadStore) DeleteByAccount(ctx context.Context, tx Execer, accountID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM transaction_payloads p
		USING transactions t
		WHERE p.transaction_id = t.id AND t.account_id = $1
	`, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

