package store

import "context"

type AccountStore struct {
	db DB
}

type Account struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	UPIID     string `db:"upi_id"`
	Balance   int64  `db:"balance"`
	CreatedAt any    `db:"created_at"`
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, id, userID, upiID string, balance int64) error {
	query := `
		INSERT INTO accounts (id, user_id, upi_id, balance)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, userID, upiID, balance)
	return err
}

func (s *AccountStore) GetByUserID(ctx context.Context, userID string) (Account, error) {
	var row Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, upi_id, balance, created_at
		FROM accounts
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

func (s *AccountStore) UpdateBalance(ctx context.Context, tx Execer, accountID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, accountID)
	return err
}
