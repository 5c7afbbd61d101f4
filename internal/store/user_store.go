package store

import "context"

type UserStore struct {
	db DB
}

type User struct {
	ID        string  `db:"id"`
	Mobile    string  `db:"mobile"`
	Name      *string `db:"name"`
	CreatedAt any     `db:"created_at"`
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, mobile string, name *string) error {
	query := `
		INSERT INTO users (id, mobile, name)
		VALUES ($1, $2, $3)
	`
	_, err := tx.ExecContext(ctx, query, id, mobile, name)
	return err
}

func (s *UserStore) GetByMobile(ctx context.Context, mobile string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, mobile, name, created_at
		FROM users
		WHERE mobile = $1
	`, mobile)
	if err != nil {
		return User{}, err
	}
	return row, nil
}
