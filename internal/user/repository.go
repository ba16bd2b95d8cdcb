package user

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindActiveByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
SELECT user_id, email, password_hash, role, is_active, created_at
FROM users
WHERE email = $1 AND is_active
`
	var u User
	if err := r.db.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func Insert(ctx context.Context, tx pgx.Tx, email, passwordHash string, role Role) (int64, error) {
	const q = `
INSERT INTO users (email, password_hash, role)
VALUES ($1, $2, $3)
RETURNING user_id
`
	var id int64
	if err := tx.QueryRow(ctx, q, email, passwordHash, string(role)).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
