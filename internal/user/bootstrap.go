package user

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdmin provisions an ADMIN login if the email is not yet registered.
// The insert is keyed on the email's unique constraint, so running it on
// every start is harmless and never downgrades an existing account.
func EnsureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) (created bool, err error) {
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	const q = `
INSERT INTO users (email, password_hash, role)
VALUES ($1, $2, 'ADMIN')
ON CONFLICT (email) DO NOTHING
`
	tag, err := pool.Exec(ctx, q, email, hash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
