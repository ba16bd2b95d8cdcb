package mechanic

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Mechanic struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"userId"`
	FullName       string `json:"fullName"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
	IsActive       bool   `json:"isActive"`
}

type ListItem struct {
	Mechanic
	Email string `json:"email"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Mechanic, error) {
	const q = `
SELECT mechanic_id, user_id, full_name, phone, specialization, is_active
FROM mechanics
WHERE user_id = $1
`
	var m Mechanic
	if err := r.db.QueryRow(ctx, q, userID).Scan(
		&m.ID, &m.UserID, &m.FullName, &m.Phone, &m.Specialization, &m.IsActive,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) Exists(ctx context.Context, mechanicID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM mechanics WHERE mechanic_id = $1 AND is_active)`
	var exists bool
	if err := r.db.QueryRow(ctx, q, mechanicID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repository) List(ctx context.Context) ([]ListItem, error) {
	const q = `
SELECT m.mechanic_id, m.user_id, m.full_name, m.phone, m.specialization, m.is_active, u.email
FROM mechanics m
JOIN users u ON u.user_id = m.user_id
ORDER BY m.mechanic_id DESC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var it ListItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.FullName, &it.Phone, &it.Specialization, &it.IsActive, &it.Email); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repository) SetActive(ctx context.Context, mechanicID int64, active bool) error {
	const q = `UPDATE mechanics SET is_active = $2 WHERE mechanic_id = $1`
	_, err := r.db.Exec(ctx, q, mechanicID, active)
	return err
}

func Insert(ctx context.Context, tx pgx.Tx, userID int64, fullName, phone, specialization string) (int64, error) {
	const q = `
INSERT INTO mechanics (user_id, full_name, phone, specialization)
VALUES ($1, $2, $3, $4)
RETURNING mechanic_id
`
	var id int64
	if err := tx.QueryRow(ctx, q, userID, fullName, phone, specialization).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
