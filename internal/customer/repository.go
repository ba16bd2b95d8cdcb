package customer

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Customer struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Customer, error) {
	const q = `
SELECT customer_id, user_id, full_name, phone, address, city
FROM customers
WHERE user_id = $1
`
	var c Customer
	if err := r.db.QueryRow(ctx, q, userID).Scan(
		&c.ID, &c.UserID, &c.FullName, &c.Phone, &c.Address, &c.City,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, customerID int64, fullName, phone, address, city string) error {
	const q = `
UPDATE customers
SET full_name = $2, phone = $3, address = $4, city = $5
WHERE customer_id = $1
`
	_, err := r.db.Exec(ctx, q, customerID, fullName, phone, address, city)
	return err
}

func Insert(ctx context.Context, tx pgx.Tx, userID int64, fullName, phone, address, city string) (int64, error) {
	const q = `
INSERT INTO customers (user_id, full_name, phone, address, city)
VALUES ($1, $2, $3, $4, $5)
RETURNING customer_id
`
	var id int64
	if err := tx.QueryRow(ctx, q, userID, fullName, phone, address, city).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
