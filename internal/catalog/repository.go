package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Service struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	BasePrice         decimal.Decimal `json:"basePrice"`
	EstimatedDuration *string         `json:"estimatedDuration,omitempty"`
	IsActive          bool            `json:"isActive"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListActive(ctx context.Context) ([]Service, error) {
	const q = `
SELECT service_id, service_name, description, base_price::text, estimated_duration, is_active
FROM services
WHERE is_active
ORDER BY service_name
`
	return r.list(ctx, q)
}

func (r *Repository) ListAll(ctx context.Context) ([]Service, error) {
	const q = `
SELECT service_id, service_name, description, base_price::text, estimated_duration, is_active
FROM services
ORDER BY service_id DESC
`
	return r.list(ctx, q)
}

func (r *Repository) list(ctx context.Context, q string) ([]Service, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		var s Service
		var price string
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &price, &s.EstimatedDuration, &s.IsActive); err != nil {
			return nil, err
		}
		s.BasePrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) IsActive(ctx context.Context, serviceID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM services WHERE service_id = $1 AND is_active)`
	var active bool
	if err := r.db.QueryRow(ctx, q, serviceID).Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}

func (r *Repository) Insert(ctx context.Context, name, description string, basePrice decimal.Decimal, estimatedDuration *string) (int64, error) {
	const q = `
INSERT INTO services (service_name, description, base_price, estimated_duration)
VALUES ($1, $2, $3, $4)
RETURNING service_id
`
	var id int64
	if err := r.db.QueryRow(ctx, q, name, description, basePrice.StringFixed(2), estimatedDuration).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) SetActive(ctx context.Context, serviceID int64, active bool) error {
	const q = `UPDATE services SET is_active = $2 WHERE service_id = $1`
	_, err := r.db.Exec(ctx, q, serviceID, active)
	return err
}
