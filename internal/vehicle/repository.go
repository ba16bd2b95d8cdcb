package vehicle

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Vehicle struct {
	ID              int64   `json:"id"`
	CustomerID      int64   `json:"customerId"`
	VehicleNumber   string  `json:"vehicleNumber"`
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	FuelType        string  `json:"fuelType"`
	ManufactureYear *int    `json:"manufactureYear,omitempty"`
	Color           *string `json:"color,omitempty"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]Vehicle, error) {
	const q = `
SELECT vehicle_id, customer_id, vehicle_number, brand, model, fuel_type, manufacture_year, color
FROM vehicles
WHERE customer_id = $1
ORDER BY vehicle_id DESC
`
	rows, err := r.db.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.CustomerID, &v.VehicleNumber, &v.Brand, &v.Model, &v.FuelType, &v.ManufactureYear, &v.Color); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// OwnedBy reports whether the vehicle exists and belongs to the customer.
func (r *Repository) OwnedBy(ctx context.Context, vehicleID, customerID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM vehicles WHERE vehicle_id = $1 AND customer_id = $2)`
	var owned bool
	if err := r.db.QueryRow(ctx, q, vehicleID, customerID).Scan(&owned); err != nil {
		return false, err
	}
	return owned, nil
}

func (r *Repository) Insert(ctx context.Context, v Vehicle) (int64, error) {
	const q = `
INSERT INTO vehicles (customer_id, vehicle_number, brand, model, fuel_type, manufacture_year, color)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING vehicle_id
`
	var id int64
	if err := r.db.QueryRow(ctx, q,
		v.CustomerID, v.VehicleNumber, v.Brand, v.Model, v.FuelType, v.ManufactureYear, v.Color,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Delete removes a vehicle only when it belongs to the customer. Returns the
// number of rows removed so callers can distinguish "not yours" from done.
func (r *Repository) Delete(ctx context.Context, vehicleID, customerID int64) (int64, error) {
	const q = `DELETE FROM vehicles WHERE vehicle_id = $1 AND customer_id = $2`
	tag, err := r.db.Exec(ctx, q, vehicleID, customerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
