package payment

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Payment struct {
	ID             int64           `json:"id"`
	BookingID      int64           `json:"bookingId"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMode    string          `json:"paymentMode"`
	PaymentStatus  string          `json:"paymentStatus"`
	TransactionRef string          `json:"transactionRef"`
	PaymentDate    time.Time       `json:"paymentDate"`
}

type ListItem struct {
	Payment
	CustomerName string    `json:"customerName"`
	ServiceName  string    `json:"serviceName"`
	BookingDate  time.Time `json:"bookingDate"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func Insert(ctx context.Context, tx pgx.Tx, bookingID int64, amount decimal.Decimal, mode, status, transactionRef string) (int64, error) {
	const q = `
INSERT INTO payments (booking_id, amount, payment_mode, payment_status, transaction_ref)
VALUES ($1, $2, $3, $4, $5)
RETURNING payment_id
`
	var id int64
	if err := tx.QueryRow(ctx, q, bookingID, amount.StringFixed(2), mode, status, transactionRef).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]ListItem, error) {
	const q = `
SELECT p.payment_id, p.booking_id, p.amount::text, p.payment_mode, p.payment_status, p.transaction_ref, p.payment_date,
       c.full_name, s.service_name, b.booking_date
FROM payments p
JOIN bookings b ON b.booking_id = p.booking_id
JOIN customers c ON c.customer_id = b.customer_id
JOIN services s ON s.service_id = b.service_id
ORDER BY p.payment_date DESC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var it ListItem
		var amount string
		if err := rows.Scan(
			&it.ID, &it.BookingID, &amount, &it.PaymentMode, &it.PaymentStatus, &it.TransactionRef, &it.PaymentDate,
			&it.CustomerName, &it.ServiceName, &it.BookingDate,
		); err != nil {
			return nil, err
		}
		it.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
