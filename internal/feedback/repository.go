package feedback

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Feedback struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"bookingId"`
	CustomerID int64     `json:"customerId"`
	Rating     int       `json:"rating"`
	Comments   string    `json:"comments"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ListItem struct {
	Feedback
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

// Insert stores feedback for a booking. The unique index on booking_id means
// a second submission inserts nothing; inserted=false signals the duplicate.
func (r *Repository) Insert(ctx context.Context, bookingID, customerID int64, rating int, comments string) (inserted bool, err error) {
	const q = `
INSERT INTO feedback (booking_id, customer_id, rating, comments)
VALUES ($1, $2, $3, $4)
ON CONFLICT (booking_id) DO NOTHING
`
	tag, err := r.db.Exec(ctx, q, bookingID, customerID, rating, comments)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]ListItem, error) {
	const q = `
SELECT f.feedback_id, f.booking_id, f.customer_id, f.rating, f.comments, f.created_at,
       c.full_name, s.service_name, b.booking_date
FROM feedback f
JOIN bookings b ON b.booking_id = f.booking_id
JOIN customers c ON c.customer_id = f.customer_id
JOIN services s ON s.service_id = b.service_id
ORDER BY f.created_at DESC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var it ListItem
		if err := rows.Scan(
			&it.ID, &it.BookingID, &it.CustomerID, &it.Rating, &it.Comments, &it.CreatedAt,
			&it.CustomerName, &it.ServiceName, &it.BookingDate,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
