package slot

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TimeSlot struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	MaxBookings int       `json:"maxBookings"`
}

type ListItem struct {
	TimeSlot
	Booked int `json:"booked"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List returns all slots with their current booking counts so callers can
// show remaining capacity. The count here is advisory; admission control
// happens under the row lock in GetForUpdate.
func (r *Repository) List(ctx context.Context) ([]ListItem, error) {
	const q = `
SELECT t.slot_id, t.slot_date, t.start_time::text, t.end_time::text, t.max_bookings,
       COUNT(b.booking_id)
FROM time_slots t
LEFT JOIN bookings b ON b.slot_id = t.slot_id
GROUP BY t.slot_id, t.slot_date, t.start_time, t.end_time, t.max_bookings
ORDER BY t.slot_date, t.start_time
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var it ListItem
		if err := rows.Scan(&it.ID, &it.Date, &it.StartTime, &it.EndTime, &it.MaxBookings, &it.Booked); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetForUpdate locks the slot row for the duration of the transaction.
// Concurrent booking attempts against the same slot queue up here, which is
// what makes the capacity check race-free.
func GetForUpdate(ctx context.Context, tx pgx.Tx, slotID int64) (*TimeSlot, error) {
	const q = `
SELECT slot_id, slot_date, start_time::text, end_time::text, max_bookings
FROM time_slots
WHERE slot_id = $1
FOR UPDATE
`
	var s TimeSlot
	if err := tx.QueryRow(ctx, q, slotID).Scan(
		&s.ID, &s.Date, &s.StartTime, &s.EndTime, &s.MaxBookings,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Insert(ctx context.Context, date time.Time, startTime, endTime string, maxBookings int) (int64, error) {
	const q = `
INSERT INTO time_slots (slot_date, start_time, end_time, max_bookings)
VALUES ($1, $2, $3, $4)
RETURNING slot_id
`
	var id int64
	if err := r.db.QueryRow(ctx, q, date, startTime, endTime, maxBookings).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
