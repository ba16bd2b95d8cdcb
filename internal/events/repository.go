package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Event struct {
	ID         int64           `json:"id"`
	BookingID  int64           `json:"bookingId"`
	EventType  string          `json:"eventType"`
	Summary    string          `json:"summary"`
	Actor      string          `json:"actor"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func Insert(ctx context.Context, tx pgx.Tx, bookingID int64, eventType, summary, actor string, occurredAt time.Time, data any) error {
	var s *string
	if data != nil {
		b, _ := json.Marshal(data)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO booking_events (booking_id, event_type, summary, actor, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`
	_, err := tx.Exec(ctx, q, bookingID, eventType, summary, actor, occurredAt, s)
	return err
}

func ListByBooking(ctx context.Context, db *pgxpool.Pool, bookingID int64) ([]Event, error) {
	const q = `
SELECT id, booking_id, event_type, summary, actor, occurred_at, data
FROM booking_events
WHERE booking_id = $1
ORDER BY occurred_at ASC, id ASC
`
	rows, err := db.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.BookingID, &e.EventType, &e.Summary, &e.Actor, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
