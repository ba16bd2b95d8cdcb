package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

// Insert appends an audit row inside the caller's transaction, so the trail
// commits or rolls back together with the change it records.
func Insert(ctx context.Context, tx pgx.Tx, bookingID *int64, action, actor string, metadata any) error {
	var s *string
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO audit_logs (booking_id, action, actor, metadata)
VALUES ($1, $2, $3, CAST($4 AS jsonb))
`
	_, err := tx.Exec(ctx, q, bookingID, action, actor, s)
	return err
}
