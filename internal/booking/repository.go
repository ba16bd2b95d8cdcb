package booking

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `booking_id, customer_id, vehicle_id, service_id, slot_id, current_status, assigned_mechanic_id, remarks, booking_date`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.CustomerID, &b.VehicleID, &b.ServiceID, &b.SlotID,
		&b.Status, &b.AssignedMechanicID, &b.Remarks, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) GetByID(ctx context.Context, bookingID int64) (*Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1`
	return scanBooking(r.db.QueryRow(ctx, q, bookingID))
}

// GetForUpdate locks the booking row so a status transition reads and writes
// under the same lock.
func GetForUpdate(ctx context.Context, tx pgx.Tx, bookingID int64) (*Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1 FOR UPDATE`
	return scanBooking(tx.QueryRow(ctx, q, bookingID))
}

// CountBySlot counts bookings in a slot. Run it inside the transaction that
// holds the slot row lock, otherwise the count can go stale before insert.
func CountBySlot(ctx context.Context, tx pgx.Tx, slotID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE slot_id = $1`
	var n int
	if err := tx.QueryRow(ctx, q, slotID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func Insert(ctx context.Context, tx pgx.Tx, customerID, vehicleID, serviceID, slotID int64) (int64, error) {
	const q = `
INSERT INTO bookings (customer_id, vehicle_id, service_id, slot_id, current_status)
VALUES ($1, $2, $3, $4, $5)
RETURNING booking_id
`
	var id int64
	if err := tx.QueryRow(ctx, q, customerID, vehicleID, serviceID, slotID, string(StatusBooked)).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateStatus writes the new status and, when remarks is non-nil, replaces
// the remarks. No other column changes.
func UpdateStatus(ctx context.Context, tx pgx.Tx, bookingID int64, next Status, remarks *string) error {
	const q = `
UPDATE bookings
SET current_status = $2,
    remarks = COALESCE($3, remarks)
WHERE booking_id = $1
`
	_, err := tx.Exec(ctx, q, bookingID, string(next), remarks)
	return err
}

func AssignMechanic(ctx context.Context, tx pgx.Tx, bookingID, mechanicID int64) error {
	const q = `UPDATE bookings SET assigned_mechanic_id = $2 WHERE booking_id = $1`
	_, err := tx.Exec(ctx, q, bookingID, mechanicID)
	return err
}

// ListItem is the joined row shape used by every booking listing.
type ListItem struct {
	Booking
	ServiceName   string    `json:"serviceName"`
	VehicleNumber string    `json:"vehicleNumber"`
	CustomerName  string    `json:"customerName"`
	MechanicName  *string   `json:"mechanicName,omitempty"`
	SlotDate      time.Time `json:"slotDate"`
	SlotStart     string    `json:"slotStart"`
	SlotEnd       string    `json:"slotEnd"`
}

const listSelect = `
SELECT b.booking_id, b.customer_id, b.vehicle_id, b.service_id, b.slot_id,
       b.current_status, b.assigned_mechanic_id, b.remarks, b.booking_date,
       s.service_name, v.vehicle_number, c.full_name,
       m.full_name,
       t.slot_date, t.start_time::text, t.end_time::text
FROM bookings b
JOIN services s ON s.service_id = b.service_id
JOIN vehicles v ON v.vehicle_id = b.vehicle_id
JOIN customers c ON c.customer_id = b.customer_id
JOIN time_slots t ON t.slot_id = b.slot_id
LEFT JOIN mechanics m ON m.mechanic_id = b.assigned_mechanic_id
`

func (r *Repository) listWhere(ctx context.Context, where, order string, args ...any) ([]ListItem, error) {
	rows, err := r.db.Query(ctx, listSelect+where+order, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var it ListItem
		if err := rows.Scan(
			&it.ID, &it.CustomerID, &it.VehicleID, &it.ServiceID, &it.SlotID,
			&it.Status, &it.AssignedMechanicID, &it.Remarks, &it.CreatedAt,
			&it.ServiceName, &it.VehicleNumber, &it.CustomerName,
			&it.MechanicName,
			&it.SlotDate, &it.SlotStart, &it.SlotEnd,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repository) ListAll(ctx context.Context) ([]ListItem, error) {
	return r.listWhere(ctx, ``, ` ORDER BY b.booking_date DESC`)
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]ListItem, error) {
	return r.listWhere(ctx, ` WHERE b.customer_id = $1`, ` ORDER BY b.booking_date DESC`, customerID)
}

// ListOpenByMechanic returns the mechanic's unfinished work queue, soonest
// slot first.
func (r *Repository) ListOpenByMechanic(ctx context.Context, mechanicID int64) ([]ListItem, error) {
	return r.listWhere(ctx,
		` WHERE b.assigned_mechanic_id = $1
  AND b.current_status IN ('BOOKED', 'IN_PROGRESS', 'WAITING_FOR_PARTS')`,
		` ORDER BY t.slot_date, t.start_time`, mechanicID)
}

type HistoryItem struct {
	ListItem
	Rating       *int       `json:"rating,omitempty"`
	Comments     *string    `json:"comments,omitempty"`
	FeedbackDate *time.Time `json:"feedbackDate,omitempty"`
}

// ListHistoryByMechanic returns the mechanic's completed and delivered jobs
// together with any customer feedback left on them.
func (r *Repository) ListHistoryByMechanic(ctx context.Context, mechanicID int64) ([]HistoryItem, error) {
	const q = `
SELECT b.booking_id, b.customer_id, b.vehicle_id, b.service_id, b.slot_id,
       b.current_status, b.assigned_mechanic_id, b.remarks, b.booking_date,
       s.service_name, v.vehicle_number, c.full_name,
       m.full_name,
       t.slot_date, t.start_time::text, t.end_time::text,
       f.rating, f.comments, f.created_at
FROM bookings b
JOIN services s ON s.service_id = b.service_id
JOIN vehicles v ON v.vehicle_id = b.vehicle_id
JOIN customers c ON c.customer_id = b.customer_id
JOIN time_slots t ON t.slot_id = b.slot_id
LEFT JOIN mechanics m ON m.mechanic_id = b.assigned_mechanic_id
LEFT JOIN feedback f ON f.booking_id = b.booking_id
WHERE b.assigned_mechanic_id = $1
  AND b.current_status IN ('COMPLETED', 'DELIVERED')
ORDER BY b.booking_date DESC
`
	rows, err := r.db.Query(ctx, q, mechanicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryItem
	for rows.Next() {
		var it HistoryItem
		if err := rows.Scan(
			&it.ID, &it.CustomerID, &it.VehicleID, &it.ServiceID, &it.SlotID,
			&it.Status, &it.AssignedMechanicID, &it.Remarks, &it.CreatedAt,
			&it.ServiceName, &it.VehicleNumber, &it.CustomerName,
			&it.MechanicName,
			&it.SlotDate, &it.SlotStart, &it.SlotEnd,
			&it.Rating, &it.Comments, &it.FeedbackDate,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
