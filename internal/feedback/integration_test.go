package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"carservice/internal/api"
	"carservice/internal/booking"
	"carservice/internal/user"
	"carservice/pkg/config"
	"carservice/pkg/db"
)

// Runs against a real Postgres; skipped when DATABASE_URL is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	cfg := config.Config{DatabaseURL: url}
	if err := db.Migrate("file://../../migrations", cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// seedCompletedBooking creates a customer with one COMPLETED booking and
// returns the ids feedback submission needs.
func seedCompletedBooking(t *testing.T, pool *pgxpool.Pool) (userID, customerID, bookingID int64) {
	t.Helper()
	ctx := context.Background()
	nonce := time.Now().UnixNano()

	var vehicleID, serviceID, slotID int64
	if err := pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ($1, 'x', 'CUSTOMER') RETURNING user_id`,
		fmt.Sprintf("fb%d@example.test", nonce)).Scan(&userID); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO customers (user_id, full_name) VALUES ($1, 'Feedback Customer') RETURNING customer_id`,
		userID).Scan(&customerID); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO vehicles (customer_id, vehicle_number) VALUES ($1, $2) RETURNING vehicle_id`,
		customerID, fmt.Sprintf("FB-%d", nonce)).Scan(&vehicleID); err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO services (service_name, base_price) VALUES ('Oil Change', 499.00) RETURNING service_id`).Scan(&serviceID); err != nil {
		t.Fatalf("seed service: %v", err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO time_slots (slot_date, start_time, end_time, max_bookings)
		 VALUES ('2031-02-01', '09:00', '10:00', 5) RETURNING slot_id`).Scan(&slotID); err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO bookings (customer_id, vehicle_id, service_id, slot_id, current_status)
		 VALUES ($1, $2, $3, $4, 'COMPLETED') RETURNING booking_id`,
		customerID, vehicleID, serviceID, slotID).Scan(&bookingID); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return userID, customerID, bookingID
}

// A second submission for the same booking must be rejected as a duplicate,
// enforced by the unique index rather than a read-then-write check.
func TestSubmitDuplicateRejected(t *testing.T) {
	pool := testPool(t)
	userID, customerID, bookingID := seedCompletedBooking(t, pool)

	h := Handlers{
		Feedback: NewRepository(pool),
		Bookings: booking.NewRepository(pool),
	}
	ident := &user.Identity{UserID: userID, Role: user.RoleCustomer, CustomerID: customerID}

	submit := func() *httptest.ResponseRecorder {
		body := fmt.Sprintf(`{"bookingId":%d,"rating":5,"comments":"great work"}`, bookingID)
		req := httptest.NewRequest(http.MethodPost, "/v1/feedback", strings.NewReader(body))
		req = req.WithContext(api.WithIdentity(req.Context(), ident))
		rec := httptest.NewRecorder()
		h.Submit(rec, req)
		return rec
	}

	if rec := submit(); rec.Code != http.StatusCreated {
		t.Fatalf("first submit: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec := submit()
	if rec.Code != http.StatusConflict {
		t.Fatalf("second submit: status = %d, want %d", rec.Code, http.StatusConflict)
	}
	var env api.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Error.Code != "DUPLICATE" {
		t.Fatalf("code = %q, want DUPLICATE", env.Error.Code)
	}

	var n int
	if err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM feedback WHERE booking_id = $1`, bookingID).Scan(&n); err != nil {
		t.Fatalf("count feedback: %v", err)
	}
	if n != 1 {
		t.Fatalf("feedback rows = %d, want 1", n)
	}
}
