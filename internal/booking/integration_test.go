package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"carservice/internal/api"
	"carservice/internal/catalog"
	"carservice/internal/mechanic"
	"carservice/internal/user"
	"carservice/internal/vehicle"
	"carservice/pkg/config"
	"carservice/pkg/db"
)

// Tests below run against a real Postgres and are skipped when DATABASE_URL
// is not set.
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

type fixture struct {
	userID     int64
	customerID int64
	vehicleID  int64
	serviceID  int64
	slotID     int64
}

func seedFixture(t *testing.T, pool *pgxpool.Pool, maxBookings int) fixture {
	t.Helper()
	ctx := context.Background()
	nonce := time.Now().UnixNano()

	var f fixture
	err := pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ($1, 'x', 'CUSTOMER') RETURNING user_id`,
		fmt.Sprintf("cust%d@example.test", nonce)).Scan(&f.userID)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO customers (user_id, full_name) VALUES ($1, 'Test Customer') RETURNING customer_id`,
		f.userID).Scan(&f.customerID)
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO vehicles (customer_id, vehicle_number) VALUES ($1, $2) RETURNING vehicle_id`,
		f.customerID, fmt.Sprintf("KA-%d", nonce)).Scan(&f.vehicleID)
	if err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO services (service_name, base_price) VALUES ('General Service', 999.00) RETURNING service_id`).Scan(&f.serviceID)
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO time_slots (slot_date, start_time, end_time, max_bookings)
		 VALUES ('2031-01-01', '09:00', '10:00', $1) RETURNING slot_id`,
		maxBookings).Scan(&f.slotID)
	if err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return f
}

// Two concurrent requests for the last place in a slot: exactly one may
// commit, the other must see a full slot.
func TestCreateConcurrentCapacity(t *testing.T) {
	pool := testPool(t)
	f := seedFixture(t, pool, 1)

	h := Handlers{
		DB:        pool,
		Bookings:  NewRepository(pool),
		Vehicles:  vehicle.NewRepository(pool),
		Catalog:   catalog.NewRepository(pool),
		Mechanics: mechanic.NewRepository(pool),
	}
	ident := &user.Identity{UserID: f.userID, Role: user.RoleCustomer, CustomerID: f.customerID}

	attempt := func() *httptest.ResponseRecorder {
		body := fmt.Sprintf(`{"slotId":%d,"vehicleId":%d,"serviceId":%d}`, f.slotID, f.vehicleID, f.serviceID)
		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
		req = req.WithContext(api.WithIdentity(req.Context(), ident))
		rec := httptest.NewRecorder()
		h.Create(rec, req)
		return rec
	}

	results := make([]*httptest.ResponseRecorder, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = attempt()
		}(i)
	}
	wg.Wait()

	var created, full int
	for _, rec := range results {
		switch rec.Code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			var env api.ErrorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
				t.Fatalf("decode conflict body: %v", err)
			}
			if env.Error.Code != "SLOT_FULL" {
				t.Fatalf("conflict code = %q, want SLOT_FULL", env.Error.Code)
			}
			full++
		default:
			t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
		}
	}
	if created != 1 || full != 1 {
		t.Fatalf("created=%d full=%d, want exactly one of each", created, full)
	}

	var n int
	if err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM bookings WHERE slot_id = $1`, f.slotID).Scan(&n); err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	if n != 1 {
		t.Fatalf("bookings in slot = %d, want 1", n)
	}
}
