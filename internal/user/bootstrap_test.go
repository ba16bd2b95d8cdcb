package user

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

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

func TestEnsureAdmin(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	email := fmt.Sprintf("admin%d@example.test", time.Now().UnixNano())

	created, err := EnsureAdmin(ctx, pool, email, "first-password")
	if err != nil {
		t.Fatalf("first EnsureAdmin: %v", err)
	}
	if !created {
		t.Fatal("first EnsureAdmin: created = false, want true")
	}

	u, err := NewRepository(pool).FindActiveByEmail(ctx, email)
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if u.Role != RoleAdmin {
		t.Fatalf("role = %q, want %q", u.Role, RoleAdmin)
	}
	if !VerifyPassword("first-password", u.PasswordHash) {
		t.Fatal("password does not verify")
	}

	// Rerunning must not touch the existing account.
	created, err = EnsureAdmin(ctx, pool, email, "second-password")
	if err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	if created {
		t.Fatal("second EnsureAdmin: created = true, want false")
	}
	u, err = NewRepository(pool).FindActiveByEmail(ctx, email)
	if err != nil {
		t.Fatalf("refind admin: %v", err)
	}
	if !VerifyPassword("first-password", u.PasswordHash) {
		t.Fatal("original password no longer verifies")
	}
}
