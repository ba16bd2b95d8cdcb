package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"carservice/internal/user"
)

func TestSessionRoundtrip(t *testing.T) {
	now := time.Unix(1700000000, 0)
	mgr := NewManager("test-secret", time.Hour, NewSessionStore())

	ident := user.Identity{UserID: 42, Email: "c@example.com", Role: user.RoleCustomer, CustomerID: 7}
	token, err := mgr.Issue(ident, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := mgr.Authenticate(token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.UserID != 42 || got.Role != user.RoleCustomer || got.CustomerID != 7 {
		t.Fatalf("identity mismatch: %+v", got)
	}
}

func TestSessionRevocation(t *testing.T) {
	now := time.Unix(1700000000, 0)
	mgr := NewManager("test-secret", time.Hour, NewSessionStore())

	token, err := mgr.Issue(user.Identity{UserID: 1, Role: user.RoleAdmin}, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	mgr.Revoke(token, now)

	if _, err := mgr.Authenticate(token, now); err == nil {
		t.Fatalf("expected revoked session to fail authentication")
	}

	// Revoking again is a no-op, not a panic.
	mgr.Revoke(token, now)
}

func TestSessionExpiry(t *testing.T) {
	now := time.Unix(1700000000, 0)
	mgr := NewManager("test-secret", 10*time.Minute, NewSessionStore())

	token, err := mgr.Issue(user.Identity{UserID: 1, Role: user.RoleMechanic, MechanicID: 3}, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := mgr.Authenticate(token, now.Add(11*time.Minute)); err == nil {
		t.Fatalf("expected expired token to fail authentication")
	}
}

func TestSessionWrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := NewSessionStore()
	mgr := NewManager("secret-a", time.Hour, store)

	token, err := mgr.Issue(user.Identity{UserID: 1, Role: user.RoleAdmin}, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewManager("secret-b", time.Hour, store)
	if _, err := other.Authenticate(token, now); err == nil {
		t.Fatalf("expected signature verification to fail with wrong secret")
	}
}

func TestSessionStoreConcurrentAccess(t *testing.T) {
	store := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i)
			store.Put(id, user.Identity{UserID: int64(i), Role: user.RoleCustomer})
			if _, ok := store.Get(id); !ok {
				t.Errorf("missing session %s", id)
			}
			store.Delete(id)
			if _, ok := store.Get(id); ok {
				t.Errorf("session %s should be gone", id)
			}
		}(i)
	}
	wg.Wait()
}
