package booking

import (
	"errors"
	"testing"

	"carservice/internal/user"
)

func int64p(v int64) *int64 { return &v }

func TestCanUpdate(t *testing.T) {
	assigned := Booking{ID: 1, Status: StatusBooked, AssignedMechanicID: int64p(7)}
	unassigned := Booking{ID: 2, Status: StatusBooked}

	cases := []struct {
		name    string
		actor   user.Identity
		booking Booking
		wantErr error
	}{
		{"admin may update any booking", user.Identity{UserID: 1, Role: user.RoleAdmin}, assigned, nil},
		{"assigned mechanic may update", user.Identity{UserID: 2, Role: user.RoleMechanic, MechanicID: 7}, assigned, nil},
		{"other mechanic is forbidden", user.Identity{UserID: 3, Role: user.RoleMechanic, MechanicID: 8}, assigned, ErrForbidden},
		{"mechanic forbidden on unassigned booking", user.Identity{UserID: 3, Role: user.RoleMechanic, MechanicID: 8}, unassigned, ErrForbidden},
		{"customer is forbidden", user.Identity{UserID: 4, Role: user.RoleCustomer, CustomerID: 1}, assigned, ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanUpdate(tc.actor, tc.booking)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("CanUpdate = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestHasCapacity(t *testing.T) {
	cases := []struct {
		booked, max int
		want        bool
	}{
		{0, 1, true},
		{1, 1, false},
		{2, 1, false}, // over capacity must never admit more
		{4, 5, true},
		{5, 5, false},
	}
	for _, tc := range cases {
		if got := hasCapacity(tc.booked, tc.max); got != tc.want {
			t.Errorf("hasCapacity(%d, %d) = %v, want %v", tc.booked, tc.max, got, tc.want)
		}
	}
}
