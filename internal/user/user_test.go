package user

import "testing"

func TestParseRole(t *testing.T) {
	for _, s := range []string{"ADMIN", "CUSTOMER", "MECHANIC"} {
		if _, err := ParseRole(s); err != nil {
			t.Fatalf("ParseRole(%q): %v", s, err)
		}
	}
	if _, err := ParseRole("ROOT"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestIdentityRoleHelpers(t *testing.T) {
	if !(Identity{Role: RoleAdmin}).IsAdmin() {
		t.Fatalf("IsAdmin")
	}
	if !(Identity{Role: RoleCustomer}).IsCustomer() {
		t.Fatalf("IsCustomer")
	}
	if !(Identity{Role: RoleMechanic}).IsMechanic() {
		t.Fatalf("IsMechanic")
	}
	if (Identity{Role: RoleCustomer}).IsAdmin() {
		t.Fatalf("customer must not be admin")
	}
}
