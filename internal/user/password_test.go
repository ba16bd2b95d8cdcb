package user

import "testing"

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatalf("hash must not equal the password")
	}
	if !VerifyPassword("hunter2", hash) {
		t.Fatalf("expected correct password to verify")
	}
	if VerifyPassword("hunter3", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ")
	}
}
