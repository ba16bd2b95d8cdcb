package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("DB_HOST", "")

	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.DB.Host != "localhost" {
		t.Fatalf("DB.Host = %q, want localhost", cfg.DB.Host)
	}
	if cfg.Auth.SessionTTLMinutes != 12*60 {
		t.Fatalf("SessionTTLMinutes = %d, want %d", cfg.Auth.SessionTTLMinutes, 12*60)
	}
}

func TestLoadPortFallback(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")

	cfg := Load()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
}

func TestEnvList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b", []string{"a", "b"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b,", []string{"a", "b"}},
	}
	for _, tc := range cases {
		t.Setenv("TEST_LIST", tc.in)
		got := envList("TEST_LIST", "")
		if len(got) != len(tc.want) {
			t.Fatalf("envList(%q) = %v, want %v", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("envList(%q) = %v, want %v", tc.in, got, tc.want)
			}
		}
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "120")
	if got := envInt("TEST_INT", 5); got != 120 {
		t.Fatalf("envInt = %d, want 120", got)
	}
	t.Setenv("TEST_INT", "not-a-number")
	if got := envInt("TEST_INT", 5); got != 5 {
		t.Fatalf("envInt fallback = %d, want 5", got)
	}
}
