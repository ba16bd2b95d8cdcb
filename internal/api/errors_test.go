package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestWriteLookupError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing row",
			err:        pgx.ErrNoRows,
			wantStatus: http.StatusNotFound,
			wantCode:   "INVALID_REFERENCE",
		},
		{
			name:       "wrapped missing row",
			err:        fmt.Errorf("load booking: %w", pgx.ErrNoRows),
			wantStatus: http.StatusNotFound,
			wantCode:   "INVALID_REFERENCE",
		},
		{
			name:       "connection failure is not a 404",
			err:        errors.New("dial tcp 10.0.0.5:5432: connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "STORAGE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteLookupError(rec, tt.err, "INVALID_REFERENCE", "booking not found")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var env ErrorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if env.Error.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
		})
	}
}
