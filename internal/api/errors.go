package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Error: APIError{Code: code, Message: message},
	})
}

// WriteLookupError reports a failed read-path lookup. A missing row gets
// the caller's code as a 404; any other failure is a retryable storage
// error, never "not found".
func WriteLookupError(w http.ResponseWriter, err error, code, message string) {
	if errors.Is(err, pgx.ErrNoRows) {
		WriteError(w, http.StatusNotFound, code, message)
		return
	}
	WriteError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "storage unavailable")
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
