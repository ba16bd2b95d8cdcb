package slot

import (
	"encoding/json"
	"net/http"
	"time"

	"carservice/internal/api"
)

type Handlers struct {
	Slots *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Slots.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []ListItem{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type CreateRequest struct {
	Date        string `json:"date"`      // YYYY-MM-DD
	StartTime   string `json:"startTime"` // HH:MM
	EndTime     string `json:"endTime"`   // HH:MM
	MaxBookings int    `json:"maxBookings"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid date")
		return
	}
	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid startTime")
		return
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil || !end.After(start) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "endTime must be after startTime")
		return
	}
	if req.MaxBookings <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "maxBookings must be positive")
		return
	}

	id, err := h.Slots.Insert(r.Context(), date, req.StartTime, req.EndTime, req.MaxBookings)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to create slot")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"slotId": id})
}
