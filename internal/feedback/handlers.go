package feedback

import (
	"encoding/json"
	"net/http"

	"carservice/internal/api"
	"carservice/internal/booking"
)

type Handlers struct {
	Feedback *Repository
	Bookings *booking.Repository
}

type SubmitRequest struct {
	BookingID int64  `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comments  string `json:"comments"`
}

// Submit records customer feedback once per booking, only after the work is
// completed or the vehicle delivered.
func (h Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "rating must be between 1 and 5")
		return
	}

	b, err := h.Bookings.GetByID(r.Context(), req.BookingID)
	if err != nil {
		api.WriteLookupError(w, err, "INVALID_REFERENCE", "booking not found")
		return
	}
	if b.CustomerID != ident.CustomerID {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "booking belongs to another customer")
		return
	}
	if !booking.FeedbackEligible(b.Status) {
		api.WriteError(w, http.StatusConflict, "NOT_ELIGIBLE", "booking is not completed yet")
		return
	}

	inserted, err := h.Feedback.Insert(r.Context(), b.ID, ident.CustomerID, req.Rating, req.Comments)
	if err != nil {
		api.WriteError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "could not save feedback")
		return
	}
	if !inserted {
		api.WriteError(w, http.StatusConflict, "DUPLICATE", "feedback already submitted for this booking")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h Handlers) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.Feedback.ListAll(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []ListItem{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
