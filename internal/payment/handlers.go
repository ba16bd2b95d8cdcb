package payment

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"carservice/internal/api"
	"carservice/internal/audit"
	"carservice/internal/booking"
	"carservice/pkg/db"
)

type Handlers struct {
	DB       *pgxpool.Pool
	Payments *Repository
	Bookings *booking.Repository
}

type RecordRequest struct {
	BookingID      int64  `json:"bookingId"`
	Amount         string `json:"amount"`
	PaymentMode    string `json:"paymentMode"`
	PaymentStatus  string `json:"paymentStatus"`
	TransactionRef string `json:"transactionRef"`
}

// Record logs a manually collected payment against a booking. There is no
// gateway involved; this is bookkeeping only.
func (h Handlers) Record(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.BookingID == 0 || req.PaymentMode == "" || req.PaymentStatus == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "bookingId, paymentMode and paymentStatus are required")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid amount")
		return
	}

	if _, err := h.Bookings.GetByID(r.Context(), req.BookingID); err != nil {
		api.WriteLookupError(w, err, "INVALID_REFERENCE", "booking not found")
		return
	}

	var paymentID int64
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		paymentID, err = Insert(r.Context(), tx, req.BookingID, amount, req.PaymentMode, req.PaymentStatus, req.TransactionRef)
		if err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, &req.BookingID, "PAYMENT_RECORDED",
			fmt.Sprintf("admin:%d", ident.UserID),
			map[string]any{"amount": amount.StringFixed(2), "mode": req.PaymentMode, "status": req.PaymentStatus})
	})
	if err != nil {
		api.WriteError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "could not record payment")
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]any{"paymentId": paymentID})
}

func (h Handlers) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.Payments.ListAll(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []ListItem{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
