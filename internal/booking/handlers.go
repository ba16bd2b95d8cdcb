package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carservice/internal/api"
	"carservice/internal/audit"
	"carservice/internal/catalog"
	"carservice/internal/events"
	"carservice/internal/mechanic"
	"carservice/internal/slot"
	"carservice/internal/user"
	"carservice/internal/vehicle"
	"carservice/pkg/db"
)

type Handlers struct {
	DB        *pgxpool.Pool
	Bookings  *Repository
	Vehicles  *vehicle.Repository
	Catalog   *catalog.Repository
	Mechanics *mechanic.Repository
}

type CreateRequest struct {
	SlotID    int64 `json:"slotId"`
	VehicleID int64 `json:"vehicleId"`
	ServiceID int64 `json:"serviceId"`
}

// Create places a booking into a slot. The capacity check and the insert run
// in one transaction holding the slot's row lock, so two concurrent requests
// for the last seat cannot both pass the check.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.SlotID == 0 || req.VehicleID == 0 || req.ServiceID == 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "slotId, vehicleId and serviceId are required")
		return
	}

	owned, err := h.Vehicles.OwnedBy(r.Context(), req.VehicleID, ident.CustomerID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if !owned {
		writeRejection(w, ErrInvalidReference, "vehicle not found")
		return
	}

	active, err := h.Catalog.IsActive(r.Context(), req.ServiceID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if !active {
		writeRejection(w, ErrInvalidReference, "service not found or inactive")
		return
	}

	var bookingID int64
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		s, err := slot.GetForUpdate(r.Context(), tx, req.SlotID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidReference
			}
			return err
		}

		booked, err := CountBySlot(r.Context(), tx, s.ID)
		if err != nil {
			return err
		}
		if !hasCapacity(booked, s.MaxBookings) {
			return ErrSlotFull
		}

		bookingID, err = Insert(r.Context(), tx, ident.CustomerID, req.VehicleID, req.ServiceID, s.ID)
		if err != nil {
			return err
		}

		actor := actorString(*ident)
		_ = audit.Insert(r.Context(), tx, &bookingID, "BOOKING_CREATED", actor,
			map[string]any{"slotId": s.ID, "serviceId": req.ServiceID})
		return events.Insert(r.Context(), tx, bookingID, "BOOKING_CREATED", "Booking placed", actor,
			time.Now(), map[string]any{"slotId": s.ID})
	})
	if err != nil {
		if errors.Is(err, ErrSlotFull) {
			writeRejection(w, ErrSlotFull, "selected slot is full")
			return
		}
		if errors.Is(err, ErrInvalidReference) {
			writeRejection(w, ErrInvalidReference, "slot not found")
			return
		}
		api.WriteError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "could not create booking")
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]any{"bookingId": bookingID})
}

type UpdateStatusRequest struct {
	Status  string  `json:"status"`
	Remarks *string `json:"remarks,omitempty"`
}

// UpdateStatus moves a booking through its lifecycle. Only transitions in
// the allowed table go through; mechanics are limited to their own
// assignments.
func (h Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	if !ident.IsAdmin() && !ident.IsMechanic() {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
		return
	}

	bookingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
		return
	}

	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, bookingID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidReference
			}
			return err
		}

		if err := CanUpdate(*ident, *b); err != nil {
			return err
		}
		if !CanTransition(b.Status, next) {
			return ErrInvalidTransition
		}

		if err := UpdateStatus(r.Context(), tx, b.ID, next, req.Remarks); err != nil {
			return err
		}

		actor := actorString(*ident)
		_ = audit.Insert(r.Context(), tx, &b.ID, "STATUS_CHANGED", actor,
			map[string]any{"from": b.Status, "to": next})
		return events.Insert(r.Context(), tx, b.ID, "STATUS_CHANGED", "Status changed", actor,
			time.Now(), map[string]any{"from": b.Status, "to": next})
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidReference):
			writeRejection(w, ErrInvalidReference, "booking not found")
		case errors.Is(err, ErrForbidden):
			writeRejection(w, ErrForbidden, "booking is not assigned to you")
		case errors.Is(err, ErrInvalidTransition):
			writeRejection(w, ErrInvalidTransition, "status transition not allowed")
		default:
			api.WriteError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "could not update booking")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type AssignMechanicRequest struct {
	MechanicID int64 `json:"mechanicId"`
}

func (h Handlers) AssignMechanic(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	bookingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var req AssignMechanicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	exists, err := h.Mechanics.Exists(r.Context(), req.MechanicID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if !exists {
		writeRejection(w, ErrInvalidReference, "mechanic not found or inactive")
		return
	}

	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := GetForUpdate(r.Context(), tx, bookingID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidReference
			}
			return err
		}

		if err := AssignMechanic(r.Context(), tx, b.ID, req.MechanicID); err != nil {
			return err
		}

		actor := actorString(*ident)
		_ = audit.Insert(r.Context(), tx, &b.ID, "MECHANIC_ASSIGNED", actor,
			map[string]any{"mechanicId": req.MechanicID})
		return events.Insert(r.Context(), tx, b.ID, "MECHANIC_ASSIGNED", "Mechanic assigned", actor,
			time.Now(), map[string]any{"mechanicId": req.MechanicID})
	})
	if err != nil {
		if errors.Is(err, ErrInvalidReference) {
			writeRejection(w, ErrInvalidReference, "booking not found")
			return
		}
		api.WriteError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "could not assign mechanic")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.Bookings.ListAll(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	writeItems(w, items)
}

func (h Handlers) ListMine(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	items, err := h.Bookings.ListByCustomer(r.Context(), ident.CustomerID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	writeItems(w, items)
}

func (h Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	items, err := h.Bookings.ListOpenByMechanic(r.Context(), ident.MechanicID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	writeItems(w, items)
}

func (h Handlers) ListHistory(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	items, err := h.Bookings.ListHistoryByMechanic(r.Context(), ident.MechanicID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []HistoryItem{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	if _, err := h.Bookings.GetByID(r.Context(), bookingID); err != nil {
		api.WriteLookupError(w, err, "NOT_FOUND", "booking not found")
		return
	}

	evs, err := events.ListByBooking(r.Context(), h.DB, bookingID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if evs == nil {
		evs = []events.Event{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": evs})
}

func writeItems(w http.ResponseWriter, items []ListItem) {
	if items == nil {
		items = []ListItem{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// writeRejection maps the expected rejection kinds onto HTTP codes. Storage
// failures never come through here.
func writeRejection(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, ErrSlotFull):
		api.WriteError(w, http.StatusConflict, "SLOT_FULL", message)
	case errors.Is(err, ErrInvalidReference):
		api.WriteError(w, http.StatusNotFound, "INVALID_REFERENCE", message)
	case errors.Is(err, ErrForbidden):
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", message)
	case errors.Is(err, ErrInvalidTransition):
		api.WriteError(w, http.StatusConflict, "INVALID_STATE_TRANSITION", message)
	default:
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", message)
	}
}

func actorString(ident user.Identity) string {
	switch ident.Role {
	case user.RoleCustomer:
		return fmt.Sprintf("customer:%d", ident.CustomerID)
	case user.RoleMechanic:
		return fmt.Sprintf("mechanic:%d", ident.MechanicID)
	default:
		return fmt.Sprintf("admin:%d", ident.UserID)
	}
}
