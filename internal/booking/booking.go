package booking

import (
	"errors"
	"time"

	"carservice/internal/user"
)

// Rejections callers are expected to handle. Anything else coming out of a
// booking operation is a storage failure.
var (
	ErrSlotFull          = errors.New("slot is full")
	ErrInvalidReference  = errors.New("unknown slot, vehicle or service")
	ErrForbidden         = errors.New("actor may not modify this booking")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type Booking struct {
	ID                 int64     `json:"id"`
	CustomerID         int64     `json:"customerId"`
	VehicleID          int64     `json:"vehicleId"`
	ServiceID          int64     `json:"serviceId"`
	SlotID             int64     `json:"slotId"`
	Status             Status    `json:"status"`
	AssignedMechanicID *int64    `json:"assignedMechanicId,omitempty"`
	Remarks            *string   `json:"remarks,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// CanUpdate decides whether the actor may change this booking's status.
// Admins may touch any booking; a mechanic only their own assignments.
func CanUpdate(actor user.Identity, b Booking) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleMechanic:
		if b.AssignedMechanicID != nil && *b.AssignedMechanicID == actor.MechanicID {
			return nil
		}
		return ErrForbidden
	default:
		return ErrForbidden
	}
}

// hasCapacity is the admission rule for slot allocation. It must only be
// evaluated while the slot row is locked.
func hasCapacity(booked, maxBookings int) bool {
	return booked < maxBookings
}
