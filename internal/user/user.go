package user

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
	RoleMechanic Role = "MECHANIC"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleCustomer, RoleMechanic:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the resolved actor attached to every authenticated request.
// CustomerID and MechanicID are zero unless the role carries that profile.
type Identity struct {
	UserID     int64  `json:"userId"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	CustomerID int64  `json:"customerId,omitempty"`
	MechanicID int64  `json:"mechanicId,omitempty"`
}

func (id Identity) IsAdmin() bool    { return id.Role == RoleAdmin }
func (id Identity) IsCustomer() bool { return id.Role == RoleCustomer }
func (id Identity) IsMechanic() bool { return id.Role == RoleMechanic }
