package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carservice/internal/api"
	"carservice/internal/customer"
	"carservice/internal/mechanic"
	"carservice/internal/user"
	"carservice/pkg/db"
)

type Handlers struct {
	DB        *pgxpool.Pool
	Sessions  *Manager
	Users     *user.Repository
	Customers *customer.Repository
	Mechanics *mechanic.Repository
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Password string `json:"password"`
}

// Register creates a customer account. Admin and mechanic accounts are
// provisioned by an administrator, not self-service.
func (h Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "fullName, email and password are required")
		return
	}

	exists, err := h.Users.EmailExists(r.Context(), req.Email)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if exists {
		api.WriteError(w, http.StatusConflict, "DUPLICATE", "email already registered")
		return
	}

	hash, err := user.HashPassword(req.Password)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	var customerID int64
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		userID, err := user.Insert(r.Context(), tx, req.Email, hash, user.RoleCustomer)
		if err != nil {
			return err
		}
		customerID, err = customer.Insert(r.Context(), tx, userID, req.FullName, req.Phone, req.Address, req.City)
		return err
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to register")
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]any{"customerId": customerID})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	u, err := h.Users.FindActiveByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil || !user.VerifyPassword(req.Password, u.PasswordHash) {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password")
		return
	}

	ident := user.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
	switch u.Role {
	case user.RoleCustomer:
		c, err := h.Customers.GetByUserID(r.Context(), u.ID)
		if err != nil {
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "customer profile missing")
			return
		}
		ident.CustomerID = c.ID
	case user.RoleMechanic:
		m, err := h.Mechanics.GetByUserID(r.Context(), u.ID)
		if err != nil {
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "mechanic profile missing")
			return
		}
		ident.MechanicID = m.ID
	}

	token, err := h.Sessions.Issue(ident, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to create session")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"identity": ident,
	})
}

func (h Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Revoke(bearerToken(r), time.Now())
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) Me(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	api.WriteJSON(w, http.StatusOK, ident)
}
