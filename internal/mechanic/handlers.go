package mechanic

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carservice/internal/api"
	"carservice/internal/user"
	"carservice/pkg/db"
)

type Handlers struct {
	DB        *pgxpool.Pool
	Mechanics *Repository
	Users     *user.Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Mechanics.List(r.Context())
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
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
	Password       string `json:"password"`
}

// Create provisions a mechanic account: a login user and the mechanic
// profile in one transaction.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
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

	var mechanicID int64
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		userID, err := user.Insert(r.Context(), tx, req.Email, hash, user.RoleMechanic)
		if err != nil {
			return err
		}
		mechanicID, err = Insert(r.Context(), tx, userID, req.FullName, req.Phone, req.Specialization)
		return err
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to create mechanic")
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]any{"mechanicId": mechanicID})
}

type SetActiveRequest struct {
	IsActive bool `json:"isActive"`
}

func (h Handlers) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	if err := h.Mechanics.SetActive(r.Context(), id, req.IsActive); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to update mechanic")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
