package customer

import (
	"encoding/json"
	"net/http"

	"carservice/internal/api"
)

type Handlers struct {
	Customers *Repository
}

func (h Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	c, err := h.Customers.GetByUserID(r.Context(), ident.UserID)
	if err != nil {
		api.WriteLookupError(w, err, "NOT_FOUND", "customer profile not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, c)
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

func (h Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.FullName == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "fullName is required")
		return
	}

	if err := h.Customers.UpdateProfile(r.Context(), ident.CustomerID, req.FullName, req.Phone, req.Address, req.City); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to update profile")
		return
	}

	c, err := h.Customers.GetByUserID(r.Context(), ident.UserID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load profile")
		return
	}
	api.WriteJSON(w, http.StatusOK, c)
}
