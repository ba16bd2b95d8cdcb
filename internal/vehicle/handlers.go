package vehicle

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"carservice/internal/api"
)

type Handlers struct {
	Vehicles *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	items, err := h.Vehicles.ListByCustomer(r.Context(), ident.CustomerID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Vehicle{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type CreateRequest struct {
	VehicleNumber   string  `json:"vehicleNumber"`
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	FuelType        string  `json:"fuelType"`
	ManufactureYear *int    `json:"manufactureYear,omitempty"`
	Color           *string `json:"color,omitempty"`
}

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
	if req.VehicleNumber == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "vehicleNumber is required")
		return
	}
	if req.FuelType == "" {
		req.FuelType = "PETROL"
	}

	id, err := h.Vehicles.Insert(r.Context(), Vehicle{
		CustomerID:      ident.CustomerID,
		VehicleNumber:   req.VehicleNumber,
		Brand:           req.Brand,
		Model:           req.Model,
		FuelType:        req.FuelType,
		ManufactureYear: req.ManufactureYear,
		Color:           req.Color,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to add vehicle")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"vehicleId": id})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFromContext(r.Context())
	if ident == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	n, err := h.Vehicles.Delete(r.Context(), id, ident.CustomerID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete vehicle")
		return
	}
	if n == 0 {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "vehicle not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
