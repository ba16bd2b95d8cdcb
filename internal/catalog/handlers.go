package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"carservice/internal/api"
)

type Handlers struct {
	Services *Repository
}

// ListActive is the customer-facing catalog.
func (h Handlers) ListActive(w http.ResponseWriter, r *http.Request) {
	items, err := h.Services.ListActive(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Service{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.Services.ListAll(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Service{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type CreateRequest struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	BasePrice         string  `json:"basePrice"`
	EstimatedDuration *string `json:"estimatedDuration,omitempty"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.Name == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "name is required")
		return
	}
	price, err := decimal.NewFromString(req.BasePrice)
	if err != nil || price.IsNegative() {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid basePrice")
		return
	}

	id, err := h.Services.Insert(r.Context(), req.Name, req.Description, price, req.EstimatedDuration)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to create service")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"serviceId": id})
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

	if err := h.Services.SetActive(r.Context(), id, req.IsActive); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to update service")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
