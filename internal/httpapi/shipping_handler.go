package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"

	"shop-api/internal/auth"
	"shop-api/internal/shipping"
)

type ShippingHandler struct {
	repo     shipping.Repository
	validate *validatorv10.Validate
}

func NewShippingHandler(repo shipping.Repository, validate *validatorv10.Validate) *ShippingHandler {
	return &ShippingHandler{repo: repo, validate: validate}
}

type addressRequest struct {
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Country      string `json:"country" validate:"required"`
	PostalCode   string `json:"postalCode" validate:"required"`
	PhoneNumber  string `json:"phoneNumber" validate:"required"`
}

func (h *ShippingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req addressRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	a := &shipping.Address{
		UserID:       ident.UserID,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		PostalCode:   req.PostalCode,
		PhoneNumber:  req.PhoneNumber,
	}
	if err := h.repo.Create(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create address")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *ShippingHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	addrs, err := h.repo.ListByUser(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list addresses")
		return
	}
	writeJSON(w, http.StatusOK, addrs)
}

func (h *ShippingHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req addressRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	a := &shipping.Address{
		ID:           chi.URLParam(r, "addressID"),
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		PostalCode:   req.PostalCode,
		PhoneNumber:  req.PhoneNumber,
	}
	if err := h.repo.Update(r.Context(), ident.UserID, a); err != nil {
		writeShippingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *ShippingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	if err := h.repo.Delete(r.Context(), ident.UserID, chi.URLParam(r, "addressID")); err != nil {
		writeShippingError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeShippingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shipping.ErrNotFound):
		writeError(w, http.StatusNotFound, "address not found")
	case errors.Is(err, shipping.ErrForbidden):
		writeError(w, http.StatusForbidden, "address belongs to another user")
	default:
		writeError(w, http.StatusInternalServerError, "failed to update address")
	}
}
