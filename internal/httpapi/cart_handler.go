package httpapi

import (
	"errors"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"shop-api/internal/auth"
	"shop-api/internal/cart"
)

type CartHandler struct {
	svc      *cart.Service
	validate *validatorv10.Validate
}

func NewCartHandler(svc *cart.Service, validate *validatorv10.Validate) *CartHandler {
	return &CartHandler{svc: svc, validate: validate}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	c, err := h.svc.Get(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type addItemRequest struct {
	VariantID string `json:"variantId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req addItemRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	it, err := h.svc.AddItem(r.Context(), ident.UserID, req.VariantID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrInsufficientStock):
			writeError(w, http.StatusBadRequest, "not enough stock")
		case errors.Is(err, cart.ErrVariantNotFound):
			writeError(w, http.StatusNotFound, "variant not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to add item")
		}
		return
	}

	writeJSON(w, http.StatusOK, it)
}

type updateItemRequest struct {
	VariantID   string  `json:"variantId" validate:"required,uuid"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	PriceAtTime float64 `json:"priceAtTime" validate:"gte=0"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req updateItemRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	it, err := h.svc.UpdateItem(r.Context(), ident.UserID, req.VariantID, req.Quantity, req.PriceAtTime)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrItemNotFound), errors.Is(err, cart.ErrVariantNotFound):
			writeError(w, http.StatusNotFound, "item not found")
		case errors.Is(err, cart.ErrInsufficientStock):
			writeError(w, http.StatusBadRequest, "not enough stock available")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update item")
		}
		return
	}

	if it == nil {
		// quantity 0 removed the item
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, it)
}
