package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shop-api/internal/auth"
	"shop-api/internal/order"
)

type OrderHandler struct {
	svc *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	o, err := h.svc.CreateFromCart(r.Context(), ident.UserID)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	orders, err := h.svc.ListByUser(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	orderID := chi.URLParam(r, "orderID")
	items, err := h.svc.ListItems(r.Context(), ident.UserID, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list order items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if err := h.svc.Cancel(r.Context(), ident.UserID, orderID); err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, order.ErrForbidden):
			writeError(w, http.StatusForbidden, "order belongs to another user")
		case errors.Is(err, order.ErrAlreadyCancelled):
			writeError(w, http.StatusBadRequest, "order already cancelled")
		default:
			writeError(w, http.StatusInternalServerError, "failed to cancel order")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(order.StatusCanceled)})
}
