package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"

	"shop-api/internal/auth"
	"shop-api/internal/payment"
)

type PaymentHandler struct {
	repo     payment.Repository
	validate *validatorv10.Validate
}

func NewPaymentHandler(repo payment.Repository, validate *validatorv10.Validate) *PaymentHandler {
	return &PaymentHandler{repo: repo, validate: validate}
}

type recordPaymentRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Method  string `json:"paymentMethod" validate:"required,oneof=COD Card PayPal"`
}

func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req recordPaymentRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	p, err := h.repo.Record(r.Context(), ident.UserID, req.OrderID, payment.Method(req.Method))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, payment.ErrAlreadyPaid):
			writeError(w, http.StatusBadRequest, "order already paid")
		default:
			writeError(w, http.StatusInternalServerError, "failed to record payment")
		}
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PaymentHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	orderID := chi.URLParam(r, "orderID")
	payments, err := h.repo.ListByOrder(r.Context(), ident.UserID, orderID)
	if err != nil {
		if errors.Is(err, payment.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
