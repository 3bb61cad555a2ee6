package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"

	"shop-api/internal/auth"
	"shop-api/internal/coupon"
)

type CouponHandler struct {
	svc      *coupon.Service
	repo     coupon.Repository
	validate *validatorv10.Validate
}

func NewCouponHandler(svc *coupon.Service, repo coupon.Repository, validate *validatorv10.Validate) *CouponHandler {
	return &CouponHandler{svc: svc, repo: repo, validate: validate}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *CouponHandler) Apply(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req applyCouponRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	c, err := h.svc.Apply(r.Context(), ident.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, coupon.ErrInvalidCoupon):
			writeError(w, http.StatusBadRequest, "invalid coupon code")
		case errors.Is(err, coupon.ErrCouponExpired):
			writeError(w, http.StatusBadRequest, "coupon has expired")
		default:
			writeError(w, http.StatusInternalServerError, "failed to apply coupon")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"discountAmount": c.DiscountAmount})
}

// Admin CRUD below; routes mount these behind the superuser check.

type couponRequest struct {
	Code           string    `json:"code" validate:"required"`
	DiscountAmount float64   `json:"discountAmount" validate:"gte=0"`
	ExpirationDate time.Time `json:"expirationDate" validate:"required"`
	IsActive       bool      `json:"isActive"`
}

func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list coupons")
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	c := &coupon.Coupon{
		Code:           req.Code,
		DiscountAmount: req.DiscountAmount,
		ExpirationDate: req.ExpirationDate,
		IsActive:       req.IsActive,
	}
	if err := h.repo.Create(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create coupon")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	c := &coupon.Coupon{
		ID:             chi.URLParam(r, "couponID"),
		Code:           req.Code,
		DiscountAmount: req.DiscountAmount,
		ExpirationDate: req.ExpirationDate,
		IsActive:       req.IsActive,
	}
	if err := h.repo.Update(r.Context(), c); err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			writeError(w, http.StatusNotFound, "coupon not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update coupon")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "couponID")); err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			writeError(w, http.StatusNotFound, "coupon not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete coupon")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
