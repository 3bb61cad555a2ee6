package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"

	"shop-api/internal/auth"
	"shop-api/internal/review"
)

type ReviewHandler struct {
	repo     review.Repository
	validate *validatorv10.Validate
}

func NewReviewHandler(repo review.Repository, validate *validatorv10.Validate) *ReviewHandler {
	return &ReviewHandler{repo: repo, validate: validate}
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req reviewRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	rev := &review.Review{
		ProductID: chi.URLParam(r, "productID"),
		UserID:    ident.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.repo.Create(r.Context(), rev); err != nil {
		if errors.Is(err, review.ErrAlreadyReviewed) {
			writeError(w, http.StatusBadRequest, "product already reviewed")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create review")
		return
	}
	writeJSON(w, http.StatusCreated, rev)
}

func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.repo.ListByProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
