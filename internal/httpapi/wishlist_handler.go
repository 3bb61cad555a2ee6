package httpapi

import (
	"errors"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"shop-api/internal/auth"
	"shop-api/internal/wishlist"
)

type WishlistHandler struct {
	repo     wishlist.Repository
	validate *validatorv10.Validate
}

func NewWishlistHandler(repo wishlist.Repository, validate *validatorv10.Validate) *WishlistHandler {
	return &WishlistHandler{repo: repo, validate: validate}
}

type wishlistAddRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req wishlistAddRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	it := &wishlist.Item{UserID: ident.UserID, ProductID: req.ProductID}
	if err := h.repo.Add(r.Context(), it); err != nil {
		if errors.Is(err, wishlist.ErrAlreadyAdded) {
			writeError(w, http.StatusBadRequest, "product already in wishlist")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to add to wishlist")
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	items, err := h.repo.ListByUser(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list wishlist")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
