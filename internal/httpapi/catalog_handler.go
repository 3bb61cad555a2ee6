package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"

	"shop-api/internal/catalog"
)

type CatalogHandler struct {
	repo     catalog.Repository
	validate *validatorv10.Validate
}

func NewCatalogHandler(repo catalog.Repository, validate *validatorv10.Validate) *CatalogHandler {
	return &CatalogHandler{repo: repo, validate: validate}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	ParentID    string `json:"parentId" validate:"omitempty,uuid"`
	Description string `json:"description"`
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	c := &catalog.Category{Name: req.Name, ParentID: req.ParentID, Description: req.Description}
	if err := h.repo.CreateCategory(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type productRequest struct {
	CategoryID  string  `json:"categoryId" validate:"required,uuid"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	IsActive    *bool   `json:"isActive"`
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	p := &catalog.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := h.repo.CreateProduct(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	p := &catalog.Product{
		ID:          chi.URLParam(r, "productID"),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := h.repo.UpdateProduct(r.Context(), p); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	variants, err := h.repo.ListVariants(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load variants")
		return
	}
	writeJSON(w, http.StatusOK, variants)
}

type variantRequest struct {
	Name       string  `json:"name" validate:"required"`
	Value      string  `json:"value" validate:"required"`
	Price      float64 `json:"price" validate:"required,gt=0"`
	StockCount int     `json:"stockCount" validate:"gte=0"`
}

func (h *CatalogHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	var req variantRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	v := &catalog.Variant{
		ProductID:  chi.URLParam(r, "productID"),
		Name:       req.Name,
		Value:      req.Value,
		Price:      req.Price,
		StockCount: req.StockCount,
	}
	if err := h.repo.CreateVariant(r.Context(), v); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create variant")
		return
	}
	writeJSON(w, http.StatusCreated, v)
}
