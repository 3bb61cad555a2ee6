package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-api/internal/auth"
	cartpkg "shop-api/internal/cart"
	"shop-api/internal/httpapi"
)

type cartRepositoryMock struct {
	GetOrCreateFunc func(ctx context.Context, userID string) (*cartpkg.Cart, error)
	AddItemFunc     func(ctx context.Context, userID, variantID string, quantity int) (*cartpkg.Item, error)
	UpdateItemFunc  func(ctx context.Context, userID, variantID string, quantity int, priceAtTime float64) (*cartpkg.Item, error)
}

func (m *cartRepositoryMock) GetOrCreate(ctx context.Context, userID string) (*cartpkg.Cart, error) {
	return m.GetOrCreateFunc(ctx, userID)
}

func (m *cartRepositoryMock) AddItem(ctx context.Context, userID, variantID string, quantity int) (*cartpkg.Item, error) {
	return m.AddItemFunc(ctx, userID, variantID, quantity)
}

func (m *cartRepositoryMock) UpdateItem(ctx context.Context, userID, variantID string, quantity int, priceAtTime float64) (*cartpkg.Item, error) {
	return m.UpdateItemFunc(ctx, userID, variantID, quantity, priceAtTime)
}

func (m *cartRepositoryMock) AttachCoupon(context.Context, string, string) error { return nil }

func authedRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	return r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{UserID: "u1", Username: "alice"}))
}

const variantID = "7b0d67d6-7f35-4bfb-9a30-3b0c4f9ed0a1"

func TestCartHandlerGetCart(t *testing.T) {
	want := &cartpkg.Cart{ID: "c1", UserID: "u1", Items: []cartpkg.Item{{ID: "i1", VariantID: variantID, Quantity: 2, PriceAtTime: 5}}}
	repo := &cartRepositoryMock{GetOrCreateFunc: func(ctx context.Context, userID string) (*cartpkg.Cart, error) {
		if userID != "u1" {
			t.Fatalf("unexpected user: %s", userID)
		}
		return want, nil
	}}
	handler := httpapi.NewCartHandler(cartpkg.NewService(repo, nil), httpapi.NewValidator())

	w := httptest.NewRecorder()
	handler.GetCart(w, authedRequest(http.MethodGet, "/api/cart", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got cartpkg.Cart
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != "c1" || len(got.Items) != 1 {
		t.Fatalf("unexpected cart: %+v", got)
	}
}

func TestCartHandlerGetCart_NoIdentity(t *testing.T) {
	handler := httpapi.NewCartHandler(cartpkg.NewService(&cartRepositoryMock{}, nil), httpapi.NewValidator())

	w := httptest.NewRecorder()
	handler.GetCart(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCartHandlerAddItem(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &cartRepositoryMock{AddItemFunc: func(ctx context.Context, userID, vID string, quantity int) (*cartpkg.Item, error) {
			return &cartpkg.Item{ID: "i1", CartID: "c1", VariantID: vID, Quantity: quantity, PriceAtTime: 9.99}, nil
		}}
		handler := httpapi.NewCartHandler(cartpkg.NewService(repo, nil), httpapi.NewValidator())

		w := httptest.NewRecorder()
		handler.AddItem(w, authedRequest(http.MethodPost, "/api/cart/add",
			map[string]any{"variantId": variantID, "quantity": 2}))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("insufficient stock", func(t *testing.T) {
		repo := &cartRepositoryMock{AddItemFunc: func(ctx context.Context, userID, vID string, quantity int) (*cartpkg.Item, error) {
			return nil, &cartpkg.InsufficientStockError{VariantID: vID, Requested: quantity, Available: 1}
		}}
		handler := httpapi.NewCartHandler(cartpkg.NewService(repo, nil), httpapi.NewValidator())

		w := httptest.NewRecorder()
		handler.AddItem(w, authedRequest(http.MethodPost, "/api/cart/add",
			map[string]any{"variantId": variantID, "quantity": 5}))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown variant", func(t *testing.T) {
		repo := &cartRepositoryMock{AddItemFunc: func(ctx context.Context, userID, vID string, quantity int) (*cartpkg.Item, error) {
			return nil, cartpkg.ErrVariantNotFound
		}}
		handler := httpapi.NewCartHandler(cartpkg.NewService(repo, nil), httpapi.NewValidator())

		w := httptest.NewRecorder()
		handler.AddItem(w, authedRequest(http.MethodPost, "/api/cart/add",
			map[string]any{"variantId": variantID, "quantity": 1}))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		handler := httpapi.NewCartHandler(cartpkg.NewService(&cartRepositoryMock{}, nil), httpapi.NewValidator())

		w := httptest.NewRecorder()
		handler.AddItem(w, authedRequest(http.MethodPost, "/api/cart/add",
			map[string]any{"variantId": variantID, "quantity": 0}))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestCartHandlerUpdateItem(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo := &cartRepositoryMock{UpdateItemFunc: func(ctx context.Context, userID, vID string, quantity int, price float64) (*cartpkg.Item, error) {
			return &cartpkg.Item{ID: "i1", VariantID: vID, Quantity: quantity, PriceAtTime: price}, nil
		}}
		handler := httpapi.NewCartHandler(cartpkg.NewService(repo, nil), httpapi.NewValidator())

		w := httptest.NewRecorder()
		handler.UpdateItem(w, authedRequest(http.MethodPut, "/api/cart/update",
			map[string]any{"variantId": variantID, "quantity": 3, "priceAtTime": 9.99}))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("removed", func(t *testing.T) {
		repo := &cartRepositoryMock{UpdateItemFunc: func(ctx context.Context, userID, vID string, quantity int, price float64) (*cartpkg.Item, error) {
			return nil, nil
		}}
		handler := httpapi.NewCartHandler(cartpkg.NewService(repo, nil), httpapi.NewValidator())

		w := httptest.NewRecorder()
		handler.UpdateItem(w, authedRequest(http.MethodPut, "/api/cart/update",
			map[string]any{"variantId": variantID, "quantity": 0}))

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})

	t.Run("item not found", func(t *testing.T) {
		repo := &cartRepositoryMock{UpdateItemFunc: func(ctx context.Context, userID, vID string, quantity int, price float64) (*cartpkg.Item, error) {
			return nil, cartpkg.ErrItemNotFound
		}}
		handler := httpapi.NewCartHandler(cartpkg.NewService(repo, nil), httpapi.NewValidator())

		w := httptest.NewRecorder()
		handler.UpdateItem(w, authedRequest(http.MethodPut, "/api/cart/update",
			map[string]any{"variantId": variantID, "quantity": 2}))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("over stock", func(t *testing.T) {
		repo := &cartRepositoryMock{UpdateItemFunc: func(ctx context.Context, userID, vID string, quantity int, price float64) (*cartpkg.Item, error) {
			return nil, &cartpkg.InsufficientStockError{VariantID: vID, Requested: quantity, Available: 4}
		}}
		handler := httpapi.NewCartHandler(cartpkg.NewService(repo, nil), httpapi.NewValidator())

		w := httptest.NewRecorder()
		handler.UpdateItem(w, authedRequest(http.MethodPut, "/api/cart/update",
			map[string]any{"variantId": variantID, "quantity": 50}))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}
