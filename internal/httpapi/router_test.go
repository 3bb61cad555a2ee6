package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shop-api/internal/auth"
	cartpkg "shop-api/internal/cart"
	"shop-api/internal/httpapi"
	orderpkg "shop-api/internal/order"
)

type authRepositoryMock struct {
	users  map[string]*auth.User
	hashes map[string]string
}

func (m *authRepositoryMock) Create(_ context.Context, u *auth.User, hash string) error {
	if _, ok := m.users[u.Username]; ok {
		return auth.ErrUsernameTaken
	}
	if u.ID == "" {
		u.ID = "user-" + u.Username
	}
	u.IsActive = true
	m.users[u.Username] = u
	m.hashes[u.Username] = hash
	return nil
}

func (m *authRepositoryMock) GetByUsername(_ context.Context, username string) (*auth.User, string, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, "", auth.ErrNotFound
	}
	return u, m.hashes[username], nil
}

func (m *authRepositoryMock) GetByID(_ context.Context, id string) (*auth.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, auth.ErrNotFound
}

func newTestRouter(t *testing.T) (http.Handler, *auth.Service) {
	t.Helper()

	authSvc := auth.NewService(&authRepositoryMock{users: map[string]*auth.User{}, hashes: map[string]string{}}, "test-secret", time.Hour)
	validate := httpapi.NewValidator()

	cartRepo := &cartRepositoryMock{
		GetOrCreateFunc: func(ctx context.Context, userID string) (*cartpkg.Cart, error) {
			return &cartpkg.Cart{ID: "c1", UserID: userID}, nil
		},
	}
	orderRepo := &orderRepositoryMock{
		ListByUserFunc: func(ctx context.Context, userID string) ([]orderpkg.Order, error) {
			return nil, nil
		},
	}

	h := httpapi.Handlers{
		Auth:     httpapi.NewAuthHandler(authSvc, validate),
		Catalog:  httpapi.NewCatalogHandler(&catalogRepositoryMock{}, validate),
		Cart:     httpapi.NewCartHandler(cartpkg.NewService(cartRepo, nil), validate),
		Order:    httpapi.NewOrderHandler(orderpkg.NewService(orderRepo, nil)),
		Payment:  httpapi.NewPaymentHandler(&paymentRepositoryMock{}, validate),
		Coupon:   nil,
		Review:   nil,
		Wishlist: nil,
		Shipping: nil,
	}
	return httpapi.NewRouter(h, authSvc), authSvc
}

func registerAndLogin(t *testing.T, router http.Handler, username string) string {
	t.Helper()

	body := `{"username":"` + username + `","email":"` + username + `@example.com","password":"password123"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"`+username+`","password":"password123"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)
	return resp.Token
}

func TestRouterHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, target := range []string{"/api/cart", "/api/orders", "/api/wishlist"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, w.Code)
		}
	}
}

func TestRouterTokenGrantsAccess(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouterAdminRoutesRejectRegularUsers(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "bob")

	r := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{}`))
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
