package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUser(t *testing.T) {
	repo := newRepositoryMock()
	svc := NewService(repo, "secret", time.Hour)
	if err := svc.Register(context.Background(), &User{Username: "alice", IsActive: true}, "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	t.Run("missing header", func(t *testing.T) {
		var called bool
		mw := RequireUser(svc)(okHandler(&called))
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

		if called || w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d (called=%v)", w.Code, called)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		var called bool
		mw := RequireUser(svc)(okHandler(&called))
		r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, r)

		if called || w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d (called=%v)", w.Code, called)
		}
	})

	t.Run("valid token stores identity", func(t *testing.T) {
		var ident Identity
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var ok bool
			ident, ok = IdentityFrom(r.Context())
			if !ok {
				t.Fatal("identity missing from context")
			}
		})
		mw := RequireUser(svc)(next)
		r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if ident.Username != "alice" {
			t.Fatalf("unexpected identity: %+v", ident)
		}
	})
}

func TestRequireSuperuser(t *testing.T) {
	t.Run("regular user forbidden", func(t *testing.T) {
		var called bool
		mw := RequireSuperuser(okHandler(&called))
		r := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		r = r.WithContext(WithIdentity(r.Context(), Identity{UserID: "u1", Username: "bob"}))
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, r)

		if called || w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d (called=%v)", w.Code, called)
		}
	})

	t.Run("superuser passes", func(t *testing.T) {
		var called bool
		mw := RequireSuperuser(okHandler(&called))
		r := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		r = r.WithContext(WithIdentity(r.Context(), Identity{UserID: "u1", Username: "root", IsSuperuser: true}))
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, r)

		if !called || w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (called=%v)", w.Code, called)
		}
	})

	t.Run("no identity forbidden", func(t *testing.T) {
		var called bool
		mw := RequireSuperuser(okHandler(&called))
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/products", nil))

		if called || w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d (called=%v)", w.Code, called)
		}
	})
}
