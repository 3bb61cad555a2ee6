package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	validatorv10 "github.com/go-playground/validator/v10"

	"shop-api/internal/auth"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Order    *OrderHandler
	Payment  *PaymentHandler
	Coupon   *CouponHandler
	Review   *ReviewHandler
	Wishlist *WishlistHandler
	Shipping *ShippingHandler
}

// NewValidator returns the request validator shared by all handlers.
func NewValidator() *validatorv10.Validate {
	return validatorv10.New(validatorv10.WithRequiredStructEnabled())
}

// NewRouter wires all routes. Anonymous routes cover registration, login
// and catalog reads; everything else requires a bearer token, and admin
// mutations additionally require a superuser.
func NewRouter(h Handlers, authSvc *auth.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)

		r.Get("/categories", h.Catalog.ListCategories)
		r.Get("/products", h.Catalog.ListProducts)
		r.Get("/products/{productID}", h.Catalog.GetProduct)
		r.Get("/products/{productID}/variants", h.Catalog.ListVariants)
		r.Get("/products/{productID}/reviews", h.Review.ListByProduct)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(authSvc))

			r.Post("/products/{productID}/reviews", h.Review.Create)

			r.Get("/cart", h.Cart.GetCart)
			r.Post("/cart/add", h.Cart.AddItem)
			r.Put("/cart/update", h.Cart.UpdateItem)

			r.Post("/orders/create", h.Order.Create)
			r.Get("/orders", h.Order.List)
			r.Get("/orders/{orderID}/items", h.Order.ListItems)
			r.Put("/orders/{orderID}/cancel", h.Order.Cancel)
			r.Get("/orders/{orderID}/payments", h.Payment.ListByOrder)

			r.Post("/payments", h.Payment.Record)

			r.Post("/coupons/apply", h.Coupon.Apply)

			r.Get("/wishlist", h.Wishlist.List)
			r.Post("/wishlist/add", h.Wishlist.Add)

			r.Get("/shipping-addresses", h.Shipping.List)
			r.Post("/shipping-addresses", h.Shipping.Create)
			r.Put("/shipping-addresses/{addressID}", h.Shipping.Update)
			r.Delete("/shipping-addresses/{addressID}", h.Shipping.Delete)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireSuperuser)

				r.Post("/categories", h.Catalog.CreateCategory)
				r.Post("/products", h.Catalog.CreateProduct)
				r.Put("/products/{productID}", h.Catalog.UpdateProduct)
				r.Delete("/products/{productID}", h.Catalog.DeleteProduct)
				r.Post("/products/{productID}/variants", h.Catalog.CreateVariant)

				r.Get("/coupons", h.Coupon.List)
				r.Post("/coupons", h.Coupon.Create)
				r.Put("/coupons/{couponID}", h.Coupon.Update)
				r.Delete("/coupons/{couponID}", h.Coupon.Delete)
			})
		})
	})

	return r
}
