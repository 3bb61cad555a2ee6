package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-api/internal/auth"
	"shop-api/internal/cart"
	"shop-api/internal/catalog"
	"shop-api/internal/config"
	"shop-api/internal/coupon"
	"shop-api/internal/db"
	"shop-api/internal/events"
	"shop-api/internal/httpapi"
	"shop-api/internal/order"
	"shop-api/internal/payment"
	"shop-api/internal/review"
	"shop-api/internal/shipping"
	"shop-api/internal/wishlist"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[shop-api] ", log.LstdFlags|log.Lshortfile)

	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := db.MustOpen(ctx, cfg.DatabaseDSN)
	defer pool.Close()

	rabbitConn := events.MustDialRabbit(cfg.RabbitURL)
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn, events.NewSequenceRepository(pool), "shop-api")
	if err != nil {
		logger.Fatalf("create publisher: %v", err)
	}

	authRepo := auth.NewRepository(pool)
	authSvc := auth.NewService(authRepo, cfg.JWTSecret, cfg.TokenTTL)

	catalogRepo := catalog.NewRepository(pool)
	cartRepo := cart.NewRepository(pool)
	cartSvc := cart.NewService(cartRepo, publisher)
	orderRepo := order.NewRepository(pool)
	orderSvc := order.NewService(orderRepo, publisher)
	paymentRepo := payment.NewRepository(pool)
	couponRepo := coupon.NewRepository(pool)
	couponSvc := coupon.NewService(couponRepo, cartRepo)
	reviewRepo := review.NewRepository(pool)
	wishlistRepo := wishlist.NewRepository(pool)
	shippingRepo := shipping.NewRepository(pool)

	validate := httpapi.NewValidator()
	handlers := httpapi.Handlers{
		Auth:     httpapi.NewAuthHandler(authSvc, validate),
		Catalog:  httpapi.NewCatalogHandler(catalogRepo, validate),
		Cart:     httpapi.NewCartHandler(cartSvc, validate),
		Order:    httpapi.NewOrderHandler(orderSvc),
		Payment:  httpapi.NewPaymentHandler(paymentRepo, validate),
		Coupon:   httpapi.NewCouponHandler(couponSvc, couponRepo, validate),
		Review:   httpapi.NewReviewHandler(reviewRepo, validate),
		Wishlist: httpapi.NewWishlistHandler(wishlistRepo, validate),
		Shipping: httpapi.NewShippingHandler(shippingRepo, validate),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(handlers, authSvc),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("shop-api listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Printf("publisher close error: %v", err)
	}
}
