package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shop-api/internal/config"
	"shop-api/internal/db"
	"shop-api/internal/stock"
)

// stock-refiller periodically tops up variants whose stock has dropped
// below the threshold. It runs separately from the API server so a slow
// refill never blocks request handling.
func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[stock-refiller] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := db.MustOpen(ctx, cfg.DatabaseDSN)
	defer pool.Close()

	refiller := stock.NewRefiller(stock.NewRepository(pool), cfg.RefillInterval, cfg.RefillThreshold, cfg.RefillTo)

	logger.Printf("refilling below %d up to %d every %s", cfg.RefillThreshold, cfg.RefillTo, cfg.RefillInterval)
	refiller.Run(ctx)
	logger.Printf("shutdown signal received")
}
