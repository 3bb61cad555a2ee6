package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MustOpen returns a verified pgx pool for the given DSN.
func MustOpen(ctx context.Context, dsn string) *pgxpool.Pool {
	if dsn == "" {
		log.Fatal("SHOP_DB_DSN not set")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	return pool
}
