package stock

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "stock-refiller").Logger()

// Refiller periodically tops up low-stock variants. The schedule is
// in-process; assume at most one refiller instance runs at a time.
type Refiller struct {
	repo      Repository
	interval  time.Duration
	threshold int
	refillTo  int
}

func NewRefiller(repo Repository, interval time.Duration, threshold, refillTo int) *Refiller {
	return &Refiller{repo: repo, interval: interval, threshold: threshold, refillTo: refillTo}
}

// Run refills immediately, then on every tick until ctx is cancelled.
func (f *Refiller) Run(ctx context.Context) {
	f.runOnce(ctx)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("refiller stopping")
			return
		case <-ticker.C:
			f.runOnce(ctx)
		}
	}
}

func (f *Refiller) runOnce(ctx context.Context) {
	low, err := f.repo.ListLow(ctx, f.threshold)
	if err != nil {
		logger.Error().Err(err).Msg("list low stock failed")
		return
	}
	for _, lvl := range low {
		logger.Debug().Str("variantId", lvl.VariantID).Int("stockCount", lvl.StockCount).Msg("low stock")
	}

	refilled, err := f.repo.RefillLow(ctx, f.threshold, f.refillTo)
	if err != nil {
		logger.Error().Err(err).Msg("refill run failed")
		return
	}
	logger.Info().
		Int("threshold", f.threshold).
		Int("refillTo", f.refillTo).
		Int64("refilled", refilled).
		Msg("refill run complete")
}
