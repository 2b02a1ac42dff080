package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sweepLease = "overdue-sweep"

// Promoter moves past-due active loans to overdue.
type Promoter interface {
	PromoteOverdue(ctx context.Context) (int64, error)
}

// Locker hands out a cluster-wide lease; nil means every replica sweeps.
type Locker interface {
	Acquire(ctx context.Context, name string) (token string, ok bool, err error)
	Release(ctx context.Context, name, token string) error
}

// OverdueSweeper periodically promotes active loans past their expected
// return date to overdue.
type OverdueSweeper struct {
	promoter Promoter
	locker   Locker
	interval time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	token string // lease held from the last pass, left to expire
}

func NewOverdueSweeper(p Promoter, locker Locker, interval time.Duration, logger *slog.Logger) *OverdueSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &OverdueSweeper{
		promoter: p,
		locker:   locker,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once right away, then on every tick until ctx is cancelled.
func (w *OverdueSweeper) Run(ctx context.Context) {
	if w.promoter == nil || w.interval <= 0 {
		w.logger.Info("overdue sweeper disabled",
			"hasPromoter", w.promoter != nil,
			"interval", w.interval.String())
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("overdue sweeper started",
		"interval", w.interval.String(),
		"leased", w.locker != nil)

	w.SweepOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			w.releaseHeld(context.WithoutCancel(ctx))
			w.logger.Info("overdue sweeper stopped")
			return
		case <-ticker.C:
			w.SweepOnce(ctx)
		}
	}
}

// SweepOnce performs a single pass and returns how many loans changed.
// Skipped passes (lease held elsewhere) and failures report 0.
//
// A won lease is not released after the pass. It runs out on its own TTL,
// so other replicas skip their ticks for the rest of the interval.
func (w *OverdueSweeper) SweepOnce(ctx context.Context) int64 {
	if w.locker != nil {
		token, ok, err := w.locker.Acquire(ctx, sweepLease)
		switch {
		case err != nil:
			// Redis 不可用时仍然执行，promote 本身幂等
			w.logger.Warn("overdue sweep lease unavailable, sweeping anyway", "error", err)
		case !ok:
			w.logger.Debug("overdue sweep skipped, lease held by another replica")
			return 0
		default:
			w.mu.Lock()
			w.token = token
			w.mu.Unlock()
		}
	}

	promoted, err := w.promoter.PromoteOverdue(ctx)
	if err != nil {
		w.logger.Error("overdue sweep failed", "error", err)
		return 0
	}
	if promoted > 0 {
		w.logger.Info("overdue sweep completed", "promoted", promoted)
	}
	return promoted
}

// releaseHeld hands back the lease from the last pass so a restarted or
// sibling replica does not wait out the TTL.
func (w *OverdueSweeper) releaseHeld(ctx context.Context) {
	w.mu.Lock()
	token := w.token
	w.token = ""
	w.mu.Unlock()
	if w.locker == nil || token == "" {
		return
	}
	if err := w.locker.Release(ctx, sweepLease, token); err != nil {
		w.logger.Warn("overdue sweep lease release failed", "error", err)
	}
}
