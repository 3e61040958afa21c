// Package sweep implements the deadline sweep worker. Deadlines are
// enforced lazily at call time; the sweep settles whatever callers have
// not touched so group-buys never sit expired indefinitely.
package sweep

import (
	"context"
	"errors"
	"time"

	"github.com/gongguhub/gonggu/internal/database"
	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/gongguhub/gonggu/internal/setup"
	"github.com/gongguhub/gonggu/internal/worker/core"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Worker periodically settles expired bidding windows, consent processes,
// final-selection windows, and lapsed penalties.
type Worker struct {
	db        database.Client
	reporter  *core.StatusReporter
	logger    *zap.Logger
	interval  time.Duration
	batchSize int
}

// New creates a new sweep worker.
func New(app *setup.App, logger *zap.Logger) *Worker {
	return &Worker{
		db:        app.DB,
		reporter:  core.NewStatusReporter(app.StatusClient, "sweep", logger),
		logger:    logger,
		interval:  time.Duration(app.Config.Worker.SweepInterval) * time.Second,
		batchSize: app.Config.Worker.BatchSize,
	}
}

// Start begins the sweep worker's main loop. It blocks until the context
// is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Sweep worker started",
		zap.String("workerID", w.reporter.GetWorkerID()),
		zap.Duration("interval", w.interval))
	w.reporter.Start(ctx)

	defer w.reporter.Stop()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.sweep(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info("Sweep worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// sweep runs each settlement pass concurrently. A failing pass marks the
// worker unhealthy until the next clean sweep.
func (w *Worker) sweep(ctx context.Context) {
	w.reporter.UpdateStatus("sweeping expired deadlines")

	p := pool.New().WithContext(ctx)
	p.Go(w.settleExpiredBidding)
	p.Go(w.settleExpiredConsent)
	p.Go(w.settleExpiredFinalSelection)
	p.Go(w.expirePenalties)

	if err := p.Wait(); err != nil {
		w.logger.Error("Sweep pass failed", zap.Error(err))
		w.reporter.SetHealthy(false)

		return
	}

	w.reporter.SetHealthy(true)
	w.reporter.UpdateStatus("idle")
}

// settleExpiredBidding runs winner selection on group-buys whose bidding
// window elapsed. A window that closed without bids cancels the group-buy.
func (w *Worker) settleExpiredBidding(ctx context.Context) error {
	groupBuys, err := w.db.Model().GroupBuy().ListExpiredBidding(ctx, time.Now(), w.batchSize)
	if err != nil {
		return err
	}

	for _, groupBuy := range groupBuys {
		_, err := w.db.Service().Winner().SelectWinner(ctx, groupBuy.ID, false)

		switch {
		case err == nil:
			w.logger.Info("Settled expired bidding window", zap.Int64("groupBuyID", groupBuy.ID))
		case errors.Is(err, types.ErrNoBids):
			if err := w.db.Service().Lifecycle().Cancel(ctx, groupBuy.ID, "bidding ended with no bids"); err != nil {
				w.logger.Error("Failed to cancel bidless group-buy",
					zap.Int64("groupBuyID", groupBuy.ID), zap.Error(err))
			}
		case errors.Is(err, types.ErrAlreadyDecided):
			// A concurrent caller settled it first
		default:
			w.logger.Error("Failed to settle expired bidding window",
				zap.Int64("groupBuyID", groupBuy.ID), zap.Error(err))
		}
	}

	return nil
}

// settleExpiredConsent closes consent processes whose deadline elapsed.
func (w *Worker) settleExpiredConsent(ctx context.Context) error {
	processes, err := w.db.Model().Consent().ListExpiredOpen(ctx, time.Now(), w.batchSize)
	if err != nil {
		return err
	}

	for _, process := range processes {
		if err := w.db.Service().Consent().Settle(ctx, process); err != nil {
			w.logger.Error("Failed to settle expired consent process",
				zap.Int64("processID", process.ID), zap.Error(err))
			continue
		}

		w.logger.Info("Settled expired consent process",
			zap.Int64("processID", process.ID),
			zap.Int64("groupBuyID", process.GroupBuyID))
	}

	return nil
}

// settleExpiredFinalSelection applies the deadline outcome to seller and
// buyer confirmation windows.
func (w *Worker) settleExpiredFinalSelection(ctx context.Context) error {
	groupBuys, err := w.db.Model().GroupBuy().ListExpiredFinalSelection(ctx, time.Now(), w.batchSize)
	if err != nil {
		return err
	}

	for _, groupBuy := range groupBuys {
		if err := w.db.Service().Confirmation().SettleExpired(ctx, groupBuy); err != nil {
			w.logger.Error("Failed to settle expired final selection",
				zap.Int64("groupBuyID", groupBuy.ID), zap.Error(err))
			continue
		}

		w.logger.Info("Settled expired final selection", zap.Int64("groupBuyID", groupBuy.ID))
	}

	return nil
}

// expirePenalties flips lapsed penalties to expired. Eligibility checks
// wall-clock the end date regardless, so this only keeps stored statuses
// tidy for listings.
func (w *Worker) expirePenalties(ctx context.Context) error {
	expired, err := w.db.Service().Penalty().ExpireLapsed(ctx)
	if err != nil {
		return err
	}

	if expired > 0 {
		w.logger.Info("Expired lapsed penalties", zap.Int64("count", expired))
	}

	return nil
}
