// Package scheduler runs periodic maintenance jobs, currently the quote
// expiry sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"bakeshop/internal/core"
)

// sweepActor is recorded on audit entries written by the sweeper, so the
// history shows the system, not a person, expired the quote.
const sweepActor = "system/expiry-sweep"

// QuoteExpiry expires SENT quotes whose validity date has passed. The sweep
// runs on a cron schedule; each quote goes through the normal transition
// path so audit entries are emitted per quote.
type QuoteExpiry struct {
	orders   core.OrderService
	logger   *zap.Logger
	cron     *cron.Cron
	schedule string
}

// NewQuoteExpiry builds the sweeper. schedule is a standard cron expression;
// empty means hourly.
func NewQuoteExpiry(orders core.OrderService, logger *zap.Logger, schedule string) *QuoteExpiry {
	if schedule == "" {
		schedule = "@hourly"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteExpiry{
		orders:   orders,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
	}
}

// Start registers the job and starts the cron loop. It sweeps once
// immediately so a restart never leaves overdue quotes hanging until the
// next tick.
func (q *QuoteExpiry) Start(ctx context.Context) error {
	if _, err := q.cron.AddFunc(q.schedule, func() { q.sweep(ctx) }); err != nil {
		return err
	}
	q.cron.Start()
	go q.sweep(ctx)
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (q *QuoteExpiry) Stop() {
	<-q.cron.Stop().Done()
}

func (q *QuoteExpiry) sweep(ctx context.Context) {
	today := time.Now().Format("2006-01-02")
	expired, err := q.orders.ExpireOverdueQuotes(ctx, today, sweepActor)
	if err != nil {
		q.logger.Error("quote expiry sweep failed", zap.Error(err), zap.Int("expired", expired))
		return
	}
	if expired > 0 {
		q.logger.Info("expired overdue quotes", zap.Int("count", expired))
	}
}
