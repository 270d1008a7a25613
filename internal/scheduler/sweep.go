package scheduler

import (
	"context"
	"time"

	"maturity_backend/platform/logger"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultSweepGrace    = 10 * time.Minute
	defaultSweepLookback = 7 * 24 * time.Hour
	sweepBatchSize       = 50
)

// DeliverySweep periodically re-enqueues delivery for leads that have no
// delivery record, which covers enqueues lost while Redis was unreachable.
// Leads younger than grace are left to the normal path.
type DeliverySweep struct {
	store    DeliveryStore
	enqueuer ReportEnqueuer
	log      *logger.Logger
	interval time.Duration
	grace    time.Duration
	lookback time.Duration
	now      func() time.Time
}

func NewDeliverySweep(store DeliveryStore, enqueuer ReportEnqueuer, log *logger.Logger, interval, grace, lookback time.Duration) *DeliverySweep {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if grace <= 0 {
		grace = defaultSweepGrace
	}
	if lookback <= 0 {
		lookback = defaultSweepLookback
	}

	return &DeliverySweep{
		store:    store,
		enqueuer: enqueuer,
		log:      log,
		interval: interval,
		grace:    grace,
		lookback: lookback,
		now:      time.Now,
	}
}

func (s *DeliverySweep) Run(ctx context.Context) {
	if s == nil || s.store == nil || s.enqueuer == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep enqueues one batch and returns how many leads were enqueued.
func (s *DeliverySweep) sweep(ctx context.Context) int {
	now := s.now()
	ids, err := s.store.ListUndelivered(ctx, now.Add(-s.lookback), now.Add(-s.grace), sweepBatchSize)
	if err != nil {
		s.log.Warn("delivery sweep failed", "error", err)
		return 0
	}

	enqueued := 0
	for _, id := range ids {
		if err := s.enqueuer.EnqueueReportDelivery(ctx, id); err != nil {
			s.log.Warn("delivery sweep enqueue failed", "leadId", id, "error", err)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		s.log.Info("delivery sweep enqueued reports", "enqueued", enqueued)
	}
	return enqueued
}
