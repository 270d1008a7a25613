package scheduler

import (
	"context"

	"maturity_backend/internal/events"
)

// SubscribeReportDelivery enqueues a delivery each time a lead is captured.
// Enqueue errors surface through the bus log; the sweep picks those leads
// up later.
func SubscribeReportDelivery(bus events.Bus, enqueuer ReportEnqueuer) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		captured, ok := e.(events.LeadCaptured)
		if !ok {
			return nil
		}
		return enqueuer.EnqueueReportDelivery(ctx, captured.LeadID)
	}))
}
