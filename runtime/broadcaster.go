package runtime

import (
	"context"
	"log/slog"

	"anonchat/contract"
	"anonchat/domain"
	"anonchat/observability"
)

// Broadcaster fans a payload out to every active session. Best-effort with
// no retries: a destination that fails is logged and skipped, the remaining
// fan-out continues. The destination set is snapshotted before the first
// send so a join or leave scheduled mid-loop cannot change it.
type Broadcaster struct {
	log       *slog.Logger
	transport contract.Transport
	registry  *Registry
	stats     *observability.Stats
}

func NewBroadcaster(log *slog.Logger, transport contract.Transport, registry *Registry, stats *observability.Stats) *Broadcaster {
	return &Broadcaster{log: log, transport: transport, registry: registry, stats: stats}
}

// DeliveryReport counts the outcome of one fan-out. Failures are never
// surfaced to the triggering participant.
type DeliveryReport struct {
	Delivered int
	Failed    int
}

// Text delivers to every active session except exclude.
func (b *Broadcaster) Text(ctx context.Context, text string, exclude domain.Identity) DeliveryReport {
	return b.TextWhere(ctx, text, func(s domain.Session) bool {
		return s.Identity != exclude
	})
}

// TextWhere delivers to every active session the keep filter admits.
func (b *Broadcaster) TextWhere(ctx context.Context, text string, keep func(domain.Session) bool) DeliveryReport {
	var report DeliveryReport
	for _, s := range b.registry.Snapshot() {
		if keep != nil && !keep(s) {
			continue
		}
		if _, err := b.transport.SendText(ctx, s.Channel, text); err != nil {
			report.Failed++
			b.log.Warn("Broadcast delivery failed", "recipient", s.Pseudonym, "err", err)
			continue
		}
		report.Delivered++
	}
	b.stats.AddDeliveries(report.Delivered, report.Failed)
	return report
}

// Image delivers an image with caption to every active session except exclude.
func (b *Broadcaster) Image(ctx context.Context, ref domain.FileRef, caption string, exclude domain.Identity) DeliveryReport {
	var report DeliveryReport
	for _, s := range b.registry.Snapshot() {
		if s.Identity == exclude {
			continue
		}
		if _, err := b.transport.SendImage(ctx, s.Channel, ref, caption); err != nil {
			report.Failed++
			b.log.Warn("Broadcast photo delivery failed", "recipient", s.Pseudonym, "err", err)
			continue
		}
		report.Delivered++
	}
	b.stats.AddDeliveries(report.Delivered, report.Failed)
	return report
}
