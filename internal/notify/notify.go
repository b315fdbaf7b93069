// Package notify emits fire-and-forget domain events for off-core
// observability. Event emission never affects the outcome of the
// operation that produced it.
package notify

import (
	"context"
	"log/slog"
)

// Event names, one per observable state change.
const (
	EventTandaCreated   = "tanda_created"
	EventMemberJoined   = "member_joined"
	EventTandaStarted   = "tanda_started"
	EventDepositMade    = "deposit_made"
	EventPayoutSent     = "payout_sent"
	EventMemberExpelled = "member_expelled"
	EventTandaCancelled = "tanda_cancelled"
)

// Event is one domain event.
type Event struct {
	Name    string
	TandaID string

	// Actor is the address the event is about: creator, joiner,
	// depositor, payout recipient, or expelled member.
	Actor string

	// Amount carries the money moved, where applicable.
	Amount int64

	// Cycle is the tanda cycle the event happened in, where applicable.
	Cycle int
}

// Notifier publishes events. Implementations must not block or fail the
// caller.
type Notifier interface {
	Publish(ctx context.Context, e Event)
}

// LogNotifier publishes events to structured logs.
type LogNotifier struct{}

// Publish logs the event.
func (LogNotifier) Publish(ctx context.Context, e Event) {
	slog.InfoContext(ctx, "event",
		"name", e.Name,
		"tanda_id", e.TandaID,
		"actor", e.Actor,
		"amount", e.Amount,
		"cycle", e.Cycle,
	)
}
