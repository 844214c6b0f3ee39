package mssession

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/mssession/pkg/broadcast"
	"github.com/dmitrymomot/mssession/pkg/logger"
)

// Ready is published once per page after its session id is resolved and cached.
type Ready struct {
	SessionID  string   `json:"session_id"`
	PageviewID string   `json:"pageview_id"`
	Decision   Decision `json:"decision"`
}

// Notifier receives Ready signals. Notify must not block the pageview.
type Notifier interface {
	Notify(ctx context.Context, r Ready)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, r Ready)

// Notify calls f(ctx, r).
func (f NotifierFunc) Notify(ctx context.Context, r Ready) {
	f(ctx, r)
}

// MultiNotifier fans a Ready signal out to several notifiers in order.
type MultiNotifier []Notifier

// Notify forwards r to every non-nil notifier.
func (m MultiNotifier) Notify(ctx context.Context, r Ready) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, r)
		}
	}
}

// BroadcastNotifier publishes Ready signals to every subscriber of a broadcaster,
// typically the persist collaborator. Slow subscribers lose messages rather than
// stalling the pageview.
type BroadcastNotifier struct {
	broadcaster broadcast.Broadcaster[Ready]
	log         *slog.Logger
}

// NewBroadcastNotifier wraps b. A nil logger discards broadcast failures.
func NewBroadcastNotifier(b broadcast.Broadcaster[Ready], log *slog.Logger) *BroadcastNotifier {
	if log == nil {
		log = logger.Discard()
	}
	return &BroadcastNotifier{broadcaster: b, log: log}
}

// Notify broadcasts r. Failures are logged, never returned.
func (n *BroadcastNotifier) Notify(ctx context.Context, r Ready) {
	if err := n.broadcaster.Broadcast(ctx, broadcast.Message[Ready]{Data: r}); err != nil {
		n.log.WarnContext(ctx, "ready broadcast failed",
			logger.SessionID(r.SessionID),
			logger.Error(err),
		)
	}
}
