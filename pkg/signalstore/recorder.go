package signalstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mssession/pkg/logger"
	"github.com/dmitrymomot/mssession/pkg/mssession"
)

// Recorder is a persist collaborator: it receives Ready signals and writes the
// resolved id and activity time for the device in the signal context. Once the
// write succeeds the page attached to the context is marked persisted.
//
// Enable it only for visitors who consented to storage.
type Recorder struct {
	store        Store
	ttl          time.Duration
	writeTimeout time.Duration
	log          *slog.Logger
}

var _ mssession.Notifier = (*Recorder)(nil)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithWriteTimeout bounds each store write. Non-positive values keep
// DefaultWriteTimeout.
func WithWriteTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		if d > 0 {
			r.writeTimeout = d
		}
	}
}

// NewRecorder creates a recorder writing records that live for ttl. Writes run
// on the pageview path, so each one is bounded by DefaultWriteTimeout unless
// WithWriteTimeout says otherwise.
func NewRecorder(store Store, ttl time.Duration, log *slog.Logger, opts ...RecorderOption) *Recorder {
	if log == nil {
		log = logger.Discard()
	}
	r := &Recorder{store: store, ttl: ttl, writeTimeout: DefaultWriteTimeout, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Notify writes the record for the device key in ctx. Signals without a device
// key are ignored.
func (r *Recorder) Notify(ctx context.Context, ready mssession.Ready) {
	key := DeviceKeyFromContext(ctx)
	if key == "" {
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	rec := Record{SessionID: ready.SessionID, LastActivity: ready.Decision.Now}
	if err := r.store.Put(writeCtx, key, rec, r.ttl); err != nil {
		r.log.WarnContext(ctx, "device record write failed",
			logger.DeviceKey(key),
			logger.SessionID(ready.SessionID),
			logger.Error(err),
		)
		return
	}

	if page, ok := mssession.FromContext(ctx); ok && page.ID() == ready.PageviewID {
		page.MarkPersisted()
	}
}
