package signalstore

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/mssession/pkg/fingerprint"
	"github.com/dmitrymomot/mssession/pkg/logger"
	"github.com/dmitrymomot/mssession/pkg/mssession"
)

// Source decorates a mssession.SignalSource with the device record from a
// Store. Values the base source has win; the record fills in last activity
// and the cross-tab candidate when the base reports them absent. The tab-scoped
// id always comes from the base, since a device record is shared by all tabs.
type Source struct {
	mssession.SignalSource

	store       Store
	deviceKey   string
	readTimeout time.Duration
	log         *slog.Logger

	once   sync.Once
	record Record
	err    error
}

var _ mssession.SignalSource = (*Source)(nil)

// NewSource wraps base. An empty deviceKey disables the store lookup.
func NewSource(base mssession.SignalSource, store Store, deviceKey string, readTimeout time.Duration, log *slog.Logger) *Source {
	if log == nil {
		log = logger.Discard()
	}
	return &Source{
		SignalSource: base,
		store:        store,
		deviceKey:    deviceKey,
		readTimeout:  readTimeout,
		log:          log,
	}
}

// LastActivity returns the base value, or the record's activity time.
func (s *Source) LastActivity(ctx context.Context) (int64, error) {
	if ts, err := s.SignalSource.LastActivity(ctx); err == nil {
		return ts, nil
	}
	rec, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if rec.LastActivity <= 0 {
		return 0, mssession.ErrValueAbsent
	}
	return rec.LastActivity, nil
}

// CrossTabSessionID returns the base value, or the record's session id.
func (s *Source) CrossTabSessionID(ctx context.Context) (string, error) {
	if id, err := s.SignalSource.CrossTabSessionID(ctx); err == nil {
		return id, nil
	}
	rec, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	if rec.SessionID == "" {
		return "", mssession.ErrValueAbsent
	}
	return rec.SessionID, nil
}

// load reads the device record once per pageview.
func (s *Source) load(ctx context.Context) (Record, error) {
	s.once.Do(func() {
		if s.store == nil || s.deviceKey == "" {
			s.err = mssession.ErrValueAbsent
			return
		}

		if s.readTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.readTimeout)
			defer cancel()
		}

		s.record, s.err = s.store.Get(ctx, s.deviceKey)
		switch {
		case errors.Is(s.err, ErrNotFound):
			s.err = mssession.ErrValueAbsent
		case s.err != nil:
			s.log.WarnContext(ctx, "device record lookup failed",
				logger.DeviceKey(s.deviceKey),
				logger.Error(s.err),
			)
		}
	})
	return s.record, s.err
}

// KeyFunc derives the device key for a request.
type KeyFunc func(r *http.Request) string

// SourceFunc returns a mssession.SourceFunc that decorates base with store
// lookups keyed by DeviceKeyFromContext, falling back to fingerprint.Generate.
func SourceFunc(base mssession.SourceFunc, store Store, cfg Config, log *slog.Logger) mssession.SourceFunc {
	return func(r *http.Request) mssession.SignalSource {
		key := DeviceKeyFromContext(r.Context())
		if key == "" {
			key = fingerprint.Generate(r)
		}
		return NewSource(base(r), store, key, cfg.ReadTimeout, log)
	}
}
