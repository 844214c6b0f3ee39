package mssession

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/mssession/pkg/logger"
)

// SignalSource supplies everything a pageview evaluation reads.
// Persisted values belong to the persist collaborator. Implementations return
// ErrValueAbsent when a value is missing; any other error is also treated as absent.
type SignalSource interface {
	// Now returns the current wall-clock time.
	Now() time.Time

	// PageHostname returns the hostname of the page being viewed.
	PageHostname() string

	// Referrer returns the raw referrer URL, possibly empty.
	Referrer() string

	// LastActivity returns the last recorded activity as unix milliseconds.
	LastActivity(ctx context.Context) (int64, error)

	// TabSessionID returns the session id scoped to the current tab.
	TabSessionID(ctx context.Context) (string, error)

	// CrossTabSessionID returns the candidate id shared between tabs.
	CrossTabSessionID(ctx context.Context) (string, error)
}

// PageviewContext is read once per evaluation.
type PageviewContext struct {
	Now              int64
	PageHostname     string
	ReferrerHostname string
}

// PersistedSignals holds values written by the persist collaborator.
// Zero values mean absent: a LastActivity of 0 counts as "no prior activity".
type PersistedSignals struct {
	LastActivity      int64
	TabSessionID      string
	CrossTabSessionID string
}

// ReadSignals collects the pageview context and persisted signals from src.
// Read failures never propagate; they are logged at debug level and the value is
// treated as absent.
func ReadSignals(ctx context.Context, src SignalSource, log *slog.Logger) (PageviewContext, PersistedSignals) {
	if log == nil {
		log = logger.Discard()
	}

	pv := PageviewContext{
		Now:              src.Now().UnixMilli(),
		PageHostname:     normalizeHost(src.PageHostname()),
		ReferrerHostname: HostnameFromURL(src.Referrer()),
	}

	ps := PersistedSignals{
		LastActivity:      max(lookup(ctx, log, "last_activity", src.LastActivity), 0),
		TabSessionID:      strings.TrimSpace(lookup(ctx, log, "tab_session_id", src.TabSessionID)),
		CrossTabSessionID: strings.TrimSpace(lookup(ctx, log, "cross_tab_session_id", src.CrossTabSessionID)),
	}

	return pv, ps
}

func lookup[T any](ctx context.Context, log *slog.Logger, name string, read func(context.Context) (T, error)) T {
	v, err := read(ctx)
	if err != nil {
		if !errors.Is(err, ErrValueAbsent) {
			log.DebugContext(ctx, "signal read failed, treating as absent",
				slog.String("signal", name),
				logger.Error(err),
			)
		}
		var zero T
		return zero
	}
	return v
}

// StaticSource is a SignalSource over fixed values. Empty strings and a zero
// LastActivityMs are reported as ErrValueAbsent.
type StaticSource struct {
	Time           time.Time
	Page           string
	ReferrerURL    string
	LastActivityMs int64
	TabID          string
	CrossTabID     string
}

// Now returns Time, or the wall clock when Time is zero.
func (s StaticSource) Now() time.Time {
	if s.Time.IsZero() {
		return time.Now()
	}
	return s.Time
}

// PageHostname returns Page.
func (s StaticSource) PageHostname() string { return s.Page }

// Referrer returns ReferrerURL.
func (s StaticSource) Referrer() string { return s.ReferrerURL }

// LastActivity returns LastActivityMs, absent when zero.
func (s StaticSource) LastActivity(context.Context) (int64, error) {
	if s.LastActivityMs == 0 {
		return 0, ErrValueAbsent
	}
	return s.LastActivityMs, nil
}

// TabSessionID returns TabID, absent when empty.
func (s StaticSource) TabSessionID(context.Context) (string, error) {
	return valueOrAbsent(s.TabID)
}

// CrossTabSessionID returns CrossTabID, absent when empty.
func (s StaticSource) CrossTabSessionID(context.Context) (string, error) {
	return valueOrAbsent(s.CrossTabID)
}

func valueOrAbsent(v string) (string, error) {
	if v == "" {
		return "", ErrValueAbsent
	}
	return v, nil
}
