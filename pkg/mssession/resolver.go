package mssession

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mssession/pkg/logger"
)

// DefaultTimeout is the inactivity window after which a new session starts.
const DefaultTimeout = 30 * time.Minute

// Decision records why a session id was chosen. It is handed to the persist
// collaborator, which decides what to write back to storage.
type Decision struct {
	Now             int64  `json:"now"`
	ReferrerHost    string `json:"referrer_host"`
	PageHost        string `json:"page_host"`
	Mode            Mode   `json:"mode"`
	IsExternal      bool   `json:"is_external"`
	InactiveTooLong bool   `json:"inactive_too_long"`
	IsNewSession    bool   `json:"is_new_session"`
	CarryAllowed    bool   `json:"carry_allowed"`
}

// Input is everything a single resolution reads.
type Input struct {
	Now          int64
	ReferrerHost string
	PageHost     string
	Persisted    PersistedSignals
}

// Resolver decides between a fresh id, a cross-tab carry-over and the tab's own id.
// It never writes storage and is safe for concurrent use.
type Resolver struct {
	classifier Classifier
	timeout    time.Duration
	generator  *IDGenerator
	log        *slog.Logger
}

// NewResolver builds a resolver. Non-positive timeouts fall back to DefaultTimeout,
// nil generators to NewIDGenerator(DefaultPrefix).
func NewResolver(classifier Classifier, timeout time.Duration, generator *IDGenerator, log *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if generator == nil {
		generator = NewIDGenerator(DefaultPrefix)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Resolver{
		classifier: classifier,
		timeout:    timeout,
		generator:  generator,
		log:        log,
	}
}

// Timeout returns the inactivity window.
func (r *Resolver) Timeout() time.Duration {
	return r.timeout
}

// Mode returns the referrer classification mode.
func (r *Resolver) Mode() Mode {
	return r.classifier.Mode
}

// Resolve picks the session id for one pageview.
//
// External entries and expired inactivity always start a new session, even when
// the tab already has an id. A tab without an id may carry over the cross-tab
// candidate only while the session is live and the visit is internal.
func (r *Resolver) Resolve(in Input) (string, Decision) {
	isExternal := r.classifier.Classify(in.ReferrerHost, in.PageHost)

	// Absent activity is 0, which is always past the window.
	inactiveTooLong := in.Now-in.Persisted.LastActivity > r.timeout.Milliseconds()

	hasTab := in.Persisted.TabSessionID != ""
	hasCandidate := in.Persisted.CrossTabSessionID != ""

	carryAllowed := !hasTab && hasCandidate && !inactiveTooLong && !isExternal
	isNewSession := (!hasTab && !carryAllowed) || isExternal || inactiveTooLong

	d := Decision{
		Now:             in.Now,
		ReferrerHost:    in.ReferrerHost,
		PageHost:        in.PageHost,
		Mode:            r.classifier.Mode,
		IsExternal:      isExternal,
		InactiveTooLong: inactiveTooLong,
		IsNewSession:    isNewSession,
		CarryAllowed:    carryAllowed,
	}

	var id string
	switch {
	case isNewSession:
		id = r.generator.Generate(in.Now)
	case !hasTab && carryAllowed:
		id = in.Persisted.CrossTabSessionID
	case !hasTab:
		id = r.generator.Generate(in.Now)
	default:
		id = in.Persisted.TabSessionID
	}

	return id, d
}

// ResolveSource reads signals from src and resolves them.
func (r *Resolver) ResolveSource(ctx context.Context, src SignalSource) (string, Decision) {
	pv, ps := ReadSignals(ctx, src, r.log)
	id, d := r.Resolve(Input{
		Now:          pv.Now,
		ReferrerHost: pv.ReferrerHostname,
		PageHost:     pv.PageHostname,
		Persisted:    ps,
	})

	r.log.DebugContext(ctx, "session resolved",
		logger.SessionID(id),
		slog.Bool("new_session", d.IsNewSession),
		slog.Bool("external", d.IsExternal),
		slog.Bool("inactive", d.InactiveTooLong),
		slog.Bool("carried", d.CarryAllowed && !d.IsNewSession),
	)

	return id, d
}
