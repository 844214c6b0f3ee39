package mssession

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Page is the RAM cache for one pageview. It resolves a session id at most once;
// every later caller gets the identical id. Pages are created per pageview and
// discarded with it, so there is no invalidation.
type Page struct {
	id       uuid.UUID
	resolver *Resolver
	source   SignalSource
	notifier Notifier

	// mu serializes resolution only. Readers use the published state, so code
	// running during resolution (log extractors, store decorators) may read the
	// page without blocking.
	mu        sync.Mutex
	state     atomic.Pointer[resolution]
	ephemeral atomic.Bool
}

type resolution struct {
	sessionID string
	decision  Decision
}

// NewPage creates the cache for a single pageview. A nil notifier disables the
// ready signal.
func NewPage(resolver *Resolver, source SignalSource, notifier Notifier) *Page {
	return &Page{
		id:       uuid.New(),
		resolver: resolver,
		source:   source,
		notifier: notifier,
	}
}

// ID identifies the pageview in logs and ready signals.
func (p *Page) ID() string {
	return p.id.String()
}

// GetOrCompute returns the cached session id, resolving it on first use.
// Concurrent callers resolve once and all observe the first stored id.
// The ready signal fires after the id is published, outside the lock.
func (p *Page) GetOrCompute(ctx context.Context) string {
	if s := p.state.Load(); s != nil {
		return s.sessionID
	}

	p.mu.Lock()
	if s := p.state.Load(); s != nil {
		p.mu.Unlock()
		return s.sessionID
	}

	id, decision := p.resolver.ResolveSource(ctx, p.source)
	p.ephemeral.Store(true)
	p.state.Store(&resolution{sessionID: id, decision: decision})
	p.mu.Unlock()

	if p.notifier != nil {
		p.notifier.Notify(ctx, Ready{
			SessionID:  id,
			PageviewID: p.ID(),
			Decision:   decision,
		})
	}

	return id
}

// SessionID returns the cached id without resolving.
func (p *Page) SessionID() (string, bool) {
	if s := p.state.Load(); s != nil {
		return s.sessionID, true
	}
	return "", false
}

// Decision returns the decision behind the cached id, if resolved.
func (p *Page) Decision() (Decision, bool) {
	if s := p.state.Load(); s != nil {
		return s.decision, true
	}
	return Decision{}, false
}

// Ephemeral reports whether the id is resolved but not yet persisted.
func (p *Page) Ephemeral() bool {
	return p.ephemeral.Load()
}

// MarkPersisted is called by the persist collaborator once it has written the id.
// The id itself never changes.
func (p *Page) MarkPersisted() {
	if p.state.Load() != nil {
		p.ephemeral.Store(false)
	}
}
