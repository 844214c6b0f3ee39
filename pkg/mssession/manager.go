package mssession

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/mssession/pkg/cookie"
	"github.com/dmitrymomot/mssession/pkg/logger"
)

// Manager wires configuration, the resolver and notification into per-pageview
// Pages.
type Manager struct {
	config         Config
	resolver       *Resolver
	generator      *IDGenerator
	notifier       Notifier
	cookieManager  *cookie.Manager
	sourceFunc     SourceFunc
	sourceWrappers []func(SourceFunc) SourceFunc
	clock          func() time.Time
	log            *slog.Logger
}

// New creates a new manager with the given options.
// Options are applied over DefaultConfig; use NewFromConfig to validate a Config.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		clock:  time.Now,
		log:    logger.Discard(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.generator == nil {
		m.generator = NewIDGenerator(m.config.Prefix)
	}

	m.resolver = NewResolver(
		m.config.classifier(),
		m.config.Timeout,
		m.generator,
		m.log.With(logger.Component("mssession")),
	)

	if m.sourceFunc == nil {
		m.sourceFunc = m.requestSource
	}
	for _, wrap := range m.sourceWrappers {
		m.sourceFunc = wrap(m.sourceFunc)
	}

	return m
}

// Config returns the effective configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Resolver returns the underlying resolver.
func (m *Manager) Resolver() *Resolver {
	return m.resolver
}

// NewPage creates the cache for one pageview backed by src.
func (m *Manager) NewPage(src SignalSource) *Page {
	return NewPage(m.resolver, src, m.notifier)
}

// NewRequestPage creates the cache for the pageview described by r.
func (m *Manager) NewRequestPage(r *http.Request) *Page {
	return m.NewPage(m.sourceFunc(r))
}

// RequestSource returns the default request-backed source for r, ignoring
// WithSourceFunc and WithSourceWrapper.
func (m *Manager) RequestSource(r *http.Request) SignalSource {
	return m.requestSource(r)
}

func (m *Manager) requestSource(r *http.Request) SignalSource {
	return NewRequestSource(r, m.config, m.cookieManager, m.clock)
}
