package mssession

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/mssession/pkg/cookie"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithTimeout sets the inactivity window
func WithTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.config.Timeout = timeout
	}
}

// WithMode sets the referrer classification mode
func WithMode(mode Mode) Option {
	return func(m *Manager) {
		m.config.Mode = string(mode)
	}
}

// WithInternalHosts sets the allowlist used in custom mode
func WithInternalHosts(hosts ...string) Option {
	return func(m *Manager) {
		m.config.InternalHosts = hosts
	}
}

// WithGenerator sets the session id generator, overriding Config.Prefix
func WithGenerator(g *IDGenerator) Option {
	return func(m *Manager) {
		m.generator = g
	}
}

// WithNotifier sets the receiver of ready signals
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

// WithLogger sets the logger used for resolution and signal read diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithCookieManager reads persisted cookies through cookieMgr
func WithCookieManager(cookieMgr *cookie.Manager) Option {
	return func(m *Manager) {
		m.cookieManager = cookieMgr
	}
}

// WithSourceFunc replaces the per-request signal source used by Middleware
func WithSourceFunc(fn SourceFunc) Option {
	return func(m *Manager) {
		m.sourceFunc = fn
	}
}

// WithSourceWrapper decorates the per-request signal source, e.g. with a
// server-side store lookup. Wrappers apply in order, innermost first.
func WithSourceWrapper(wrap func(SourceFunc) SourceFunc) Option {
	return func(m *Manager) {
		if wrap != nil {
			m.sourceWrappers = append(m.sourceWrappers, wrap)
		}
	}
}

// WithClock sets the time source for request-backed signal sources
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// SourceFunc builds the signal source for one request.
type SourceFunc func(r *http.Request) SignalSource
