package httpserver

import (
	"fmt"
	"log/slog"
	"time"
)

// Option configures a Server. Options validate their argument when they are
// constructed and panic on values that can only come from a programming or
// deployment mistake, so a misconfigured service fails at startup instead of
// serving with surprising limits.
type Option func(*config)

// WithAddr sets the listen address, for example ":8080" or "127.0.0.1:9000".
// Panics on an empty address.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: WithAddr: addr cannot be empty")
	}
	return func(c *config) { c.addr = addr }
}

// WithReadTimeout bounds reading the whole request, body included.
// Session lookups are small GETs, so a few seconds is plenty.
func WithReadTimeout(d time.Duration) Option {
	mustBePositive("WithReadTimeout", d)
	return func(c *config) { c.readTimeout = d }
}

// WithWriteTimeout bounds writing the response, measured from the end of the
// request headers.
func WithWriteTimeout(d time.Duration) Option {
	mustBePositive("WithWriteTimeout", d)
	return func(c *config) { c.writeTimeout = d }
}

// WithIdleTimeout bounds how long a keep-alive connection waits for the next
// request. Tag endpoints see one request per pageview, so idle connections are
// common.
func WithIdleTimeout(d time.Duration) Option {
	mustBePositive("WithIdleTimeout", d)
	return func(c *config) { c.idleTimeout = d }
}

// WithShutdownTimeout bounds graceful shutdown. In-flight requests still
// running when it elapses are cut off.
func WithShutdownTimeout(d time.Duration) Option {
	mustBePositive("WithShutdownTimeout", d)
	return func(c *config) { c.shutdownTimeout = d }
}

// WithLogger sets the logger used for lifecycle events and for errors reported
// by net/http itself. A nil logger keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStartHook registers h to run once the listener goroutine is started.
// Hooks run in registration order on the goroutine that called Run.
func WithStartHook(h func(*slog.Logger)) Option {
	mustBeHook("WithStartHook", h)
	return func(c *config) { c.startHooks = append(c.startHooks, h) }
}

// WithStopHook registers h to run after graceful shutdown completes, for
// example to flush a device store client.
func WithStopHook(h func(*slog.Logger)) Option {
	mustBeHook("WithStopHook", h)
	return func(c *config) { c.stopHooks = append(c.stopHooks, h) }
}

func mustBePositive(option string, d time.Duration) {
	if d <= 0 {
		panic(fmt.Sprintf("httpserver: %s: duration must be > 0, got %s", option, d))
	}
}

func mustBeHook(option string, h func(*slog.Logger)) {
	if h == nil {
		panic(fmt.Sprintf("httpserver: %s: nil hook", option))
	}
}
