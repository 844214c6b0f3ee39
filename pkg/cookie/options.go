package cookie

import "net/http"

// Options are the attributes written with every cookie. A Manager holds one
// set of defaults built from Config; per-call options override them for a
// single Set, which is how the persist handler gives the tab cookie a session
// lifetime while the activity cookies outlive the inactivity window.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int // seconds; 0 is a session cookie, negative deletes
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Option overrides one cookie attribute.
type Option func(*Options)

// WithPath scopes the cookie to path. Device signals are read on every page,
// so "/" is the usual value.
func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

// WithDomain shares the cookie with subdomains of domain, letting
// shop.example.com and blog.example.com see the same session signals.
func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithMaxAge sets the lifetime in seconds. Zero leaves the cookie to the
// browser session.
func WithMaxAge(seconds int) Option {
	return func(o *Options) { o.MaxAge = seconds }
}

// WithSecure restricts the cookie to HTTPS.
func WithSecure(secure bool) Option {
	return func(o *Options) { o.Secure = secure }
}

// WithHTTPOnly hides the cookie from page scripts.
func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) { o.HttpOnly = httpOnly }
}

// WithSameSite sets the SameSite policy. Lax keeps cookies on top-level
// navigations from other sites, which external entries rely on.
func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) { o.SameSite = sameSite }
}

// applyOptions returns base with opts applied. base is a value, so the
// manager defaults are never modified.
func applyOptions(base Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}
