package mssession

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/mssession/pkg/cookie"
)

// RequestSource reads pageview signals from an HTTP request.
//
// The page hostname comes from Config.HostHeader or r.Host. The referrer comes
// from the Config.ReferrerParam query parameter (tag endpoints receive
// document.referrer there) or the Referer header. Last activity and the cross-tab
// candidate are cookies written by the persist collaborator. The tab-scoped id is
// echoed by the client in Config.TabSessionHeader, with Config.TabSessionCookie as
// a fallback.
type RequestSource struct {
	r       *http.Request
	cfg     Config
	cookies *cookie.Manager
	clock   func() time.Time
}

// NewRequestSource creates a source over r. A nil cookie manager reads cookies
// directly and ignores Config.SignedCookies.
func NewRequestSource(r *http.Request, cfg Config, cookies *cookie.Manager, clock func() time.Time) *RequestSource {
	if clock == nil {
		clock = time.Now
	}
	return &RequestSource{r: r, cfg: cfg, cookies: cookies, clock: clock}
}

// Now returns the injected clock time.
func (s *RequestSource) Now() time.Time {
	return s.clock()
}

// PageHostname returns the request host without its port.
func (s *RequestSource) PageHostname() string {
	host := s.r.Host
	if s.cfg.HostHeader != "" {
		if h := s.r.Header.Get(s.cfg.HostHeader); h != "" {
			// Proxies may append hosts; the first is the client-facing one.
			host, _, _ = strings.Cut(h, ",")
		}
	}
	if host == "" && s.r.URL != nil {
		host = s.r.URL.Host
	}
	return stripPort(strings.TrimSpace(host))
}

// Referrer returns the referrer query parameter, or the Referer header when the
// parameter is missing.
func (s *RequestSource) Referrer() string {
	if s.cfg.ReferrerParam != "" && s.r.URL != nil {
		if ref := s.r.URL.Query().Get(s.cfg.ReferrerParam); ref != "" {
			return ref
		}
	}
	return s.r.Referer()
}

// LastActivity parses the last-activity cookie as unix milliseconds.
func (s *RequestSource) LastActivity(context.Context) (int64, error) {
	raw, err := s.cookie(s.cfg.LastActivityCookie)
	if err != nil {
		return 0, err
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return ts, nil
}

// TabSessionID returns the id echoed in the tab header, falling back to the tab
// cookie.
func (s *RequestSource) TabSessionID(context.Context) (string, error) {
	if s.cfg.TabSessionHeader != "" {
		if id := strings.TrimSpace(s.r.Header.Get(s.cfg.TabSessionHeader)); id != "" {
			return id, nil
		}
	}
	return s.cookie(s.cfg.TabSessionCookie)
}

// CrossTabSessionID returns the candidate id from the cross-tab cookie.
func (s *RequestSource) CrossTabSessionID(context.Context) (string, error) {
	return s.cookie(s.cfg.CrossTabCookie)
}

func (s *RequestSource) cookie(name string) (string, error) {
	if name == "" {
		return "", ErrValueAbsent
	}

	var (
		value string
		err   error
	)
	switch {
	case s.cookies != nil && s.cfg.SignedCookies:
		value, err = s.cookies.GetSigned(s.r, name)
	case s.cookies != nil:
		value, err = s.cookies.Get(s.r, name)
	default:
		var c *http.Cookie
		if c, err = s.r.Cookie(name); err == nil {
			value = c.Value
		}
	}

	if errors.Is(err, cookie.ErrCookieNotFound) || errors.Is(err, http.ErrNoCookie) {
		return "", ErrValueAbsent
	}
	if err != nil {
		return "", err
	}
	return valueOrAbsent(strings.TrimSpace(value))
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.Trim(host, "[]")
}
