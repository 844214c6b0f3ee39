package mssession

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Config holds pageview session configuration
type Config struct {
	// Timeout is the inactivity window after which a new session starts (default: 30m)
	Timeout time.Duration `env:"MSSESSION_TIMEOUT" envDefault:"30m"`

	// Mode is the referrer classification mode: etld1, hostname or custom
	Mode string `env:"MSSESSION_MODE" envDefault:"etld1"`

	// InternalHosts is the allowlist used in custom mode
	InternalHosts []string `env:"MSSESSION_INTERNAL_HOSTS" envSeparator:","`

	// InternalHostsFile is a YAML allowlist merged into InternalHosts
	InternalHostsFile string `env:"MSSESSION_INTERNAL_HOSTS_FILE"`

	// Prefix starts every generated session id
	Prefix string `env:"MSSESSION_PREFIX" envDefault:"pvs"`

	LastActivityCookie string `env:"MSSESSION_LAST_ACTIVITY_COOKIE" envDefault:"_ms_last"`
	CrossTabCookie     string `env:"MSSESSION_CROSS_TAB_COOKIE" envDefault:"_ms_sid"`
	TabSessionCookie   string `env:"MSSESSION_TAB_SESSION_COOKIE" envDefault:"_ms_tab"`

	// TabSessionHeader carries the tab-scoped id echoed by the client
	TabSessionHeader string `env:"MSSESSION_TAB_SESSION_HEADER" envDefault:"X-MS-Tab-Session"`

	// ReferrerParam is the query parameter a tag endpoint receives document.referrer in
	ReferrerParam string `env:"MSSESSION_REFERRER_PARAM" envDefault:"ref"`

	// HostHeader overrides r.Host as the page hostname when set (e.g. X-Forwarded-Host)
	HostHeader string `env:"MSSESSION_HOST_HEADER" envDefault:""`

	// SignedCookies reads persisted cookies through the cookie manager's signature check
	SignedCookies bool `env:"MSSESSION_SIGNED_COOKIES" envDefault:"false"`

	// ResponseHeader echoes the resolved id on every response when set
	ResponseHeader string `env:"MSSESSION_RESPONSE_HEADER" envDefault:""`
}

// DefaultConfig returns default pageview session configuration
func DefaultConfig() Config {
	return Config{
		Timeout:            DefaultTimeout,
		Mode:               string(ModeETLD1),
		Prefix:             DefaultPrefix,
		LastActivityCookie: "_ms_last",
		CrossTabCookie:     "_ms_sid",
		TabSessionCookie:   "_ms_tab",
		TabSessionHeader:   "X-MS-Tab-Session",
		ReferrerParam:      "ref",
	}
}

// Validate checks the values a resolver depends on.
func (c Config) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Timeout))
	}
	if _, err := ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Prefix == "" || strings.ContainsAny(c.Prefix, "_ \t") {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPrefix, c.Prefix))
	}
	return errors.Join(errs...)
}

// classifier builds the referrer classifier. Invalid modes fall back to etld1.
func (c Config) classifier() Classifier {
	mode, err := ParseMode(c.Mode)
	if err != nil {
		mode = ModeETLD1
	}
	return Classifier{Mode: mode, InternalHosts: c.InternalHosts}
}

// NewFromConfig validates cfg and creates a Manager from it. Hosts listed in
// cfg.InternalHostsFile are appended to cfg.InternalHosts.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.InternalHostsFile != "" {
		hosts, err := LoadInternalHosts(cfg.InternalHostsFile)
		if err != nil {
			return nil, err
		}
		cfg.InternalHosts = append(slices.Clip(cfg.InternalHosts), hosts...)
	}

	configOpts := []Option{
		WithConfig(cfg),
	}
	configOpts = append(configOpts, opts...)

	return New(configOpts...), nil
}
