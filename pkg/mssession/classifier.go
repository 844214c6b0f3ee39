package mssession

import (
	"fmt"
	"net/url"
	"strings"
)

// Mode selects how referrer and page hosts are compared.
type Mode string

const (
	// ModeETLD1 compares the last two dot-separated labels of each host.
	// It is a naive approximation: multi-label public suffixes such as co.uk
	// collapse every site under them into one "domain".
	ModeETLD1 Mode = "etld1"
	// ModeHostname compares full hostnames.
	ModeHostname Mode = "hostname"
	// ModeCustom consults an allowlist of internal hosts and falls back to ModeETLD1
	// when neither host is listed.
	ModeCustom Mode = "custom"
)

// ParseMode validates a configured mode. An empty string selects ModeETLD1.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeETLD1, nil
	case ModeETLD1, ModeHostname, ModeCustom:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Classifier decides whether a pageview is a fresh entry from another site.
type Classifier struct {
	Mode Mode
	// InternalHosts is only consulted in ModeCustom. Entries match a host exactly
	// or as a parent domain.
	InternalHosts []string
}

// Classify reports whether referrerHost is external to pageHost.
func (c Classifier) Classify(referrerHost, pageHost string) bool {
	return IsExternal(referrerHost, pageHost, c.Mode, c.InternalHosts)
}

// IsExternal reports whether referrerHost is external to pageHost under mode.
// An empty referrer is never external. Unknown modes behave like ModeETLD1.
func IsExternal(referrerHost, pageHost string, mode Mode, internalHosts []string) bool {
	ref := normalizeHost(referrerHost)
	if ref == "" {
		return false
	}
	page := normalizeHost(pageHost)

	switch mode {
	case ModeHostname:
		return ref != page
	case ModeCustom:
		refInternal := isInternalHost(ref, internalHosts)
		pageInternal := isInternalHost(page, internalHosts)
		switch {
		case refInternal && pageInternal:
			return false
		case refInternal || pageInternal:
			return true
		}
	}

	return ETLD1(ref) != ETLD1(page)
}

// ETLD1 reduces host to its last two dot-separated labels.
// This is not a public suffix lookup.
func ETLD1(host string) string {
	labels := strings.Split(normalizeHost(host), ".")
	if len(labels) <= 2 {
		return strings.Join(labels, ".")
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

// HostnameFromURL extracts the hostname from a referrer URL.
// Malformed input yields an empty hostname. Scheme-less values such as
// "example.com/path" are accepted.
func HostnameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") && !strings.HasPrefix(raw, "//") {
		raw = "//" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return normalizeHost(parsed.Hostname())
}

func isInternalHost(host string, internalHosts []string) bool {
	if host == "" {
		return false
	}
	for _, entry := range internalHosts {
		entry = normalizeHost(entry)
		if entry == "" {
			continue
		}
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}

func normalizeHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
}
