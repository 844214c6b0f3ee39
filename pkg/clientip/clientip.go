package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Headers lists the proxy headers GetIP consults, in priority order, before
// falling back to RemoteAddr. X-Forwarded-For is read left to right.
var Headers = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the normalized client IP of r, or an empty string when none of
// the sources holds a valid address.
func GetIP(r *http.Request) string {
	for _, name := range Headers {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
