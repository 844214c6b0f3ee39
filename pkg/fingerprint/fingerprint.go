package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/dmitrymomot/mssession/pkg/clientip"
)

// Generate derives a device key from the request: User-Agent, Accept-Language
// and client IP, hashed into a 32-character hex string. It returns an empty
// string when the request carries none of them.
//
// The key is stable across pageviews of one browser on one network and is used
// to look up server-side device signals. It is not an authentication factor.
func Generate(r *http.Request) string {
	components := []string{
		strings.TrimSpace(r.UserAgent()),
		strings.TrimSpace(r.Header.Get("Accept-Language")),
		clientip.GetIP(r),
	}

	if strings.Join(components, "") == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(strings.Join(components, "|")))
	return hex.EncodeToString(hash[:16])
}
