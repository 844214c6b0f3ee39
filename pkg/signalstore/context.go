package signalstore

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/mssession/pkg/fingerprint"
)

type deviceKeyContextKey struct{}

// WithDeviceKey stores the device key in ctx.
func WithDeviceKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, deviceKeyContextKey{}, key)
}

// DeviceKeyFromContext returns the device key stored in ctx, if any.
func DeviceKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(deviceKeyContextKey{}).(string)
	return key
}

// Middleware derives the device key with keyFunc, or fingerprint.Generate when
// keyFunc is nil, and stores it in the request context. It must run before the
// mssession middleware so the source and the Recorder agree on the key.
func Middleware(keyFunc KeyFunc) func(http.Handler) http.Handler {
	if keyFunc == nil {
		keyFunc = fingerprint.Generate
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := keyFunc(r); key != "" {
				r = r.WithContext(WithDeviceKey(r.Context(), key))
			}
			next.ServeHTTP(w, r)
		})
	}
}
