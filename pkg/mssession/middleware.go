package mssession

import (
	"net/http"
)

// Middleware attaches a fresh Page to every request. Resolution is lazy unless
// Config.ResponseHeader is set, in which case the id is resolved up front and
// echoed in that header.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := m.NewRequestPage(r)
		ctx := WithPage(r.Context(), page)

		if m.config.ResponseHeader != "" {
			w.Header().Set(m.config.ResponseHeader, page.GetOrCompute(ctx))
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
