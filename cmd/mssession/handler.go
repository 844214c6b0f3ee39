package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/mssession/pkg/cookie"
	"github.com/dmitrymomot/mssession/pkg/logger"
	"github.com/dmitrymomot/mssession/pkg/mssession"
)

// response is the JSON envelope of every API reply.
type response struct {
	Data  any          `json:"data,omitempty"`
	Error *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type sessionPayload struct {
	SessionID  string             `json:"session_id"`
	PageviewID string             `json:"pageview_id"`
	Ephemeral  bool               `json:"ephemeral"`
	Decision   mssession.Decision `json:"decision"`
}

// sessionHandler resolves the pageview session and returns it as JSON. With
// persist enabled it also acts as the cookie persist collaborator, writing the
// values the next pageview reads.
func sessionHandler(m *mssession.Manager, cookies *cookie.Manager, persist bool, log *slog.Logger) http.HandlerFunc {
	cfg := m.Config()
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := mssession.FromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusInternalServerError, response{Error: &errorDetail{
				Code:    "no_pageview",
				Message: "session middleware is not installed",
			}})
			return
		}

		id := page.GetOrCompute(r.Context())
		decision, _ := page.Decision()

		if persist {
			if err := persistCookies(w, cfg, cookies, id, decision); err != nil {
				log.WarnContext(r.Context(), "persist cookies failed", logger.Error(err))
			} else {
				page.MarkPersisted()
			}
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, response{Data: sessionPayload{
			SessionID:  id,
			PageviewID: page.ID(),
			Ephemeral:  page.Ephemeral(),
			Decision:   decision,
		}})
	}
}

// persistCookies writes the last activity time, the cross-tab candidate and
// the tab id cookie. The tab cookie is a session cookie, so it ends with the
// browser session like tab-scoped storage.
func persistCookies(w http.ResponseWriter, cfg mssession.Config, cookies *cookie.Manager, id string, d mssession.Decision) error {
	maxAge := int(cfg.Timeout.Seconds()) * 2
	values := []struct {
		name   string
		value  string
		maxAge int
	}{
		{cfg.LastActivityCookie, strconv.FormatInt(d.Now, 10), maxAge},
		{cfg.CrossTabCookie, id, maxAge},
		{cfg.TabSessionCookie, id, 0},
	}

	for _, v := range values {
		if v.name == "" {
			continue
		}
		if cookies == nil {
			http.SetCookie(w, &http.Cookie{
				Name:     v.name,
				Value:    v.value,
				Path:     "/",
				MaxAge:   v.maxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			continue
		}

		set := cookies.Set
		if cfg.SignedCookies {
			set = cookies.SetSigned
		}
		if err := set(w, v.name, v.value, cookie.WithMaxAge(v.maxAge)); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
