package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mssession/pkg/cookie"
	"github.com/dmitrymomot/mssession/pkg/logger"
	"github.com/dmitrymomot/mssession/pkg/mssession"
)

type sessionResponse struct {
	Data  sessionPayload `json:"data"`
	Error *errorDetail   `json:"error"`
}

func serve(t *testing.T, h http.Handler, r *http.Request) (*httptest.ResponseRecorder, sessionResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSessionHandler(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)
	m := mssession.New(mssession.WithClock(func() time.Time { return now }))

	t.Run("resolves without persisting", func(t *testing.T) {
		t.Parallel()

		h := m.Middleware(sessionHandler(m, nil, false, logger.Discard()))
		r := httptest.NewRequest(http.MethodGet, "http://shop.example.com/v1/session?ref=https%3A%2F%2Fgoogle.com%2F", nil)

		w, body := serve(t, h, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Regexp(t, `^pvs_1700000000000_[0-9a-z]+$`, body.Data.SessionID)
		assert.NotEmpty(t, body.Data.PageviewID)
		assert.True(t, body.Data.Ephemeral)
		assert.True(t, body.Data.Decision.IsExternal)
		assert.Equal(t, "google.com", body.Data.Decision.ReferrerHost)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("persisted cookies continue the session", func(t *testing.T) {
		t.Parallel()

		h := m.Middleware(sessionHandler(m, nil, true, logger.Discard()))

		w, first := serve(t, h, httptest.NewRequest(http.MethodGet, "http://shop.example.com/v1/session", nil))
		assert.False(t, first.Data.Ephemeral)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 3)
		assert.Equal(t, strconv.FormatInt(now.UnixMilli(), 10), cookies[0].Value)

		// A new tab: no tab cookie, only the shared values.
		r := httptest.NewRequest(http.MethodGet, "http://blog.example.com/v1/session", nil)
		r.Header.Set("Referer", "https://shop.example.com/")
		r.AddCookie(cookies[0])
		r.AddCookie(cookies[1])

		_, second := serve(t, h, r)
		assert.Equal(t, first.Data.SessionID, second.Data.SessionID)
		assert.True(t, second.Data.Decision.CarryAllowed)
	})

	t.Run("signed cookies", func(t *testing.T) {
		t.Parallel()

		cookieMgr, err := cookie.New([]string{"this-is-a-very-long-secret-key-32-chars-long"})
		require.NoError(t, err)

		cfg := mssession.DefaultConfig()
		cfg.SignedCookies = true
		signed, err := mssession.NewFromConfig(cfg,
			mssession.WithCookieManager(cookieMgr),
			mssession.WithClock(func() time.Time { return now }),
		)
		require.NoError(t, err)

		h := signed.Middleware(sessionHandler(signed, cookieMgr, true, logger.Discard()))
		w, first := serve(t, h, httptest.NewRequest(http.MethodGet, "http://example.com/v1/session", nil))

		r := httptest.NewRequest(http.MethodGet, "http://example.com/v1/session", nil)
		for _, c := range w.Result().Cookies() {
			assert.NotEqual(t, first.Data.SessionID, c.Value, "value is signed")
			r.AddCookie(c)
		}

		_, second := serve(t, h, r)
		assert.Equal(t, first.Data.SessionID, second.Data.SessionID)
		assert.False(t, second.Data.Decision.IsNewSession)
	})

	t.Run("missing middleware", func(t *testing.T) {
		t.Parallel()

		w, body := serve(t, sessionHandler(m, nil, false, logger.Discard()), httptest.NewRequest(http.MethodGet, "/v1/session", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, "no_pageview", body.Error.Code)
	})
}
