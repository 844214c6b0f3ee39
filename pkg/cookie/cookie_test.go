package cookie_test

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mssession/pkg/cookie"
)

const (
	secret    = "this-is-a-very-long-secret-key-32-chars-long"
	oldSecret = "this-is-old-very-long-secret-key-32-chars-ok"
)

// roundTrip copies the Set-Cookie headers of w into a new request.
func roundTrip(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secrets []string
		wantErr error
	}{
		{name: "no secrets", secrets: nil, wantErr: cookie.ErrNoSecret},
		{name: "blank secrets", secrets: []string{"", ""}, wantErr: cookie.ErrNoSecret},
		{name: "secret too short", secrets: []string{"short"}, wantErr: cookie.ErrSecretTooShort},
		{name: "valid secret", secrets: []string{secret}},
		{name: "rotation", secrets: []string{secret, oldSecret}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := cookie.New(tt.secrets)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func TestManager_SetGet(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, "_ms_last", "1700000000000"))

	got, err := m.Get(roundTrip(w), "_ms_last")
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", got)

	_, err = m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "_ms_last")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secret})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "_ms_sid", "pvs_1700000000000_k3j9x2"))

		got, err := m.GetSigned(roundTrip(w), "_ms_sid")
		require.NoError(t, err)
		assert.Equal(t, "pvs_1700000000000_k3j9x2", got)
	})

	t.Run("tampered value", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "_ms_sid", "pvs_1_original"))

		raw, err := m.Get(roundTrip(w), "_ms_sid")
		require.NoError(t, err)
		_, sig, ok := strings.Cut(raw, "|")
		require.True(t, ok)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{
			Name:  "_ms_sid",
			Value: base64.URLEncoding.EncodeToString([]byte("pvs_1_forged")) + "|" + sig,
		})

		_, err = m.GetSigned(r, "_ms_sid")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("unsigned value", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "_ms_sid", Value: "pvs_1_plain"})

		_, err := m.GetSigned(r, "_ms_sid")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestManager_SecretRotation(t *testing.T) {
	t.Parallel()

	old, err := cookie.New([]string{oldSecret})
	require.NoError(t, err)
	rotated, err := cookie.New([]string{secret, oldSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, old.SetSigned(w, "_ms_tab", "pvs_2_abc"))

	got, err := rotated.GetSigned(roundTrip(w), "_ms_tab")
	require.NoError(t, err)
	assert.Equal(t, "pvs_2_abc", got)
}

func TestManager_DeleteAndOptions(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secret}, cookie.WithDomain("example.com"), cookie.WithSecure(true))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, "_ms_last", "1", cookie.WithMaxAge(60)))
	m.Delete(w, "_ms_last")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	assert.Equal(t, "example.com", cookies[0].Domain)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 60, cookies[0].MaxAge)

	assert.Equal(t, -1, cookies[1].MaxAge)
	assert.Empty(t, cookies[1].Value)
}

func TestManager_PerCallOptionsDoNotLeak(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secret}, cookie.WithMaxAge(3600))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, "_ms_tab", "pvs_1_a", cookie.WithMaxAge(0), cookie.WithSameSite(http.SameSiteStrictMode)))
	require.NoError(t, m.Set(w, "_ms_sid", "pvs_1_a"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Zero(t, cookies[0].MaxAge, "tab cookie lives for the browser session")
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[1].MaxAge, "manager defaults unchanged")
	assert.NotEqual(t, http.SameSiteStrictMode, cookies[1].SameSite)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := cookie.DefaultConfig()
	_, err := cookie.NewFromConfig(cfg)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	cfg.Secrets = " " + secret + " , ," + oldSecret
	assert.Equal(t, []string{secret, oldSecret}, cfg.SecretList())

	m, err := cookie.NewFromConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, m)
}
