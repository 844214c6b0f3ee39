package signalstore_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mssession/pkg/logger"
	"github.com/dmitrymomot/mssession/pkg/mssession"
	"github.com/dmitrymomot/mssession/pkg/signalstore"
)

const now int64 = 1_700_000_000_000

// countingStore counts Get calls and can fail them.
type countingStore struct {
	signalstore.Store
	gets int
	err  error
}

func (s *countingStore) Get(ctx context.Context, key string) (signalstore.Record, error) {
	s.gets++
	if s.err != nil {
		return signalstore.Record{}, s.err
	}
	return s.Store.Get(ctx, key)
}

func TestSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rec := signalstore.Record{SessionID: "pvs_1699999999000_store", LastActivity: now - 2000}

	newStore := func(t *testing.T) *countingStore {
		t.Helper()
		mem := signalstore.NewMemoryStore(10)
		require.NoError(t, mem.Put(ctx, "device", rec, time.Hour))
		return &countingStore{Store: mem}
	}

	t.Run("fills absent values from the record once", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		src := signalstore.NewSource(mssession.StaticSource{Page: "example.com"}, store, "device", time.Second, nil)

		last, err := src.LastActivity(ctx)
		require.NoError(t, err)
		assert.Equal(t, rec.LastActivity, last)

		cross, err := src.CrossTabSessionID(ctx)
		require.NoError(t, err)
		assert.Equal(t, rec.SessionID, cross)

		_, err = src.TabSessionID(ctx)
		assert.ErrorIs(t, err, mssession.ErrValueAbsent)
		assert.Equal(t, 1, store.gets)
	})

	t.Run("base values win", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		base := mssession.StaticSource{LastActivityMs: now - 10, CrossTabID: "pvs_1_cookie"}
		src := signalstore.NewSource(base, store, "device", 0, nil)

		last, err := src.LastActivity(ctx)
		require.NoError(t, err)
		assert.Equal(t, now-10, last)

		cross, err := src.CrossTabSessionID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "pvs_1_cookie", cross)
		assert.Zero(t, store.gets)
	})

	t.Run("unknown device and failures are absent", func(t *testing.T) {
		t.Parallel()

		src := signalstore.NewSource(mssession.StaticSource{}, newStore(t), "other-device", 0, nil)
		_, err := src.CrossTabSessionID(ctx)
		assert.ErrorIs(t, err, mssession.ErrValueAbsent)

		src = signalstore.NewSource(mssession.StaticSource{}, nil, "device", 0, nil)
		_, err = src.LastActivity(ctx)
		assert.ErrorIs(t, err, mssession.ErrValueAbsent)

		failing := &countingStore{err: errors.New("connection refused")}
		src = signalstore.NewSource(mssession.StaticSource{}, failing, "device", 0, nil)
		_, err = src.LastActivity(ctx)
		require.Error(t, err)
		_, err = src.CrossTabSessionID(ctx)
		require.Error(t, err)
		assert.Equal(t, 1, failing.gets)
	})

	t.Run("store carry-over resolves to the stored id", func(t *testing.T) {
		t.Parallel()

		resolver := mssession.NewResolver(mssession.Classifier{Mode: mssession.ModeETLD1}, 30*time.Minute, nil, nil)
		base := mssession.StaticSource{Time: time.UnixMilli(now), Page: "shop.example.com", ReferrerURL: "https://www.example.com/"}

		id, d := resolver.ResolveSource(ctx, signalstore.NewSource(base, newStore(t), "device", 0, nil))
		assert.Equal(t, rec.SessionID, id)
		assert.True(t, d.CarryAllowed)
	})
}

func TestSourceFunc(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := signalstore.NewMemoryStore(10)
	require.NoError(t, store.Put(ctx, "explicit-key", signalstore.Record{SessionID: "pvs_5_ctx", LastActivity: now}, 0))

	base := func(*http.Request) mssession.SignalSource { return mssession.StaticSource{} }
	fn := signalstore.SourceFunc(base, store, signalstore.DefaultConfig(), nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(signalstore.WithDeviceKey(r.Context(), "explicit-key"))

	id, err := fn(r).CrossTabSessionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pvs_5_ctx", id)

	// Without a context key the fingerprint is used, which has no record.
	_, err = fn(httptest.NewRequest(http.MethodGet, "/", nil)).CrossTabSessionID(ctx)
	assert.ErrorIs(t, err, mssession.ErrValueAbsent)
}

func TestEndToEnd_CookielessCarryOver(t *testing.T) {
	t.Parallel()

	store := signalstore.NewMemoryStore(100)
	clock := time.UnixMilli(now)

	manager := mssession.New(
		mssession.WithClock(func() time.Time { return clock }),
		mssession.WithNotifier(signalstore.NewRecorder(store, time.Hour, nil)),
		mssession.WithSourceWrapper(func(base mssession.SourceFunc) mssession.SourceFunc {
			return signalstore.SourceFunc(base, store, signalstore.DefaultConfig(), nil)
		}),
	)

	var ids []string
	handler := signalstore.Middleware(func(*http.Request) string { return "device-1" })(
		manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ids = append(ids, mssession.SessionIDFromContext(r.Context()))
			page, _ := mssession.FromContext(r.Context())
			assert.False(t, page.Ephemeral(), "recorder marks the page persisted")
		})),
	)

	request := func(referrer string) {
		r := httptest.NewRequest(http.MethodGet, "http://shop.example.com/", nil)
		if referrer != "" {
			r.Header.Set("Referer", referrer)
		}
		handler.ServeHTTP(httptest.NewRecorder(), r)
	}

	request("https://www.google.com/")
	clock = clock.Add(time.Minute)
	request("https://blog.example.com/post")
	clock = clock.Add(time.Hour)
	request("https://blog.example.com/post")

	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[1], "second pageview carries the stored id")
	assert.NotEqual(t, ids[1], ids[2], "inactivity starts a new session")

	rec, err := store.Get(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Equal(t, ids[2], rec.SessionID)
	assert.Equal(t, clock.UnixMilli(), rec.LastActivity)
}

func TestSource_StoreFailureLoggedWithPageExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(slog.LevelInfo),
		logger.WithContextExtractors(mssession.LoggerExtractor()),
	)

	store := &countingStore{Store: signalstore.NewMemoryStore(10), err: errors.New("i/o timeout")}
	manager := mssession.New(
		mssession.WithLogger(log),
		mssession.WithSourceWrapper(func(base mssession.SourceFunc) mssession.SourceFunc {
			return signalstore.SourceFunc(base, store, signalstore.DefaultConfig(), log)
		}),
	)

	var id string
	handler := signalstore.Middleware(func(*http.Request) string { return "device" })(
		manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id = mssession.SessionIDFromContext(r.Context())
		})),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example.com/", nil))
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("request did not complete")
	}

	assert.NotEmpty(t, id)
	assert.Equal(t, 1, store.gets)
	assert.Contains(t, buf.String(), "device record lookup failed")
	assert.Contains(t, buf.String(), `"mssession":{"pageview_id":`)
}
