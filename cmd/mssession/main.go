package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/mssession/pkg/broadcast"
	"github.com/dmitrymomot/mssession/pkg/config"
	"github.com/dmitrymomot/mssession/pkg/cookie"
	"github.com/dmitrymomot/mssession/pkg/httpserver"
	"github.com/dmitrymomot/mssession/pkg/logger"
	"github.com/dmitrymomot/mssession/pkg/mssession"
	"github.com/dmitrymomot/mssession/pkg/ratelimiter"
	"github.com/dmitrymomot/mssession/pkg/redis"
	"github.com/dmitrymomot/mssession/pkg/requestid"
	"github.com/dmitrymomot/mssession/pkg/signalstore"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_SERVICE" envDefault:"mssession"`
}

func main() {
	var (
		app     appConfig
		session mssession.Config
		store   signalstore.Config
		httpCfg httpserver.Config
		cookies cookie.Config
		limits  ratelimiter.Config
	)
	config.MustLoad(&app)
	config.MustLoad(&session)
	config.MustLoad(&store)
	config.MustLoad(&httpCfg)
	config.MustLoad(&cookies)
	config.MustLoad(&limits)

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Service),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			mssession.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, log, session, store, httpCfg, cookies, limits); err != nil {
		log.Error("mssession stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	log *slog.Logger,
	sessionCfg mssession.Config,
	storeCfg signalstore.Config,
	httpCfg httpserver.Config,
	cookieCfg cookie.Config,
	limitCfg ratelimiter.Config,
) error {
	opts := []mssession.Option{mssession.WithLogger(log)}
	var readiness []func(context.Context) error

	cookieMgr, err := cookie.NewFromConfig(cookieCfg)
	switch {
	case err == nil:
		opts = append(opts, mssession.WithCookieManager(cookieMgr))
	case errors.Is(err, cookie.ErrNoSecret) && !sessionCfg.SignedCookies:
		log.InfoContext(ctx, "cookie secrets not configured, persisted cookies are read unsigned")
	default:
		return err
	}

	ready := broadcast.NewMemoryBroadcaster[mssession.Ready](64)
	defer ready.Close()
	notifiers := mssession.MultiNotifier{mssession.NewBroadcastNotifier(ready, log)}
	go logReady(ctx, log, ready.Subscribe(ctx))

	store, check, closeStore, err := openStore(ctx, storeCfg)
	if err != nil {
		return err
	}
	defer closeStore()
	if check != nil {
		readiness = append(readiness, check)
	}

	if store != nil {
		opts = append(opts, mssession.WithSourceWrapper(func(base mssession.SourceFunc) mssession.SourceFunc {
			return signalstore.SourceFunc(base, store, storeCfg, log)
		}))
		if storeCfg.Persist {
			notifiers = append(notifiers, signalstore.NewRecorder(store, storeCfg.TTL, log,
				signalstore.WithWriteTimeout(storeCfg.WriteTimeout),
			))
		}
	}
	opts = append(opts, mssession.WithNotifier(notifiers))

	manager, err := mssession.NewFromConfig(sessionCfg, opts...)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	r.Get("/health", httpserver.HealthCheckHandler(log))
	r.Get("/ready", httpserver.HealthCheckHandler(log, readiness...))

	var limiter *ratelimiter.Bucket
	if limitCfg.Enabled {
		if limiter, err = ratelimiter.NewBucket(ratelimiter.NewMemoryStore(0, nil), limitCfg); err != nil {
			return err
		}
	}

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(ratelimiter.Middleware(limiter, nil, log))
		}
		if store != nil {
			r.Use(signalstore.Middleware(nil))
		}
		r.Use(manager.Middleware)
		r.Get("/v1/session", sessionHandler(manager, cookieMgr, storeCfg.Persist, log))
	})

	log.InfoContext(ctx, "mssession configured",
		slog.String("mode", sessionCfg.Mode),
		slog.Duration("timeout", sessionCfg.Timeout),
		slog.String("store", string(storeCfg.Driver)),
		slog.Bool("persist", storeCfg.Persist),
	)

	return httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log)).Run(ctx, r)
}

// openStore builds the configured device store and its readiness check.
// A nil store disables server-side signals.
func openStore(ctx context.Context, cfg signalstore.Config) (signalstore.Store, func(context.Context) error, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case signalstore.DriverNone, "":
		return nil, nil, noop, nil
	case signalstore.DriverMemory:
		return signalstore.NewMemoryStore(cfg.MemoryCapacity), nil, noop, nil
	case signalstore.DriverRedis:
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, nil, noop, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, nil, noop, err
		}
		store := signalstore.NewRedisStore(client, cfg.KeyPrefix)
		return store, redis.Healthcheck(client), func() { _ = client.Close() }, nil
	}
	return nil, nil, noop, fmt.Errorf("unknown signal store driver %q", cfg.Driver)
}

// logReady stands in for downstream consumers of ready signals until ctx ends.
func logReady(ctx context.Context, log *slog.Logger, sub broadcast.Subscriber[mssession.Ready]) {
	defer sub.Close()
	for msg := range sub.Receive(ctx) {
		log.DebugContext(ctx, "session ready",
			logger.SessionID(msg.Data.SessionID),
			logger.PageviewID(msg.Data.PageviewID),
			slog.Bool("new_session", msg.Data.Decision.IsNewSession),
		)
	}
}
