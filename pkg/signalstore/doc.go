// Package signalstore keeps per-device session signals on the server.
//
// Browsers that block or partition cookies lose the cross-tab candidate and the
// last activity time between pageviews. A Store keyed by a device key (see the
// fingerprint package) keeps both on the server:
//
//   - Source decorates the request signal source and fills in values the
//     request does not carry.
//   - Recorder is a persist collaborator. It listens for Ready signals and
//     writes the resolved id and activity time back.
//
// MemoryStore serves a single instance; RedisStore shares records between
// instances.
//
//	store := signalstore.NewRedisStore(client, cfg.KeyPrefix)
//	manager := mssession.New(
//	    mssession.WithNotifier(signalstore.NewRecorder(store, cfg.TTL, log,
//	        signalstore.WithWriteTimeout(cfg.WriteTimeout),
//	    )),
//	    mssession.WithSourceWrapper(func(base mssession.SourceFunc) mssession.SourceFunc {
//	        return signalstore.SourceFunc(base, store, cfg, log)
//	    }),
//	)
//	handler := signalstore.Middleware(nil)(manager.Middleware(mux))
//
// Reads are bounded by Config.ReadTimeout and Recorder writes by
// Config.WriteTimeout. Read failures are logged and reported to the resolver as
// absent values, so a slow store never blocks a pageview for longer than the two
// bounds together.
package signalstore
