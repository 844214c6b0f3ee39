// Package httpserver runs the session endpoint with graceful shutdown.
//
// Run blocks until its context is cancelled or SIGINT/SIGTERM arrives, then
// calls http.Server.Shutdown bounded by the configured shutdown timeout.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// HealthCheckHandler serves liveness (no checks) and readiness (one or more
// dependency checks) endpoints.
package httpserver
