// Package httpserver runs the dashboard's HTTP server with graceful shutdown
// and provides the liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(*slog.Logger) { closeStores() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run returns once ctx is cancelled and in-flight requests have finished or
// the shutdown timeout has passed.
package httpserver
