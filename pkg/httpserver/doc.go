// Package httpserver runs an http.Server with graceful shutdown, listener
// timeouts suited to large request bodies, and health probes.
//
// Run blocks until its context is done, then shuts down within the
// configured deadline. Signal handling is left to the caller:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthHandler serves liveness (no checks) and readiness (with checks)
// probes. Run wraps listen failures with ErrStart and Shutdown wraps
// shutdown failures with ErrShutdown.
package httpserver
