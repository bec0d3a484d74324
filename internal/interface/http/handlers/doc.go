// Package handlers contains the health checker and middleware shared by the
// HTTP server.
//
// # Health Checks
//
// Named checks are executed in parallel, each with its own timeout:
//
//	checker := handlers.NewCompositeHealthChecker("v0.1.0")
//	checker.AddCheck("storage", handlers.NewBackendCheck(backend))
//
//	status := checker.Check(ctx)
//	if !status.Healthy {
//	    log.Warn("health check failed", logger.String("reason", status.Message))
//	}
//
// # Middleware
//
// Every middleware has the func(http.Handler) http.Handler shape so it can be
// passed straight to chi's Router.Use:
//
//	r := chi.NewRouter()
//	r.Use(handlers.RequestIDMiddleware(log))
//	r.Use(handlers.LoggingMiddleware)
//	r.Use(handlers.RecoveryMiddleware(writeError))
package handlers
