// Package api provides the REST API server for configuration admin and catalog access.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	adminv1 "github.com/fedcatalog/source-admin/internal/api/admin/v1"
	catalogv1 "github.com/fedcatalog/source-admin/internal/api/catalog/v1"
	"github.com/fedcatalog/source-admin/internal/api/common"
	"github.com/fedcatalog/source-admin/internal/api/health"
)

// Dependencies are the services exposed by the API server.
// Catalog and Readiness are optional.
type Dependencies struct {
	Admin     adminv1.ConfigurationAdmin
	Catalog   catalogv1.Catalog
	Readiness health.ReadinessChecker
}

// ServerOption configures the API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares    []func(http.Handler) http.Handler
	metricsHandler http.Handler
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithMetricsHandler mounts h at /metrics
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.metricsHandler = h
	}
}

// NewServer creates and configures the HTTP router with the given dependencies and options
func NewServer(deps Dependencies, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	// Health check routes live at the root
	r.Mount("/", health.Router(deps.Readiness))

	// OpenAPI specification
	r.Get("/openapi.json", openAPIHandler)
	r.Get("/openapi.yaml", serveOpenAPIYAML)

	if cfg.metricsHandler != nil {
		r.Handle("/metrics", cfg.metricsHandler)
	}

	r.Mount("/admin/v1", adminv1.Router(deps.Admin))

	if deps.Catalog != nil {
		r.Mount("/catalog/v1", catalogv1.Router(deps.Catalog))
	} else {
		r.Mount("/catalog/v1", http.HandlerFunc(catalogDisabledHandler))
	}

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func catalogDisabledHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteErrorResponse(w, "catalog framework is disabled", http.StatusServiceUnavailable)
}
