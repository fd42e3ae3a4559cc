// Package health provides the health, readiness and version endpoints.
package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fedcatalog/source-admin/internal/api/common"
	"github.com/fedcatalog/source-admin/internal/versions"
)

// ReadinessChecker reports whether the server can serve catalog requests
type ReadinessChecker interface {
	Ready() bool
}

// Router creates a router for the health check endpoints.
// A nil checker means the server is always ready.
func Router(checker ReadinessChecker) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(checker))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
//
// @Summary		Health check
// @Description	Check if the API is healthy
// @Tags			system
// @Produce		json
// @Success		200	{object}	HealthResponse
// @Router			/health [get]
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

// readinessHandler reports 503 until the catalog framework has completed a poll
//
// @Summary		Readiness check
// @Description	Check if the catalog framework has completed a poll
// @Tags			system
// @Produce		json
// @Success		200	{object}	ReadinessResponse
// @Failure		503	{object}	common.ErrorResponse
// @Router			/readiness [get]
func readinessHandler(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if checker != nil && !checker.Ready() {
			common.WriteErrorResponse(w, "catalog framework has not completed a poll", http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, ReadinessResponse{Status: "ready"}, http.StatusOK)
	}
}

// versionHandler handles version information requests
//
// @Summary		Version information
// @Description	Get version information about the API server
// @Tags			system
// @Produce		json
// @Success		200	{object}	versions.VersionInfo
// @Router			/version [get]
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
