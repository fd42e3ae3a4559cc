// Package v1 provides the catalog source-info REST API.
package v1

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fedcatalog/source-admin/internal/api/common"
	"github.com/fedcatalog/source-admin/internal/catalog"
)

// Catalog is the catalog framework used by the routes
type Catalog interface {
	SourceInfo(ctx context.Context, req *catalog.SourceInfoRequest) (*catalog.SourceInfoResponse, error)
	Refresh(ctx context.Context) error
}

// Routes holds the catalog handlers
type Routes struct {
	catalog Catalog
}

// Router creates the catalog router
func Router(c Catalog) http.Handler {
	routes := &Routes{catalog: c}

	r := chi.NewRouter()
	r.Get("/sources", routes.listSources)
	r.Post("/sources/refresh", routes.refreshSources)

	return r
}

// listSources handles GET /sources?enterprise=true&id=a&id=b.
// Ids may also be given comma-separated.
//
// @Summary		List source descriptors
// @Description	Describe the local catalog and the federated sources from the last completed poll
// @Tags			sources
// @Produce		json
// @Param			enterprise	query		bool		false	"Include every federated source"
// @Param			id			query		[]string	false	"Source ids, repeated or comma-separated"	collectionFormat(multi)
// @Success		200			{object}	catalog.SourceInfoResponse
// @Failure		400			{object}	common.ErrorResponse
// @Failure		500			{object}	common.ErrorResponse
// @Failure		503			{object}	common.ErrorResponse
// @Router			/catalog/v1/sources [get]
func (rr *Routes) listSources(w http.ResponseWriter, r *http.Request) {
	req, err := parseSourceInfoRequest(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	rr.writeSourceInfo(w, r, req)
}

// refreshSources polls every source and responds with the enterprise descriptors
//
// @Summary		Refresh source availability
// @Description	Check every federated source now and return the enterprise descriptors
// @Tags			sources
// @Produce		json
// @Success		200	{object}	catalog.SourceInfoResponse
// @Failure		500	{object}	common.ErrorResponse
// @Failure		503	{object}	common.ErrorResponse
// @Router			/catalog/v1/sources/refresh [post]
func (rr *Routes) refreshSources(w http.ResponseWriter, r *http.Request) {
	if err := rr.catalog.Refresh(r.Context()); err != nil {
		writeCatalogError(w, err)
		return
	}
	rr.writeSourceInfo(w, r, &catalog.SourceInfoRequest{Enterprise: true})
}

func (rr *Routes) writeSourceInfo(w http.ResponseWriter, r *http.Request, req *catalog.SourceInfoRequest) {
	resp, err := rr.catalog.SourceInfo(r.Context(), req)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	if resp.Descriptors == nil {
		resp.Descriptors = []catalog.SourceDescriptor{}
	}
	common.WriteJSONResponse(w, resp, http.StatusOK)
}

func parseSourceInfoRequest(r *http.Request) (*catalog.SourceInfoRequest, error) {
	query := r.URL.Query()
	req := &catalog.SourceInfoRequest{}

	if value := query.Get("enterprise"); value != "" {
		enterprise, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.New("enterprise must be a boolean")
		}
		req.Enterprise = enterprise
	}

	for _, value := range query["id"] {
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.SourceIDs = append(req.SourceIDs, id)
			}
		}
	}
	return req, nil
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrSourceUnavailable):
		common.WriteErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		common.WriteErrorResponse(w, "request cancelled", http.StatusServiceUnavailable)
	default:
		slog.Error("Catalog request failed", "error", err)
		common.WriteErrorResponse(w, "internal server error", http.StatusInternalServerError)
	}
}
