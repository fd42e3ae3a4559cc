// Package v1 provides the configuration admin REST API.
package v1

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fedcatalog/source-admin/internal/admin"
	"github.com/fedcatalog/source-admin/internal/api/common"
)

// ConfigurationAdmin is the configuration admin used by the routes
type ConfigurationAdmin interface {
	Views(ctx context.Context) []admin.ConfigurationView
	View(ctx context.Context, pid string) (admin.ConfigurationView, error)
	Create(ctx context.Context, factoryPID string, props map[string]any) (admin.Configuration, error)
	Update(ctx context.Context, pid string, props map[string]any) (admin.Configuration, error)
	Delete(ctx context.Context, pid string) error
}

// CreateConfigurationRequest is the body of POST /configurations
type CreateConfigurationRequest struct {
	FactoryPID string         `json:"factoryPid"`
	Properties map[string]any `json:"properties"`
}

// UpdateConfigurationRequest is the body of PUT /configurations/{pid}
type UpdateConfigurationRequest struct {
	Properties map[string]any `json:"properties"`
}

// ListConfigurationsResponse is the body of GET /configurations
type ListConfigurationsResponse struct {
	Configurations []admin.ConfigurationView `json:"configurations"`
}

// Routes holds the configuration admin handlers
type Routes struct {
	admin ConfigurationAdmin
}

// Router creates the configuration admin router
func Router(svc ConfigurationAdmin) http.Handler {
	routes := &Routes{admin: svc}

	r := chi.NewRouter()
	r.Get("/configurations", routes.listConfigurations)
	r.Post("/configurations", routes.createConfiguration)
	r.Get("/configurations/{pid}", routes.getConfiguration)
	r.Put("/configurations/{pid}", routes.updateConfiguration)
	r.Delete("/configurations/{pid}", routes.deleteConfiguration)

	return r
}

// listConfigurations handles GET /admin/v1/configurations
//
// @Summary		List configuration views
// @Description	List every configuration with the data contributed by the admin plugins
// @Tags			configurations
// @Produce		json
// @Success		200	{object}	ListConfigurationsResponse
// @Router			/admin/v1/configurations [get]
func (rr *Routes) listConfigurations(w http.ResponseWriter, r *http.Request) {
	common.WriteJSONResponse(w, ListConfigurationsResponse{Configurations: rr.admin.Views(r.Context())}, http.StatusOK)
}

// getConfiguration handles GET /admin/v1/configurations/{pid}
//
// @Summary		Get a configuration view
// @Description	Get a configuration with the data contributed by the admin plugins, including the availability of a configured federated source
// @Tags			configurations
// @Produce		json
// @Param			pid	path		string	true	"Configuration PID"
// @Success		200	{object}	admin.ConfigurationView
// @Failure		400	{object}	common.ErrorResponse
// @Failure		404	{object}	common.ErrorResponse
// @Router			/admin/v1/configurations/{pid} [get]
func (rr *Routes) getConfiguration(w http.ResponseWriter, r *http.Request) {
	pid, err := common.GetAndValidateURLParam(r, "pid")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := rr.admin.View(r.Context(), pid)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	common.WriteJSONResponse(w, view, http.StatusOK)
}

// createConfiguration handles POST /admin/v1/configurations
//
// @Summary		Create a configuration
// @Description	Create a factory configuration. The PID is generated from the factory PID.
// @Tags			configurations
// @Accept			json
// @Produce		json
// @Param			request	body		CreateConfigurationRequest	true	"Factory PID and properties"
// @Success		201		{object}	admin.ConfigurationView
// @Failure		400		{object}	common.ErrorResponse
// @Failure		500		{object}	common.ErrorResponse
// @Router			/admin/v1/configurations [post]
func (rr *Routes) createConfiguration(w http.ResponseWriter, r *http.Request) {
	var req CreateConfigurationRequest
	if err := common.DecodeJSONBody(w, r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := rr.admin.Create(r.Context(), req.FactoryPID, req.Properties)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	rr.writeView(w, r, created, http.StatusCreated)
}

// updateConfiguration handles PUT /admin/v1/configurations/{pid}
//
// @Summary		Update a configuration
// @Description	Replace the properties of a configuration
// @Tags			configurations
// @Accept			json
// @Produce		json
// @Param			pid		path		string						true	"Configuration PID"
// @Param			request	body		UpdateConfigurationRequest	true	"New properties"
// @Success		200		{object}	admin.ConfigurationView
// @Failure		400		{object}	common.ErrorResponse
// @Failure		404		{object}	common.ErrorResponse
// @Failure		500		{object}	common.ErrorResponse
// @Router			/admin/v1/configurations/{pid} [put]
func (rr *Routes) updateConfiguration(w http.ResponseWriter, r *http.Request) {
	pid, err := common.GetAndValidateURLParam(r, "pid")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req UpdateConfigurationRequest
	if err := common.DecodeJSONBody(w, r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := rr.admin.Update(r.Context(), pid, req.Properties)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	rr.writeView(w, r, updated, http.StatusOK)
}

// deleteConfiguration handles DELETE /admin/v1/configurations/{pid}
//
// @Summary		Delete a configuration
// @Description	Delete a configuration and unregister its source
// @Tags			configurations
// @Param			pid	path	string	true	"Configuration PID"
// @Success		204
// @Failure		400	{object}	common.ErrorResponse
// @Failure		404	{object}	common.ErrorResponse
// @Router			/admin/v1/configurations/{pid} [delete]
func (rr *Routes) deleteConfiguration(w http.ResponseWriter, r *http.Request) {
	pid, err := common.GetAndValidateURLParam(r, "pid")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := rr.admin.Delete(r.Context(), pid); err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeView responds with the view of c, falling back to c when the view is gone
func (rr *Routes) writeView(w http.ResponseWriter, r *http.Request, c admin.Configuration, statusCode int) {
	view, err := rr.admin.View(r.Context(), c.PID)
	if err != nil {
		view = admin.ConfigurationView{Configuration: c, Data: map[string]any{}}
	}
	common.WriteJSONResponse(w, view, statusCode)
}

func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, admin.ErrConfigurationNotFound):
		common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, admin.ErrInvalidConfiguration):
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("Configuration admin request failed", "error", err)
		common.WriteErrorResponse(w, "internal server error", http.StatusInternalServerError)
	}
}
