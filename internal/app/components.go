package app

import (
	"github.com/fedcatalog/source-admin/internal/admin"
	"github.com/fedcatalog/source-admin/internal/catalog"
	"github.com/fedcatalog/source-admin/internal/plugin"
	"github.com/fedcatalog/source-admin/internal/registry"
	"github.com/fedcatalog/source-admin/internal/sources"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Registry holds the registered federated sources
	Registry *registry.Registry

	// Binder keeps the registry in step with source configurations
	Binder *sources.Binder

	// Admin stores configurations and serves their views
	Admin *admin.Service

	// Catalog tracks source availability; nil when disabled
	Catalog *catalog.DefaultFramework

	// Plugin adds the availability flag to source configuration views
	Plugin *plugin.SourceConfigurationPlugin
}
