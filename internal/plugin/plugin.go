// Package plugin defines the configuration admin plugin contract and the
// plugin that reports the availability of federated sources.
package plugin

import (
	"context"

	"github.com/fedcatalog/source-admin/internal/registry"
)

//go:generate mockgen -destination=mocks/mock_plugin.go -package=mocks -source=plugin.go ConfigurationAdminPlugin,Lifecycle

// ConfigurationAdminPlugin contributes data to the admin view of a configuration
type ConfigurationAdminPlugin interface {
	// ConfigurationData returns the entries to merge into the view of the
	// configuration pid. existing holds the configuration properties and must
	// not be modified. The returned map is never nil.
	ConfigurationData(ctx context.Context, pid string, existing map[string]any, lookup registry.Lookup) map[string]any
}

// Lifecycle is implemented by plugins that need setup and teardown
type Lifecycle interface {
	Init(ctx context.Context) error
	Destroy(ctx context.Context) error
}
