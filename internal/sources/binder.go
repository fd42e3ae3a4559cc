package sources

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/fedcatalog/source-admin/internal/config"
	"github.com/fedcatalog/source-admin/internal/registry"
	"github.com/fedcatalog/source-admin/internal/versions"
)

// Registrar publishes services to the service registry
type Registrar interface {
	Register(interfaces []string, svc any, props map[string]string) (*registry.Registration, error)
}

type binding struct {
	source       Source
	registration *registry.Registration
}

// Binder keeps the registered sources in step with source configurations.
// Configurations whose factory PID does not name a source type are ignored.
type Binder struct {
	registrar Registrar
	factory   SourceFactory

	mu       sync.Mutex
	bindings map[string]*binding
}

// NewBinder creates a binder publishing to registrar
func NewBinder(registrar Registrar, factory SourceFactory) *Binder {
	return &Binder{
		registrar: registrar,
		factory:   factory,
		bindings:  make(map[string]*binding),
	}
}

// Bind creates or replaces the source for the configuration pid.
// It reports false when the configuration is not a source configuration.
func (b *Binder) Bind(pid, factoryPID string, props map[string]any) (bool, error) {
	kind, ok := config.SourceTypeFromFactoryPID(factoryPID)
	if !ok {
		return false, nil
	}

	src, err := b.factory.Create(kind, props)
	if err != nil {
		return true, fmt.Errorf("configuration %s: %w", pid, err)
	}
	src.SetConfigurationPID(pid)

	reg, err := b.registrar.Register(
		[]string{FederatedSourceInterface, ConfiguredServiceInterface},
		src,
		map[string]string{
			registry.PropServicePID: pid,
			PropSourceID:            src.ID(),
			PropSourceType:          kind,
		},
	)
	if err != nil {
		return true, fmt.Errorf("configuration %s: failed to register source: %w", pid, err)
	}

	b.mu.Lock()
	previous := b.bindings[pid]
	b.bindings[pid] = &binding{source: src, registration: reg}
	b.mu.Unlock()

	if previous != nil {
		previous.registration.Unregister()

		oldVersion, newVersion := previous.source.Describe().Version, src.Describe().Version
		if versions.IsDowngrade(oldVersion, newVersion) {
			slog.Warn("Source version moved backwards",
				"pid", pid,
				"source", src.ID(),
				"previous_version", oldVersion,
				"version", newVersion,
			)
		}
		slog.Info("Source rebound", "pid", pid, "source", src.ID(), "type", kind, "service_id", reg.Reference().ID)
	} else {
		slog.Info("Source bound", "pid", pid, "source", src.ID(), "type", kind, "service_id", reg.Reference().ID)
	}

	return true, nil
}

// Unbind unregisters the source of the configuration pid, if any
func (b *Binder) Unbind(pid string) {
	b.mu.Lock()
	previous, ok := b.bindings[pid]
	delete(b.bindings, pid)
	b.mu.Unlock()

	if ok {
		previous.registration.Unregister()
		slog.Info("Source unbound", "pid", pid, "source", previous.source.ID())
	}
}

// Bound returns the configuration PIDs that currently have a registered source
func (b *Binder) Bound() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Sorted(maps.Keys(b.bindings))
}

// Close unregisters every source
func (b *Binder) Close() {
	b.mu.Lock()
	bindings := b.bindings
	b.bindings = make(map[string]*binding)
	b.mu.Unlock()

	for _, bnd := range bindings {
		bnd.registration.Unregister()
	}
}
