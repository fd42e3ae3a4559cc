package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fedcatalog/source-admin/internal/config"
	"github.com/fedcatalog/source-admin/internal/plugin"
	"github.com/fedcatalog/source-admin/internal/registry"
)

// Service is the configuration admin
type Service struct {
	lookup registry.Lookup

	// changeMu orders each store change with the delivery of its events
	changeMu sync.Mutex

	mu      sync.RWMutex
	configs map[string]*Configuration

	pluginsMu sync.RWMutex
	plugins   []plugin.ConfigurationAdminPlugin

	listenersMu sync.RWMutex
	listeners   []func(Event)

	newPID func(factoryPID string) string
}

// New creates an empty configuration admin; lookup is handed to plugins
func New(lookup registry.Lookup) *Service {
	return &Service{
		lookup:  lookup,
		configs: make(map[string]*Configuration),
		newPID: func(factoryPID string) string {
			return factoryPID + "." + uuid.NewString()
		},
	}
}

// Subscribe registers a callback for configuration changes.
// Callbacks run synchronously in the order the changes were made, after the
// store lock has been released. They may read configurations but must not
// create, update, delete or seed them.
func (s *Service) Subscribe(fn func(Event)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify(events ...Event) {
	s.listenersMu.RLock()
	listeners := slices.Clone(s.listeners)
	s.listenersMu.RUnlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

// AddPlugin appends p to the plugin chain, initializing it first when it implements plugin.Lifecycle
func (s *Service) AddPlugin(ctx context.Context, p plugin.ConfigurationAdminPlugin) error {
	if p == nil {
		return fmt.Errorf("plugin cannot be nil")
	}
	if lc, ok := p.(plugin.Lifecycle); ok {
		if err := lc.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize plugin %T: %w", p, err)
		}
	}

	s.pluginsMu.Lock()
	defer s.pluginsMu.Unlock()
	s.plugins = append(s.plugins, p)
	return nil
}

// Close destroys every plugin and empties the plugin chain
func (s *Service) Close(ctx context.Context) error {
	s.pluginsMu.Lock()
	plugins := s.plugins
	s.plugins = nil
	s.pluginsMu.Unlock()

	var errs []error
	for _, p := range plugins {
		if lc, ok := p.(plugin.Lifecycle); ok {
			if err := lc.Destroy(ctx); err != nil {
				errs = append(errs, fmt.Errorf("failed to destroy plugin %T: %w", p, err))
			}
		}
	}
	return errors.Join(errs...)
}

// List returns all configurations ordered by PID
func (s *Service) List(_ context.Context) []Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Configuration, 0, len(s.configs))
	for _, c := range s.configs {
		out = append(out, c.clone())
	}
	slices.SortFunc(out, func(a, b Configuration) int {
		return strings.Compare(a.PID, b.PID)
	})
	return out
}

// Get returns the configuration pid
func (s *Service) Get(_ context.Context, pid string) (Configuration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.configs[pid]
	if !ok {
		return Configuration{}, fmt.Errorf("%w: %s", ErrConfigurationNotFound, pid)
	}
	return c.clone(), nil
}

// Create adds a factory configuration with a generated PID
func (s *Service) Create(_ context.Context, factoryPID string, props map[string]any) (Configuration, error) {
	if factoryPID == "" {
		return Configuration{}, fmt.Errorf("%w: factory pid is required", ErrInvalidConfiguration)
	}
	if err := validateProperties(factoryPID, props); err != nil {
		return Configuration{}, err
	}

	c := &Configuration{
		PID:        s.newPID(factoryPID),
		FactoryPID: factoryPID,
		Properties: copyProperties(props),
		Origin:     OriginAPI,
	}

	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	s.mu.Lock()
	if _, exists := s.configs[c.PID]; exists {
		s.mu.Unlock()
		return Configuration{}, fmt.Errorf("%w: pid %s already exists", ErrInvalidConfiguration, c.PID)
	}
	s.configs[c.PID] = c
	created := c.clone()
	s.mu.Unlock()

	slog.Info("Configuration created", "pid", created.PID, "factory_pid", factoryPID)
	s.notify(Event{Type: EventCreated, Configuration: created.clone()})
	return created, nil
}

// Update replaces the properties of configuration pid
func (s *Service) Update(_ context.Context, pid string, props map[string]any) (Configuration, error) {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	s.mu.RLock()
	existing, ok := s.configs[pid]
	var factoryPID string
	if ok {
		factoryPID = existing.FactoryPID
	}
	s.mu.RUnlock()
	if !ok {
		return Configuration{}, fmt.Errorf("%w: %s", ErrConfigurationNotFound, pid)
	}
	if err := validateProperties(factoryPID, props); err != nil {
		return Configuration{}, err
	}

	s.mu.Lock()
	c, ok := s.configs[pid]
	if !ok {
		s.mu.Unlock()
		return Configuration{}, fmt.Errorf("%w: %s", ErrConfigurationNotFound, pid)
	}
	c.Properties = copyProperties(props)
	updated := c.clone()
	s.mu.Unlock()

	slog.Info("Configuration updated", "pid", pid)
	s.notify(Event{Type: EventUpdated, Configuration: updated.clone()})
	return updated, nil
}

// Delete removes configuration pid
func (s *Service) Delete(_ context.Context, pid string) error {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	s.mu.Lock()
	c, ok := s.configs[pid]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrConfigurationNotFound, pid)
	}
	delete(s.configs, pid)
	s.mu.Unlock()

	slog.Info("Configuration deleted", "pid", pid)
	s.notify(Event{Type: EventDeleted, Configuration: c.clone()})
	return nil
}

// View returns configuration pid with the data contributed by the plugins
func (s *Service) View(ctx context.Context, pid string) (ConfigurationView, error) {
	c, err := s.Get(ctx, pid)
	if err != nil {
		return ConfigurationView{}, err
	}
	return s.view(ctx, c), nil
}

// Views returns the views of all configurations ordered by PID
func (s *Service) Views(ctx context.Context) []ConfigurationView {
	configs := s.List(ctx)
	views := make([]ConfigurationView, 0, len(configs))
	for _, c := range configs {
		views = append(views, s.view(ctx, c))
	}
	return views
}

func (s *Service) view(ctx context.Context, c Configuration) ConfigurationView {
	s.pluginsMu.RLock()
	plugins := slices.Clone(s.plugins)
	s.pluginsMu.RUnlock()

	data := make(map[string]any)
	for _, p := range plugins {
		mergeData(data, p.ConfigurationData(ctx, c.PID, copyProperties(c.Properties), s.lookup))
	}
	return ConfigurationView{Configuration: c, Data: data}
}

// Seed replaces the configurations that came from the configuration file
// with the sources and configurations of cfg. Configurations created
// through the API are kept unless cfg defines the same PID.
func (s *Service) Seed(_ context.Context, cfg *config.Config) error {
	desired, err := seededConfigurations(cfg)
	if err != nil {
		return err
	}

	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	var events []Event

	s.mu.Lock()
	for _, pid := range sortedPIDs(s.configs) {
		c := s.configs[pid]
		if c.Origin != OriginFile {
			continue
		}
		if _, keep := desired[pid]; !keep {
			delete(s.configs, pid)
			events = append(events, Event{Type: EventDeleted, Configuration: c.clone()})
		}
	}
	for _, pid := range sortedPIDs(desired) {
		next := desired[pid]
		current, exists := s.configs[pid]
		switch {
		case !exists:
			s.configs[pid] = next
			events = append(events, Event{Type: EventCreated, Configuration: next.clone()})
		case current.FactoryPID != next.FactoryPID:
			// a different factory means a different kind of service; replace it
			s.configs[pid] = next
			events = append(events,
				Event{Type: EventDeleted, Configuration: current.clone()},
				Event{Type: EventCreated, Configuration: next.clone()},
			)
		case current.Origin != OriginFile || !reflect.DeepEqual(current.Properties, next.Properties):
			if current.Origin != OriginFile {
				slog.Warn("Configuration file overrides configuration created through the API", "pid", pid)
			}
			s.configs[pid] = next
			events = append(events, Event{Type: EventUpdated, Configuration: next.clone()})
		}
	}
	s.mu.Unlock()

	slog.Info("Configurations seeded", "configurations", len(desired), "changes", len(events))
	s.notify(events...)
	return nil
}

func seededConfigurations(cfg *config.Config) (map[string]*Configuration, error) {
	desired := make(map[string]*Configuration)
	if cfg == nil {
		return desired, nil
	}

	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		props, err := src.ToProperties()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
		factoryPID := config.FactoryPID(src.Type)
		if err := validateProperties(factoryPID, props); err != nil {
			return nil, fmt.Errorf("source '%s': %w", src.ID, err)
		}
		pid := src.GetPID()
		desired[pid] = &Configuration{
			PID:        pid,
			FactoryPID: factoryPID,
			Properties: props,
			Origin:     OriginFile,
		}
	}

	for _, entry := range cfg.Configurations {
		if entry.PID == "" {
			return nil, fmt.Errorf("%w: configuration pid is required", ErrInvalidConfiguration)
		}
		desired[entry.PID] = &Configuration{
			PID:        entry.PID,
			FactoryPID: entry.FactoryPID,
			Properties: copyProperties(entry.Properties),
			Origin:     OriginFile,
		}
	}

	return desired, nil
}

// validateProperties rejects source configurations whose properties cannot build a source
func validateProperties(factoryPID string, props map[string]any) error {
	kind, ok := config.SourceTypeFromFactoryPID(factoryPID)
	if !ok {
		return nil
	}
	if _, err := config.SourceFromProperties(kind, props); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}

func sortedPIDs(configs map[string]*Configuration) []string {
	pids := make([]string, 0, len(configs))
	for pid := range configs {
		pids = append(pids, pid)
	}
	slices.Sort(pids)
	return pids
}
