package sources

import (
	"context"
	"sync"
)

const (
	// FederatedSourceInterface is the registry interface name of federated sources
	FederatedSourceInterface = "catalog.source.FederatedSource"

	// ConfiguredServiceInterface is the registry interface name of services created from a configuration
	ConfiguredServiceInterface = "catalog.source.ConfiguredService"

	// PropSourceID is the registry property carrying the source id
	PropSourceID = "source.id"

	// PropSourceType is the registry property carrying the source type
	PropSourceType = "source.type"
)

// FederatedSource is a remote or local data source taking part in federated queries
type FederatedSource interface {
	// ID returns the source identifier reported in source descriptors
	ID() string

	// IsAvailable checks the source and may block until ctx is done
	IsAvailable(ctx context.Context) bool
}

// ConfiguredService is a service created from a configuration admin entry
type ConfiguredService interface {
	ConfigurationPID() string
	SetConfigurationPID(pid string)
}

// Description carries the descriptive fields of a source
type Description struct {
	Title   string
	Version string
	Type    string
}

// Describer is implemented by sources that can describe themselves
type Describer interface {
	Describe() Description
}

// Checker is implemented by sources that can explain why they are unavailable.
// IsAvailable(ctx) is equivalent to Check(ctx) == nil.
type Checker interface {
	Check(ctx context.Context) error
}

// Source is implemented by every source built by the Factory
type Source interface {
	FederatedSource
	ConfiguredService
	Describer
	Checker
}

// baseSource holds the fields shared by all source implementations
type baseSource struct {
	id          string
	description Description

	mu  sync.RWMutex
	pid string
}

func newBaseSource(id, kind, title, version string) baseSource {
	return baseSource{
		id: id,
		description: Description{
			Title:   title,
			Version: version,
			Type:    kind,
		},
	}
}

// ID returns the source identifier
func (b *baseSource) ID() string {
	return b.id
}

// ConfigurationPID returns the PID of the configuration the source was created from
func (b *baseSource) ConfigurationPID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pid
}

// SetConfigurationPID sets the PID of the configuration the source was created from
func (b *baseSource) SetConfigurationPID(pid string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pid = pid
}

// Describe returns the title, version and type of the source
func (b *baseSource) Describe() Description {
	return b.description
}
