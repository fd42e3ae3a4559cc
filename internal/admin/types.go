// Package admin implements the configuration admin: an in-memory store of
// configurations, the plugin chain that enriches their admin views and the
// change events that drive source binding.
package admin

import (
	"errors"
	"maps"
)

var (
	// ErrConfigurationNotFound is returned for unknown configuration PIDs
	ErrConfigurationNotFound = errors.New("configuration not found")

	// ErrInvalidConfiguration is returned when a configuration is rejected
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Origin records where a configuration came from
type Origin string

const (
	// OriginFile marks configurations seeded from the configuration file
	OriginFile Origin = "file"

	// OriginAPI marks configurations created through the admin API
	OriginAPI Origin = "api"
)

// Configuration is a configuration admin entry
type Configuration struct {
	PID        string         `json:"pid"`
	FactoryPID string         `json:"factoryPid,omitempty"`
	Properties map[string]any `json:"properties"`
	Origin     Origin         `json:"origin"`
}

// ConfigurationView is a configuration together with the data contributed by plugins
type ConfigurationView struct {
	Configuration
	Data map[string]any `json:"data"`
}

// EventType describes a configuration change
type EventType string

const (
	// EventCreated is emitted after a configuration has been added
	EventCreated EventType = "Created"

	// EventUpdated is emitted after the properties of a configuration have changed
	EventUpdated EventType = "Updated"

	// EventDeleted is emitted after a configuration has been removed
	EventDeleted EventType = "Deleted"
)

// Event is delivered to admin subscribers
type Event struct {
	Type          EventType
	Configuration Configuration
}

// clone returns a copy of c whose properties can be modified freely
func (c *Configuration) clone() Configuration {
	out := *c
	out.Properties = copyProperties(c.Properties)
	return out
}

// copyProperties deep-copies the maps and slices of a property tree
func copyProperties(props map[string]any) map[string]any {
	if props == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyProperties(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

// mergeData merges plugin results, later plugins win on key clashes
func mergeData(dst, src map[string]any) {
	maps.Copy(dst, src)
}
