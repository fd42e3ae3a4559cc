package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Source property keys that are not part of the YAML source schema
const (
	// PropertyPID is ignored when decoding; the configuration PID is owned by the configuration admin
	PropertyPID = "pid"
)

// ToProperties converts the source into configuration admin properties.
// The property layout mirrors the YAML schema of a source entry.
func (src *SourceConfig) ToProperties() (map[string]any, error) {
	data, err := yaml.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("failed to encode source '%s': %w", src.ID, err)
	}

	var props map[string]any
	if err := yaml.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("failed to decode source '%s' properties: %w", src.ID, err)
	}
	delete(props, PropertyPID)
	return props, nil
}

// SourceFromProperties decodes configuration admin properties into a validated
// source of the given kind. A type property that disagrees with kind is rejected.
func SourceFromProperties(kind string, props map[string]any) (*SourceConfig, error) {
	if !IsSourceType(kind) {
		return nil, fmt.Errorf("unsupported source type '%s'", kind)
	}

	data, err := yaml.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("failed to encode properties: %w", err)
	}

	var src SourceConfig
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	src.PID = ""

	if src.Type == "" {
		src.Type = kind
	}
	if src.Type != kind {
		return nil, fmt.Errorf("type property '%s' does not match factory type '%s'", src.Type, kind)
	}

	if err := ValidateSource(&src); err != nil {
		return nil, err
	}
	return &src, nil
}
