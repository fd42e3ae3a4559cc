// Package telemetry provides OpenTelemetry instrumentation for the source admin service.
// Traces are exported over OTLP; metrics are exported over OTLP or exposed for Prometheus scraping.
package telemetry

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultServiceName is the default service name for telemetry
	DefaultServiceName = "source-admin-api"

	// DefaultEndpoint is the default OTLP endpoint for telemetry
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling is the default trace sampling rate (5%)
	DefaultSampling = 0.05

	// DefaultMetricsInterval is the default export interval for OTLP metrics
	DefaultMetricsInterval = 60 * time.Second
)

// MetricsExporter selects how metrics leave the process
type MetricsExporter string

const (
	// MetricsExporterOTLP pushes metrics to the OTLP endpoint
	MetricsExporterOTLP MetricsExporter = "otlp"

	// MetricsExporterPrometheus serves metrics on the /metrics endpoint
	MetricsExporterPrometheus MetricsExporter = "prometheus"
)

// Config represents the root telemetry configuration
type Config struct {
	// Enabled controls whether telemetry is enabled globally
	Enabled bool `yaml:"enabled"`

	// ServiceName defaults to "source-admin-api"
	ServiceName string `yaml:"serviceName,omitempty"`

	// ServiceVersion defaults to the application version
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the OTLP collector endpoint in "host:port" form
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure allows HTTP connections instead of HTTPS
	Insecure bool `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig defines tracing-specific configuration
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is the trace sampling rate between 0.0 and 1.0
	Sampling float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig defines metrics-specific configuration
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Exporter is "otlp" (default) or "prometheus"
	Exporter MetricsExporter `yaml:"exporter,omitempty"`

	// Interval is the OTLP export interval, e.g. "30s"
	Interval string `yaml:"interval,omitempty"`
}

// GetServiceName returns the service name, using default if not specified
func (c *Config) GetServiceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the service version, using "unknown" if not specified
func (c *Config) GetServiceVersion() string {
	if c.ServiceVersion == "" {
		return "unknown"
	}
	return c.ServiceVersion
}

// GetEndpoint returns the endpoint, using default if not specified
func (c *Config) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetSampling returns the sampling ratio.
// 0 is treated as unset and yields DefaultSampling.
func (c *TracingConfig) GetSampling() float64 {
	if c.Sampling == 0.0 {
		return DefaultSampling
	}
	return c.Sampling
}

// GetExporter returns the configured exporter, defaulting to OTLP
func (c *MetricsConfig) GetExporter() MetricsExporter {
	if c == nil || c.Exporter == "" {
		return MetricsExporterOTLP
	}
	return c.Exporter
}

// GetInterval returns the OTLP export interval
func (c *MetricsConfig) GetInterval() time.Duration {
	if c == nil || c.Interval == "" {
		return DefaultMetricsInterval
	}
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return DefaultMetricsInterval
	}
	return d
}

// Validate validates the telemetry configuration. A nil or disabled config is valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	if err := c.Metrics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}
	return errors.Join(errs...)
}

// Validate validates the tracing configuration
func (c *TracingConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if c.Sampling < 0 || c.Sampling > 1.0 {
		return fmt.Errorf("sampling must be between 0.0 and 1.0, got %f", c.Sampling)
	}
	return nil
}

// Validate validates the metrics configuration
func (c *MetricsConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	switch c.GetExporter() {
	case MetricsExporterOTLP, MetricsExporterPrometheus:
	default:
		return fmt.Errorf("exporter must be one of %q or %q, got %q",
			MetricsExporterOTLP, MetricsExporterPrometheus, c.Exporter)
	}

	if c.Interval != "" {
		d, err := time.ParseDuration(c.Interval)
		if err != nil {
			return fmt.Errorf("interval must be a valid duration: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("interval must be positive, got %s", c.Interval)
		}
	}
	return nil
}
