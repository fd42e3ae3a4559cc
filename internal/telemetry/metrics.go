package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SourceMetricsMeterName is the meter used for source availability metrics
	SourceMetricsMeterName = "github.com/fedcatalog/source-admin/catalog"

	// LookupMetricsMeterName is the meter used for configuration view lookups
	LookupMetricsMeterName = "github.com/fedcatalog/source-admin/plugin"
)

// LookupResult labels the outcome of an availability lookup for a configuration
type LookupResult string

const (
	// LookupAvailable means a matching source was reported available
	LookupAvailable LookupResult = "available"

	// LookupUnavailable means a matching source was reported unavailable
	LookupUnavailable LookupResult = "unavailable"

	// LookupNoMatch means no registered source matched the configuration
	LookupNoMatch LookupResult = "no_match"

	// LookupError means the lookup failed and no flag was produced
	LookupError LookupResult = "error"
)

// SourceMetrics holds the instruments recorded by the catalog framework poller
type SourceMetrics struct {
	available     metric.Int64Gauge
	checkDuration metric.Float64Histogram
}

// NewSourceMetrics creates a new SourceMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSourceMetrics(provider metric.MeterProvider) (*SourceMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SourceMetricsMeterName)

	available, err := meter.Int64Gauge(
		"source_admin_source_available",
		metric.WithDescription("Whether the last availability check of a source succeeded (1) or failed (0)"),
	)
	if err != nil {
		return nil, err
	}

	checkDuration, err := meter.Float64Histogram(
		"source_admin_check_duration_seconds",
		metric.WithDescription("Duration of source availability checks in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	return &SourceMetrics{
		available:     available,
		checkDuration: checkDuration,
	}, nil
}

// RecordAvailability records the availability of a source
func (m *SourceMetrics) RecordAvailability(ctx context.Context, sourceID, sourceType string, available bool) {
	if m == nil || m.available == nil {
		return
	}

	var value int64
	if available {
		value = 1
	}
	m.available.Record(ctx, value, metric.WithAttributes(
		attribute.String("source", sourceID),
		attribute.String("type", sourceType),
	))
}

// RecordCheckDuration records how long an availability check took, retries included
func (m *SourceMetrics) RecordCheckDuration(ctx context.Context, sourceType string, duration time.Duration, success bool) {
	if m == nil || m.checkDuration == nil {
		return
	}

	m.checkDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("type", sourceType),
		attribute.Bool("success", success),
	))
}

// LookupMetrics holds the instruments recorded by configuration admin plugins
type LookupMetrics struct {
	lookups metric.Int64Counter
}

// NewLookupMetrics creates a new LookupMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewLookupMetrics(provider metric.MeterProvider) (*LookupMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	lookups, err := provider.Meter(LookupMetricsMeterName).Int64Counter(
		"source_admin_availability_lookups_total",
		metric.WithDescription("Total number of availability lookups made while building configuration views"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &LookupMetrics{lookups: lookups}, nil
}

// RecordLookup counts one lookup; path is "catalog" or "direct" and may be empty
func (m *LookupMetrics) RecordLookup(ctx context.Context, path string, result LookupResult) {
	if m == nil || m.lookups == nil {
		return
	}

	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("path", path),
		attribute.String("result", string(result)),
	))
}
