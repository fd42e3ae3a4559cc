package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManualProvider(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %s not found", name)
	return metricdata.Metrics{}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	t.Parallel()

	sourceMetrics, err := NewSourceMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, sourceMetrics)

	lookupMetrics, err := NewLookupMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, lookupMetrics)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		sourceMetrics.RecordAvailability(ctx, "a", "http", true)
		sourceMetrics.RecordCheckDuration(ctx, "http", time.Second, true)
		lookupMetrics.RecordLookup(ctx, "catalog", LookupAvailable)
	})
}

func TestSourceMetrics_RecordAvailability(t *testing.T) {
	t.Parallel()

	mp, reader := newManualProvider(t)
	metrics, err := NewSourceMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordAvailability(ctx, "remote", "http", true)
	metrics.RecordAvailability(ctx, "archive", "file", false)

	m := collectMetric(t, reader, "source_admin_source_available")
	gauge, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 2)

	values := map[string]int64{}
	for _, dp := range gauge.DataPoints {
		source, _ := dp.Attributes.Value(attribute.Key("source"))
		values[source.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"remote": 1, "archive": 0}, values)
}

func TestSourceMetrics_RecordCheckDuration(t *testing.T) {
	t.Parallel()

	mp, reader := newManualProvider(t)
	metrics, err := NewSourceMetrics(mp)
	require.NoError(t, err)

	metrics.RecordCheckDuration(context.Background(), "git", 250*time.Millisecond, false)

	m := collectMetric(t, reader, "source_admin_check_duration_seconds")
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 0.25, hist.DataPoints[0].Sum, 0.001)

	success, _ := hist.DataPoints[0].Attributes.Value(attribute.Key("success"))
	assert.False(t, success.AsBool())
}

func TestLookupMetrics_RecordLookup(t *testing.T) {
	t.Parallel()

	mp, reader := newManualProvider(t)
	metrics, err := NewLookupMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordLookup(ctx, "catalog", LookupAvailable)
	metrics.RecordLookup(ctx, "catalog", LookupAvailable)
	metrics.RecordLookup(ctx, "", LookupNoMatch)

	m := collectMetric(t, reader, "source_admin_availability_lookups_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		result, _ := dp.Attributes.Value(attribute.Key("result"))
		counts[result.AsString()] = dp.Value
	}
	assert.Equal(t, int64(2), counts[string(LookupAvailable)])
	assert.Equal(t, int64(1), counts[string(LookupNoMatch)])
}
