package plugin

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/fedcatalog/source-admin/internal/catalog"
	"github.com/fedcatalog/source-admin/internal/otel"
	"github.com/fedcatalog/source-admin/internal/registry"
	"github.com/fedcatalog/source-admin/internal/sources"
	"github.com/fedcatalog/source-admin/internal/telemetry"
)

const (
	// AvailableKey is the view entry holding the availability of a source configuration
	AvailableKey = "available"

	lookupPathCatalog = "catalog"
	lookupPathDirect  = "direct"
)

// SourceConfigurationPlugin adds the availability of the federated source
// created from a configuration to the configuration's admin view.
// When a catalog framework is set the availability is taken from its
// enterprise source descriptors, otherwise the source is asked directly.
type SourceConfigurationPlugin struct {
	mu        sync.RWMutex
	framework catalog.Framework

	tracer  trace.Tracer
	metrics *telemetry.LookupMetrics
}

var (
	_ ConfigurationAdminPlugin = (*SourceConfigurationPlugin)(nil)
	_ Lifecycle                = (*SourceConfigurationPlugin)(nil)
)

// Option configures a SourceConfigurationPlugin
type Option func(*SourceConfigurationPlugin)

// WithCatalogFramework sets the catalog framework queried for descriptors
func WithCatalogFramework(framework catalog.Framework) Option {
	return func(p *SourceConfigurationPlugin) {
		p.framework = framework
	}
}

// WithTracer sets the tracer used for lookup spans
func WithTracer(tracer trace.Tracer) Option {
	return func(p *SourceConfigurationPlugin) {
		p.tracer = tracer
	}
}

// WithLookupMetrics sets the metrics recorded for every lookup
func WithLookupMetrics(metrics *telemetry.LookupMetrics) Option {
	return func(p *SourceConfigurationPlugin) {
		p.metrics = metrics
	}
}

// NewSourceConfigurationPlugin creates the plugin
func NewSourceConfigurationPlugin(opts ...Option) *SourceConfigurationPlugin {
	p := &SourceConfigurationPlugin{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CatalogFramework returns the catalog framework, or nil when none is set
func (p *SourceConfigurationPlugin) CatalogFramework() catalog.Framework {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.framework
}

// SetCatalogFramework sets or clears (nil) the catalog framework
func (p *SourceConfigurationPlugin) SetCatalogFramework(framework catalog.Framework) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.framework = framework
}

// Init does nothing
func (*SourceConfigurationPlugin) Init(context.Context) error {
	return nil
}

// Destroy does nothing
func (*SourceConfigurationPlugin) Destroy(context.Context) error {
	return nil
}

// ConfigurationData reports whether the federated source configured by pid is
// available. The result holds AvailableKey only when a registered source
// matches pid and its availability could be determined.
func (p *SourceConfigurationPlugin) ConfigurationData(
	ctx context.Context,
	pid string,
	_ map[string]any,
	lookup registry.Lookup,
) map[string]any {
	data := make(map[string]any)

	ctx, span := otel.StartSpan(ctx, p.tracer, "plugin.SourceConfigurationPlugin.ConfigurationData",
		trace.WithAttributes(otel.AttrConfigurationPID.String(pid)),
	)
	defer span.End()

	framework := p.CatalogFramework()
	path := lookupPathDirect
	if framework != nil {
		path = lookupPathCatalog
	}
	span.SetAttributes(otel.AttrLookupPath.String(path))

	refs, err := lookup.AllServiceReferences(sources.FederatedSourceInterface, "")
	if err != nil {
		if errors.Is(err, registry.ErrInvalidFilter) {
			slog.Error("Invalid federated source filter", "pid", pid, "error", err)
		} else {
			slog.Error("Failed to look up federated sources", "pid", pid, "error", err)
		}
		otel.RecordError(span, err)
		p.metrics.RecordLookup(ctx, path, telemetry.LookupError)
		return data
	}

	matched := false
	for _, ref := range refs {
		svc := lookup.Service(ref)
		source, ok := svc.(sources.FederatedSource)
		if !ok {
			continue
		}
		configured, ok := svc.(sources.ConfiguredService)
		if !ok {
			continue
		}
		servicePID := configured.ConfigurationPID()
		if servicePID == "" || servicePID != pid {
			continue
		}

		matched = true
		span.SetAttributes(
			otel.AttrSourceID.String(source.ID()),
			otel.AttrSourceType.String(ref.Property(sources.PropSourceType)),
		)

		if framework == nil {
			data[AvailableKey] = source.IsAvailable(ctx)
			continue
		}

		if err := p.fromCatalog(ctx, framework, source.ID(), data); err != nil {
			slog.Error("Unable to determine federated source availability",
				"pid", pid,
				"source", source.ID(),
				"error", err)
			otel.RecordError(span, err)
			p.metrics.RecordLookup(ctx, path, telemetry.LookupError)
			return data
		}
	}

	p.recordResult(ctx, span, path, matched, data)
	return data
}

// fromCatalog sets AvailableKey from the enterprise descriptors of sourceID
func (*SourceConfigurationPlugin) fromCatalog(
	ctx context.Context,
	framework catalog.Framework,
	sourceID string,
	data map[string]any,
) error {
	resp, err := framework.SourceInfo(ctx, &catalog.SourceInfoRequest{Enterprise: true})
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	for _, descriptor := range resp.Descriptors {
		if descriptor.SourceID == sourceID {
			data[AvailableKey] = descriptor.Available
		}
	}
	return nil
}

func (p *SourceConfigurationPlugin) recordResult(
	ctx context.Context,
	span trace.Span,
	path string,
	matched bool,
	data map[string]any,
) {
	result := telemetry.LookupNoMatch
	if available, ok := data[AvailableKey].(bool); ok {
		span.SetAttributes(otel.AttrAvailable.Bool(available))
		result = telemetry.LookupUnavailable
		if available {
			result = telemetry.LookupAvailable
		}
	} else if matched {
		slog.Debug("No descriptor reported for matching source", "path", path)
	}
	p.metrics.RecordLookup(ctx, path, result)
}
