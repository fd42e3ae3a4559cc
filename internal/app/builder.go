package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/fedcatalog/source-admin/internal/admin"
	"github.com/fedcatalog/source-admin/internal/api"
	"github.com/fedcatalog/source-admin/internal/catalog"
	"github.com/fedcatalog/source-admin/internal/config"
	"github.com/fedcatalog/source-admin/internal/plugin"
	"github.com/fedcatalog/source-admin/internal/registry"
	"github.com/fedcatalog/source-admin/internal/sources"
	"github.com/fedcatalog/source-admin/internal/status"
	"github.com/fedcatalog/source-admin/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second

	tracerName = "github.com/fedcatalog/source-admin"
)

// SourceAdminAppOptions is a function that configures the source admin app builder
type SourceAdminAppOptions func(*sourceAdminAppConfig) error

// sourceAdminAppConfig holds the builder state.
// It supports dependency injection for testing while providing sensible defaults for production.
type sourceAdminAppConfig struct {
	config        *config.Config
	configManager config.Manager

	// Optional component overrides (primarily for testing)
	sourceFactory     sources.SourceFactory
	statusPersistence status.StatusPersistence
	k8sClient         client.Client

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...SourceAdminAppOptions) (*sourceAdminAppConfig, error) {
	cfg := &sourceAdminAppConfig{
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil && cfg.configManager != nil {
		cfg.config = cfg.configManager.GetConfig()
	}
	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if cfg.address == "" {
		cfg.address = cfg.config.Address
	}
	if cfg.address == "" {
		cfg.address = defaultHTTPAddress
	}

	return cfg, nil
}

// NewSourceAdminApp builds the application from the given options
func NewSourceAdminApp(
	ctx context.Context,
	opts ...SourceAdminAppOptions,
) (*SourceAdminApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	components, err := buildComponents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build components: %w", err)
	}

	// Seed before serving so the first request sees the configured sources
	if err := components.Admin.Seed(ctx, cfg.config); err != nil {
		components.Binder.Close()
		return nil, fmt.Errorf("failed to seed configurations: %w", err)
	}

	httpServer, err := buildHTTPServer(ctx, cfg, components)
	if err != nil {
		components.Binder.Close()
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	app := &SourceAdminApp{
		config:        cfg.config,
		components:    components,
		configManager: cfg.configManager,
		httpServer:    httpServer,
		ctx:           appCtx,
		cancelFunc:    cancel,
	}

	if cfg.configManager != nil {
		cfg.configManager.OnChange(func(c *config.Config) {
			if err := app.Reload(appCtx, c); err != nil {
				slog.Error("Failed to apply reloaded configuration", "error", err)
			}
		})
	}

	return app, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) SourceAdminAppOptions {
	return func(cfg *sourceAdminAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithConfigManager sets the configuration manager. Reloaded configurations
// are seeded into the configuration admin while the app runs.
func WithConfigManager(m config.Manager) SourceAdminAppOptions {
	return func(cfg *sourceAdminAppConfig) error {
		if m == nil {
			return fmt.Errorf("config manager cannot be nil")
		}
		cfg.configManager = m
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) SourceAdminAppOptions {
	return func(cfg *sourceAdminAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		parts := strings.SplitN(addr, ":", 2)
		if len(parts) != 2 || parts[1] == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		host, port := parts[0], parts[1]
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) SourceAdminAppOptions {
	return func(cfg *sourceAdminAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithSourceFactory allows injecting a custom source factory (for testing)
func WithSourceFactory(f sources.SourceFactory) SourceAdminAppOptions {
	return func(cfg *sourceAdminAppConfig) error {
		cfg.sourceFactory = f
		return nil
	}
}

// WithStatusPersistence allows injecting a custom status store for the catalog framework
func WithStatusPersistence(p status.StatusPersistence) SourceAdminAppOptions {
	return func(cfg *sourceAdminAppConfig) error {
		cfg.statusPersistence = p
		return nil
	}
}

// WithKubernetesClient sets the cluster client used by ConfigMap sources
func WithKubernetesClient(c client.Client) SourceAdminAppOptions {
	return func(cfg *sourceAdminAppConfig) error {
		cfg.k8sClient = c
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for HTTP, source and lookup metrics
func WithMeterProvider(mp metric.MeterProvider) SourceAdminAppOptions {
	return func(cfg *sourceAdminAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider for HTTP, poll and lookup spans
func WithTracerProvider(tp trace.TracerProvider) SourceAdminAppOptions {
	return func(cfg *sourceAdminAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler mounts h at /metrics
func WithMetricsHandler(h http.Handler) SourceAdminAppOptions {
	return func(cfg *sourceAdminAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildComponents wires the registry, binder, configuration admin,
// catalog framework and source configuration plugin
func buildComponents(ctx context.Context, b *sourceAdminAppConfig) (*AppComponents, error) {
	slog.Info("Initializing components")

	reg := registry.New()

	if b.sourceFactory == nil {
		var factoryOpts []sources.FactoryOption
		if b.k8sClient != nil {
			factoryOpts = append(factoryOpts, sources.WithKubernetesClient(b.k8sClient))
		}
		b.sourceFactory = sources.NewFactory(factoryOpts...)
	}
	binder := sources.NewBinder(reg, b.sourceFactory)

	adminSvc := admin.New(reg)
	adminSvc.Subscribe(bindSources(binder))

	if b.tracerProvider == nil {
		b.tracerProvider = noop.NewTracerProvider()
	}
	tracer := b.tracerProvider.Tracer(tracerName)

	lookupMetrics, err := telemetry.NewLookupMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup metrics: %w", err)
	}

	components := &AppComponents{
		Registry: reg,
		Binder:   binder,
		Admin:    adminSvc,
	}

	pluginOpts := []plugin.Option{
		plugin.WithTracer(tracer),
		plugin.WithLookupMetrics(lookupMetrics),
	}

	catalogCfg := b.config.Catalog
	if catalogCfg.IsEnabled() {
		sourceMetrics, err := telemetry.NewSourceMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create source metrics: %w", err)
		}

		persistence := b.statusPersistence
		if persistence == nil {
			persistence = status.NewFileStatusPersistence(catalogCfg.GetStatusDir())
		}

		components.Catalog = catalog.NewFromConfig(reg, catalogCfg,
			catalog.WithStatusPersistence(persistence),
			catalog.WithSourceMetrics(sourceMetrics),
			catalog.WithTracer(tracer),
		)
		pluginOpts = append(pluginOpts, plugin.WithCatalogFramework(components.Catalog))
		slog.Info("Catalog framework enabled", "local_source_id", components.Catalog.LocalSourceID())
	} else {
		slog.Info("Catalog framework disabled, availability is checked on each source")
	}

	components.Plugin = plugin.NewSourceConfigurationPlugin(pluginOpts...)
	if err := adminSvc.AddPlugin(ctx, components.Plugin); err != nil {
		return nil, fmt.Errorf("failed to add source configuration plugin: %w", err)
	}

	slog.Info("Components initialized successfully")
	return components, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
//
//nolint:unparam // we prefer having a similar interface
func buildHTTPServer(
	_ context.Context,
	b *sourceAdminAppConfig,
	components *AppComponents,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	// Use default middlewares if not provided
	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	b.middlewares = append([]func(http.Handler) http.Handler{
		telemetry.TracingMiddleware(b.tracerProvider),
	}, b.middlewares...)

	// Metrics go first to capture every request
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			b.middlewares = append([]func(http.Handler) http.Handler{metricsMiddleware}, b.middlewares...)
			slog.Info("HTTP metrics middleware enabled")
		}
	}

	deps := api.Dependencies{Admin: components.Admin}
	// Assigning a nil *DefaultFramework would yield non-nil interfaces
	if components.Catalog != nil {
		deps.Catalog = components.Catalog
		deps.Readiness = components.Catalog
	}

	serverOpts := []api.ServerOption{api.WithMiddlewares(b.middlewares...)}
	if b.metricsHandler != nil {
		serverOpts = append(serverOpts, api.WithMetricsHandler(b.metricsHandler))
	}
	router := api.NewServer(deps, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
