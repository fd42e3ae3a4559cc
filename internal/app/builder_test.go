package app

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/fedcatalog/source-admin/internal/config"
	"github.com/fedcatalog/source-admin/internal/sources"
	sourcemocks "github.com/fedcatalog/source-admin/internal/sources/mocks"
	statusmocks "github.com/fedcatalog/source-admin/internal/status/mocks"
)

func TestWithAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{name: "port only", addr: ":8080"},
		{name: "localhost", addr: "localhost:8080"},
		{name: "ip and port", addr: "127.0.0.1:9090"},
		{name: "empty", addr: "", wantErr: true},
		{name: "missing port", addr: "127.0.0.1:", wantErr: true},
		{name: "no colon", addr: "8080", wantErr: true},
		{name: "invalid port", addr: ":http-alt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &sourceAdminAppConfig{}
			err := WithAddress(tt.addr)(cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, cfg.address)
		})
	}
}

func TestBaseConfig(t *testing.T) {
	t.Parallel()

	_, err := baseConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config cannot be nil")

	cfg, err := baseConfig(WithConfig(&config.Config{}))
	require.NoError(t, err)
	assert.Equal(t, defaultHTTPAddress, cfg.address)
	assert.Equal(t, defaultRequestTimeout, cfg.requestTimeout)

	cfg, err = baseConfig(WithConfig(&config.Config{Address: ":9000"}))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.address)

	cfg, err = baseConfig(WithConfig(&config.Config{Address: ":9000"}), WithAddress(":9100"))
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.address)

	_, err = baseConfig(WithConfigManager(nil))
	require.Error(t, err)
}

func TestNewSourceAdminApp_InjectedComponents(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	factory := sourcemocks.NewMockSourceFactory(ctrl)
	persistence := statusmocks.NewMockStatusPersistence(ctrl)

	src, err := sources.NewFileSource(&config.SourceConfig{
		ID: "archive", Type: config.SourceTypeFile, File: &config.FileConfig{Path: t.TempDir()},
	})
	require.NoError(t, err)
	factory.EXPECT().Create(config.SourceTypeFile, gomock.Any()).Return(src, nil)

	cfg := createTestAppConfig(t, true)
	app, err := NewSourceAdminApp(context.Background(),
		WithConfig(cfg),
		WithAddress("127.0.0.1:0"),
		WithSourceFactory(factory),
		WithStatusPersistence(persistence),
		WithMeterProvider(sdkmetric.NewMeterProvider()),
		WithMetricsHandler(http.NotFoundHandler()),
		WithMiddlewares(),
	)
	require.NoError(t, err)

	components := app.GetComponents()
	require.NotNil(t, components.Catalog)
	assert.Same(t, components.Catalog, components.Plugin.CatalogFramework())
	assert.Equal(t, []string{"federated.source.file.archive"}, components.Binder.Bound())
	assert.Equal(t, "127.0.0.1:0", app.GetHTTPServer().Addr)
	assert.Same(t, cfg, app.GetConfig())
}

func TestNewSourceAdminApp_InvalidSeed(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Sources: []config.SourceConfig{{ID: "broken", Type: config.SourceTypeFile}},
	}
	_, err := NewSourceAdminApp(context.Background(), WithConfig(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed configurations")
}
