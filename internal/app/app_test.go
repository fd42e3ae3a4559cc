package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedcatalog/source-admin/internal/admin"
	"github.com/fedcatalog/source-admin/internal/config"
	"github.com/fedcatalog/source-admin/internal/plugin"
)

// createTestAppConfig creates a config with one file source and one plain configuration
func createTestAppConfig(t *testing.T, catalogEnabled bool) *config.Config {
	t.Helper()

	return &config.Config{
		Catalog: &config.CatalogConfig{
			Enabled:      &catalogEnabled,
			PollInterval: "1h",
			StatusDir:    t.TempDir(),
		},
		Sources: []config.SourceConfig{
			{ID: "archive", Type: config.SourceTypeFile, File: &config.FileConfig{Path: t.TempDir()}},
		},
		Configurations: []config.ConfigurationEntry{
			{PID: "org.example.logging", Properties: map[string]any{"level": "info"}},
		},
	}
}

func freeAddress(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func startApp(t *testing.T, app *SourceAdminApp) <-chan error {
	t.Helper()

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + app.GetHTTPServer().Addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	return errChan
}

func stopApp(t *testing.T, app *SourceAdminApp, errChan <-chan error) {
	t.Helper()

	require.NoError(t, app.Stop(5*time.Second))

	select {
	case startErr := <-errChan:
		require.NoError(t, startErr)
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after Stop()")
	}
}

func getView(t *testing.T, addr, pid string) admin.ConfigurationView {
	t.Helper()

	resp, err := http.Get("http://" + addr + "/admin/v1/configurations/" + pid)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view admin.ConfigurationView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

func TestSourceAdminApp_StartStop_CatalogEnabled(t *testing.T) {
	t.Parallel()

	addr := freeAddress(t)
	app, err := NewSourceAdminApp(context.Background(),
		WithConfig(createTestAppConfig(t, true)),
		WithAddress(addr),
	)
	require.NoError(t, err)

	errChan := startApp(t, app)

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/readiness")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	view := getView(t, addr, "federated.source.file.archive")
	assert.Equal(t, true, view.Data[plugin.AvailableKey])

	plain := getView(t, addr, "org.example.logging")
	assert.Empty(t, plain.Data)

	resp, err := http.Get("http://" + addr + "/catalog/v1/sources?enterprise=true")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stopApp(t, app, errChan)
	assert.Empty(t, app.GetComponents().Binder.Bound())
	assert.False(t, app.GetComponents().Catalog.Ready())
}

func TestSourceAdminApp_StartStop_CatalogDisabled(t *testing.T) {
	t.Parallel()

	addr := freeAddress(t)
	app, err := NewSourceAdminApp(context.Background(),
		WithConfig(createTestAppConfig(t, false)),
		WithAddress(addr),
	)
	require.NoError(t, err)
	assert.Nil(t, app.GetComponents().Catalog)

	errChan := startApp(t, app)

	view := getView(t, addr, "federated.source.file.archive")
	assert.Equal(t, true, view.Data[plugin.AvailableKey])

	resp, err := http.Get("http://" + addr + "/catalog/v1/sources")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	stopApp(t, app, errChan)
}

func TestSourceAdminApp_StartPortInUse(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	app, err := NewSourceAdminApp(context.Background(),
		WithConfig(createTestAppConfig(t, false)),
		WithAddress(listener.Addr().String()),
	)
	require.NoError(t, err)

	err = app.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP server failed")
}

func TestSourceAdminApp_Reload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := createTestAppConfig(t, false)
	app, err := NewSourceAdminApp(ctx, WithConfig(cfg), WithAddress("127.0.0.1:0"))
	require.NoError(t, err)
	assert.Equal(t, []string{"federated.source.file.archive"}, app.GetComponents().Binder.Bound())

	reloaded := &config.Config{
		Catalog: cfg.Catalog,
		Sources: []config.SourceConfig{
			{ID: "spool", Type: config.SourceTypeFile, File: &config.FileConfig{Path: t.TempDir()}},
		},
	}
	require.NoError(t, app.Reload(ctx, reloaded))

	assert.Equal(t, []string{"federated.source.file.spool"}, app.GetComponents().Binder.Bound())
	assert.Same(t, reloaded, app.GetConfig())

	_, err = app.GetComponents().Admin.Get(ctx, "org.example.logging")
	assert.ErrorIs(t, err, admin.ErrConfigurationNotFound)

	require.Error(t, app.Reload(ctx, nil))
}
