// Package app provides application lifecycle management for the source admin server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fedcatalog/source-admin/internal/config"
)

// SourceAdminApp encapsulates all components needed to run the source admin API server.
// It provides lifecycle management and graceful shutdown capabilities.
type SourceAdminApp struct {
	configMu sync.RWMutex
	config   *config.Config

	components    *AppComponents
	configManager config.Manager
	httpServer    *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
	background sync.WaitGroup
}

// Start starts the application components (catalog framework, config watcher
// and HTTP server). It blocks until the HTTP server stops or encounters an error.
func (app *SourceAdminApp) Start() error {
	if app.components.Catalog != nil {
		app.background.Add(1)
		go func() {
			defer app.background.Done()
			if err := app.components.Catalog.Start(app.ctx); err != nil {
				slog.Error("Catalog framework failed", "error", err)
			}
		}()
	}

	if app.configManager != nil {
		app.background.Add(1)
		go func() {
			defer app.background.Done()
			if err := app.configManager.WatchConfig(app.ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Configuration watcher failed", "error", err)
			}
		}()
	}

	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout.
// It stops the catalog framework, unregisters the sources, destroys the
// plugins and then shuts down the HTTP server.
func (app *SourceAdminApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	if app.components.Catalog != nil {
		if err := app.components.Catalog.Stop(); err != nil {
			slog.Error("Failed to stop catalog framework", "error", err)
		}
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}
	if app.configManager != nil {
		if err := app.configManager.Close(); err != nil {
			slog.Error("Failed to close configuration watcher", "error", err)
		}
	}
	app.background.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}

	app.components.Binder.Close()
	if err := app.components.Admin.Close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("failed to close configuration admin: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	slog.Info("Server shutdown complete")
	return nil
}

// Reload seeds the configuration admin from cfg. Catalog and HTTP
// settings only take effect after a restart.
func (app *SourceAdminApp) Reload(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := app.components.Admin.Seed(ctx, cfg); err != nil {
		return fmt.Errorf("failed to seed configurations: %w", err)
	}

	app.configMu.Lock()
	app.config = cfg
	app.configMu.Unlock()

	slog.Info("Configuration reloaded",
		"sources", len(cfg.Sources),
		"configurations", len(cfg.Configurations))
	return nil
}

// GetConfig returns the active application configuration
func (app *SourceAdminApp) GetConfig() *config.Config {
	app.configMu.RLock()
	defer app.configMu.RUnlock()
	return app.config
}

// GetComponents returns the application components
func (app *SourceAdminApp) GetComponents() *AppComponents {
	return app.components
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *SourceAdminApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
