package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"sigs.k8s.io/controller-runtime/pkg/client"

	adminapp "github.com/fedcatalog/source-admin/internal/app"
	"github.com/fedcatalog/source-admin/internal/config"
	"github.com/fedcatalog/source-admin/internal/kubernetes"
	"github.com/fedcatalog/source-admin/internal/telemetry"
)

const (
	defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the source admin API server",
		Long: `Start the source admin API server.

The server requires a configuration file (--config) that specifies:
- Federated sources (HTTP, Git, file, PostgreSQL or ConfigMap)
- Catalog framework polling settings
- Additional configurations and telemetry settings

The file is watched and reloaded when it changes.
See examples/ directory for a sample configuration.`,
		RunE: runServe,
	}

	serveCmd.Flags().String("address", "", "Address to listen on (defaults to the config file address or :8080)")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	serveCmd.Flags().String("kubeconfig", "", "Path to a kubeconfig file for ConfigMap sources")

	for _, name := range []string{"address", "config", "kubeconfig"} {
		if err := viper.BindPFlag(name, serveCmd.Flags().Lookup(name)); err != nil {
			slog.Error("Failed to bind flag", "flag", name, "error", err)
		}
	}

	return serveCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	applyDebugLevel()

	configPath := viper.GetString("config")
	if configPath == "" {
		return fmt.Errorf("--config is required")
	}

	manager, err := config.NewManager(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := manager.GetConfig()
	slog.Info("Loaded configuration",
		"path", configPath,
		"sources", len(cfg.Sources),
		"configurations", len(cfg.Configurations),
		"catalog_enabled", cfg.Catalog.IsEnabled())

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown telemetry", "error", err)
		}
	}()

	opts := []adminapp.SourceAdminAppOptions{
		adminapp.WithConfigManager(manager),
		adminapp.WithMeterProvider(tel.MeterProvider()),
		adminapp.WithTracerProvider(tel.TracerProvider()),
		adminapp.WithMetricsHandler(tel.MetricsHandler()),
	}
	if address := viper.GetString("address"); address != "" {
		opts = append(opts, adminapp.WithAddress(address))
	}
	if k8sClient := getKubernetesClient(viper.GetString("kubeconfig")); k8sClient != nil {
		opts = append(opts, adminapp.WithKubernetesClient(k8sClient))
	}

	application, err := adminapp.NewSourceAdminApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = application.Stop(defaultGracefulTimeout)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	return application.Stop(defaultGracefulTimeout)
}

// applyDebugLevel lowers LogLevel to debug when --debug is set
func applyDebugLevel() {
	if viper.GetBool("debug") {
		LogLevel.Set(slog.LevelDebug)
	}
}

// getKubernetesClient returns a cluster client, or nil when no cluster is reachable.
// ConfigMap sources report themselves unavailable without one.
func getKubernetesClient(kubeconfig string) client.Client {
	var opts []kubernetes.Option
	if kubeconfig != "" {
		opts = append(opts, kubernetes.WithKubeconfig(kubeconfig))
	}

	c, err := kubernetes.NewClient(opts...)
	if err != nil {
		slog.Warn("Kubernetes client not available, ConfigMap sources will be unavailable", "error", err)
		return nil
	}
	return c
}
