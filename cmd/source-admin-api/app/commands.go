// Package app provides the entry point for the federated source admin API application.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fedcatalog/source-admin/internal/config"
	"github.com/fedcatalog/source-admin/internal/versions"
)

// LogLevel is the level of the process log handler. main sets it from the
// environment; --debug lowers it.
var LogLevel = new(slog.LevelVar)

// NewRootCmd creates a new root command for the source admin API.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "source-admin-api",
		DisableAutoGenTag: true,
		Short:             "Federated source admin API server",
		Long: `Federated source admin API server manages federated source configurations
and reports whether each configured source is available.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				slog.Error("Error displaying help", "error", err)
			}
		},
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		slog.Error("Error binding debug flag", "error", err)
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}

			if format == "json" {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to format version info as JSON: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return err
			}

			slog.Info("source-admin-api version",
				"version", info.Version,
				"commit", info.Commit,
				"built", info.BuildDate,
				"go", info.GoVersion,
				"platform", info.Platform)
			return nil
		},
	}
	versionCmd.Flags().String("format", "", "Output format (json)")
	return versionCmd
}
