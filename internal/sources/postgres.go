package sources

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/fedcatalog/source-admin/internal/config"
)

// PostgresSource is a federated source backed by a PostgreSQL database
type PostgresSource struct {
	baseSource
	database *config.DatabaseConfig
}

var _ Source = (*PostgresSource)(nil)

// NewPostgresSource creates a PostgreSQL source from a validated source configuration
func NewPostgresSource(src *config.SourceConfig) (*PostgresSource, error) {
	if src.Postgres == nil {
		return nil, fmt.Errorf("postgres configuration is required for source type %s", config.SourceTypePostgres)
	}

	return &PostgresSource{
		baseSource: newBaseSource(src.ID, config.SourceTypePostgres, src.Title, src.Version),
		database:   src.Postgres,
	}, nil
}

// Check opens a connection and pings the server. Connection strings are
// rebuilt on every check so that rotated password files are picked up.
func (s *PostgresSource) Check(ctx context.Context) error {
	connString, err := s.database.GetConnectionString()
	if err != nil {
		return fmt.Errorf("postgres source %s: %w", s.id, err)
	}

	connConfig, err := pgx.ParseConfig(connString)
	if err != nil {
		// the parse error may echo the connection string, password included
		return fmt.Errorf("postgres source %s: invalid connection settings", s.id)
	}

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return fmt.Errorf("postgres source %s: failed to connect to database: %w", s.id, err)
	}
	defer func() {
		if closeErr := conn.Close(context.WithoutCancel(ctx)); closeErr != nil {
			slog.Debug("Error closing database connection", "source", s.id, "error", closeErr)
		}
	}()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("postgres source %s: ping failed: %w", s.id, err)
	}
	return nil
}

// IsAvailable reports whether the database accepts connections
func (s *PostgresSource) IsAvailable(ctx context.Context) bool {
	return s.Check(ctx) == nil
}
