// Package config provides configuration loading and management for the source admin server.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fedcatalog/source-admin/internal/telemetry"
)

// EnvPrefix is the prefix for environment variables read by the server
const EnvPrefix = "SOURCE_ADMIN"

const (
	// SourceTypeHTTP is the type for federated sources reached over HTTP(S)
	SourceTypeHTTP = "http"

	// SourceTypeGit is the type for federated sources backed by Git repositories
	SourceTypeGit = "git"

	// SourceTypeFile is the type for federated sources on the local filesystem
	SourceTypeFile = "file"

	// SourceTypePostgres is the type for federated sources backed by PostgreSQL
	SourceTypePostgres = "postgres"

	// SourceTypeConfigMap is the type for federated sources stored in Kubernetes ConfigMaps
	SourceTypeConfigMap = "configmap"
)

// factoryPIDPrefix prefixes the factory PID of every federated source kind
const factoryPIDPrefix = "federated.source."

const (
	defaultPollInterval        = time.Minute
	defaultCheckTimeout        = 10 * time.Second
	defaultMaxAttempts         = 2
	defaultMaxConcurrentChecks = 8
	defaultLocalSourceID       = "local"
	defaultStatusDir           = "./data/status"
)

// sourceIDPattern restricts source identifiers to values that are safe as
// file names and URL path segments.
var sourceIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Address is the HTTP listen address. The --address flag takes precedence.
	Address string `yaml:"address,omitempty"`

	// Catalog configures the catalog framework that tracks source availability
	Catalog *CatalogConfig `yaml:"catalog,omitempty"`

	// Sources are the federated sources seeded into the configuration admin
	Sources []SourceConfig `yaml:"sources,omitempty"`

	// Configurations are additional, non-source configurations
	Configurations []ConfigurationEntry `yaml:"configurations,omitempty"`

	// Telemetry configures OpenTelemetry tracing and metrics
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// CatalogConfig defines the catalog framework settings
type CatalogConfig struct {
	// Enabled controls whether the catalog framework runs. When disabled,
	// availability is obtained by asking each source directly.
	// Defaults to true.
	Enabled *bool `yaml:"enabled,omitempty"`

	// PollInterval is how often source availability is refreshed (e.g., "30s", "5m")
	PollInterval string `yaml:"pollInterval,omitempty"`

	// CheckTimeout bounds a single availability check
	CheckTimeout string `yaml:"checkTimeout,omitempty"`

	// MaxAttempts is the number of tries per availability check
	MaxAttempts int `yaml:"maxAttempts,omitempty"`

	// MaxConcurrentChecks limits parallel availability checks during a poll
	MaxConcurrentChecks int `yaml:"maxConcurrentChecks,omitempty"`

	// LocalSourceID is the identifier reported for the local catalog
	LocalSourceID string `yaml:"localSourceId,omitempty"`

	// StatusDir is where the last known source status is persisted
	StatusDir string `yaml:"statusDir,omitempty"`
}

// SourceConfig defines a single federated source
type SourceConfig struct {
	// ID is the source identifier reported in source descriptors
	ID string `yaml:"id"`

	// PID overrides the configuration PID. Defaults to "<factoryPid>.<id>".
	PID string `yaml:"pid,omitempty"`

	// Type is the source kind (http, git, file, postgres, configmap)
	Type string `yaml:"type"`

	// Title is a human readable name for the source
	Title string `yaml:"title,omitempty"`

	// Version is the version advertised by the source, if known
	Version string `yaml:"version,omitempty"`

	// Type-specific configurations (only the one matching Type should be set)
	HTTP      *HTTPConfig      `yaml:"http,omitempty"`
	Git       *GitConfig       `yaml:"git,omitempty"`
	File      *FileConfig      `yaml:"file,omitempty"`
	Postgres  *DatabaseConfig  `yaml:"postgres,omitempty"`
	ConfigMap *ConfigMapConfig `yaml:"configMap,omitempty"`
}

// HTTPConfig defines HTTP source settings
type HTTPConfig struct {
	// Endpoint is the base URL of the remote source
	Endpoint string `yaml:"endpoint"`

	// PingPath is appended to Endpoint for availability checks
	PingPath string `yaml:"pingPath,omitempty"`
}

// GitConfig defines Git source settings
type GitConfig struct {
	// Repository is the Git repository URL
	Repository string `yaml:"repository"`

	// Branch, when set, must exist on the remote for the source to be available
	Branch string `yaml:"branch,omitempty"`

	// Username for HTTP basic authentication
	Username string `yaml:"username,omitempty"`

	// PasswordFile is a file holding the password or token for basic authentication
	PasswordFile string `yaml:"passwordFile,omitempty"`
}

// FileConfig defines local file source settings
type FileConfig struct {
	// Path is a file or directory that must be readable
	Path string `yaml:"path"`
}

// ConfigMapConfig defines Kubernetes ConfigMap source settings
type ConfigMapConfig struct {
	Namespace string `yaml:"namespace"`
	Name      string `yaml:"name"`

	// Key, when set, must be present in the ConfigMap data
	Key string `yaml:"key,omitempty"`
}

// DatabaseConfig defines PostgreSQL connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`
}

// ConfigurationEntry is a configuration that is not a federated source
type ConfigurationEntry struct {
	PID        string         `yaml:"pid"`
	FactoryPID string         `yaml:"factoryPid,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from SOURCE_ADMIN_DATABASE_PASSWORD environment variable
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(EnvPrefix + "_DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s_DATABASE_PASSWORD environment variable", EnvPrefix,
	)
}

// GetConnectionString builds a PostgreSQL connection string.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	), nil
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates configuration from YAML bytes
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := c.Catalog.validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	ids := make(map[string]bool)
	pids := make(map[string]bool)
	for i := range c.Sources {
		src := &c.Sources[i]
		if err := ValidateSource(src); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
		if ids[src.ID] {
			return fmt.Errorf("sources[%d]: duplicate source id '%s'", i, src.ID)
		}
		ids[src.ID] = true

		pid := src.GetPID()
		if pids[pid] {
			return fmt.Errorf("sources[%d]: duplicate pid '%s'", i, pid)
		}
		pids[pid] = true
	}

	for i, entry := range c.Configurations {
		if entry.PID == "" {
			return fmt.Errorf("configurations[%d]: pid is required", i)
		}
		if pids[entry.PID] {
			return fmt.Errorf("configurations[%d]: duplicate pid '%s'", i, entry.PID)
		}
		pids[entry.PID] = true
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}

// ValidateSource validates a single source definition
func ValidateSource(src *SourceConfig) error {
	if src.ID == "" {
		return fmt.Errorf("id is required")
	}
	if !sourceIDPattern.MatchString(src.ID) {
		return fmt.Errorf("id '%s' may only contain letters, digits, '.', '_' and '-'", src.ID)
	}

	prefix := fmt.Sprintf("source '%s'", src.ID)

	if err := validateSourceTypeCount(src, prefix); err != nil {
		return err
	}

	return validateSourceSpecificConfig(src, prefix)
}

// validateSourceTypeCount ensures exactly one type block is configured and it matches Type
func validateSourceTypeCount(src *SourceConfig, prefix string) error {
	configured := src.configuredTypes()
	if len(configured) == 0 {
		return fmt.Errorf("%s: one of http, git, file, postgres or configMap configuration must be specified", prefix)
	}
	if len(configured) > 1 {
		return fmt.Errorf("%s: only one of http, git, file, postgres or configMap configuration may be specified", prefix)
	}

	if src.Type == "" {
		src.Type = configured[0]
	}
	if !IsSourceType(src.Type) {
		return fmt.Errorf("%s: unsupported source type '%s'", prefix, src.Type)
	}
	if src.Type != configured[0] {
		return fmt.Errorf("%s: type is '%s' but %s configuration is specified", prefix, src.Type, configured[0])
	}

	return nil
}

// validateSourceSpecificConfig validates the configuration for each source type
func validateSourceSpecificConfig(src *SourceConfig, prefix string) error {
	switch src.Type {
	case SourceTypeHTTP:
		endpoint, err := url.Parse(src.HTTP.Endpoint)
		if src.HTTP.Endpoint == "" || err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
			return fmt.Errorf("%s: http.endpoint must be an absolute URL", prefix)
		}
	case SourceTypeGit:
		if src.Git.Repository == "" {
			return fmt.Errorf("%s: git.repository is required", prefix)
		}
		if src.Git.PasswordFile != "" && src.Git.Username == "" {
			return fmt.Errorf("%s: git.username is required when git.passwordFile is set", prefix)
		}
	case SourceTypeFile:
		if src.File.Path == "" {
			return fmt.Errorf("%s: file.path is required", prefix)
		}
	case SourceTypePostgres:
		return validateDatabaseConfig(src.Postgres, prefix)
	case SourceTypeConfigMap:
		if src.ConfigMap.Name == "" {
			return fmt.Errorf("%s: configMap.name is required", prefix)
		}
		if src.ConfigMap.Namespace == "" {
			return fmt.Errorf("%s: configMap.namespace is required", prefix)
		}
	}
	return nil
}

// validateDatabaseConfig validates PostgreSQL connection settings
func validateDatabaseConfig(db *DatabaseConfig, prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s: postgres.host is required", prefix)
	}
	if db.Port <= 0 || db.Port > 65535 {
		return fmt.Errorf("%s: postgres.port must be between 1 and 65535", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s: postgres.user is required", prefix)
	}
	if db.Database == "" {
		return fmt.Errorf("%s: postgres.database is required", prefix)
	}
	switch db.SSLMode {
	case "", "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("%s: postgres.sslMode '%s' is not supported", prefix, db.SSLMode)
	}
	return nil
}

// configuredTypes lists the type blocks that are set on the source
func (src *SourceConfig) configuredTypes() []string {
	var types []string
	if src.HTTP != nil {
		types = append(types, SourceTypeHTTP)
	}
	if src.Git != nil {
		types = append(types, SourceTypeGit)
	}
	if src.File != nil {
		types = append(types, SourceTypeFile)
	}
	if src.Postgres != nil {
		types = append(types, SourceTypePostgres)
	}
	if src.ConfigMap != nil {
		types = append(types, SourceTypeConfigMap)
	}
	return types
}

// GetPID returns the configuration PID of the source
func (src *SourceConfig) GetPID() string {
	if src.PID != "" {
		return src.PID
	}
	return FactoryPID(src.Type) + "." + src.ID
}

// IsSourceType reports whether kind is a supported federated source type
func IsSourceType(kind string) bool {
	switch kind {
	case SourceTypeHTTP, SourceTypeGit, SourceTypeFile, SourceTypePostgres, SourceTypeConfigMap:
		return true
	}
	return false
}

// FactoryPID returns the configuration admin factory PID for a source type
func FactoryPID(kind string) string {
	return factoryPIDPrefix + kind
}

// SourceTypeFromFactoryPID returns the source type managed by a factory PID
func SourceTypeFromFactoryPID(factoryPID string) (string, bool) {
	kind, ok := strings.CutPrefix(factoryPID, factoryPIDPrefix)
	if !ok || !IsSourceType(kind) {
		return "", false
	}
	return kind, true
}

// IsEnabled reports whether the catalog framework should run
func (c *CatalogConfig) IsEnabled() bool {
	if c == nil || c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// GetPollInterval returns the poll interval, using the default if unset or invalid
func (c *CatalogConfig) GetPollInterval() time.Duration {
	if c == nil {
		return defaultPollInterval
	}
	return parseDurationOr(c.PollInterval, defaultPollInterval)
}

// GetCheckTimeout returns the per-check timeout, using the default if unset or invalid
func (c *CatalogConfig) GetCheckTimeout() time.Duration {
	if c == nil {
		return defaultCheckTimeout
	}
	return parseDurationOr(c.CheckTimeout, defaultCheckTimeout)
}

// GetMaxAttempts returns the number of tries per availability check
func (c *CatalogConfig) GetMaxAttempts() int {
	if c == nil || c.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return c.MaxAttempts
}

// GetMaxConcurrentChecks returns the availability check parallelism
func (c *CatalogConfig) GetMaxConcurrentChecks() int {
	if c == nil || c.MaxConcurrentChecks <= 0 {
		return defaultMaxConcurrentChecks
	}
	return c.MaxConcurrentChecks
}

// GetLocalSourceID returns the identifier of the local catalog
func (c *CatalogConfig) GetLocalSourceID() string {
	if c == nil || c.LocalSourceID == "" {
		return defaultLocalSourceID
	}
	return c.LocalSourceID
}

// GetStatusDir returns the directory used to persist source status
func (c *CatalogConfig) GetStatusDir() string {
	if c == nil || c.StatusDir == "" {
		return defaultStatusDir
	}
	return c.StatusDir
}

func (c *CatalogConfig) validate() error {
	if c == nil {
		return nil
	}
	for field, value := range map[string]string{"pollInterval": c.PollInterval, "checkTimeout": c.CheckTimeout} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s must be a valid duration (e.g., '30s', '5m'): %w", field, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", field)
		}
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("maxAttempts cannot be negative")
	}
	if c.MaxConcurrentChecks < 0 {
		return fmt.Errorf("maxConcurrentChecks cannot be negative")
	}
	if c.LocalSourceID != "" && !sourceIDPattern.MatchString(c.LocalSourceID) {
		return fmt.Errorf("localSourceId '%s' is not a valid source id", c.LocalSourceID)
	}
	return nil
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
