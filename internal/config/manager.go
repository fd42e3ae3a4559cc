package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Manager provides thread-safe, read-only access to the configuration file.
// The file is never written by the server; external updates (volume mounts,
// ConfigMap symlink swaps, editors) are picked up by WatchConfig. An invalid
// update is rejected and the last good configuration stays active.
type Manager interface {
	// GetConfig returns the active configuration
	GetConfig() *Config

	// ReloadConfig reads the file and applies it if valid
	ReloadConfig() error

	// OnChange registers a callback invoked after every successful reload
	OnChange(fn func(*Config))

	// WatchConfig reloads the configuration whenever the file changes.
	// Blocks until the context is cancelled.
	WatchConfig(ctx context.Context) error

	// Close releases the file watcher
	Close() error
}

type manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string

	listenersMu sync.Mutex
	listeners   []func(*Config)

	watcherMu sync.Mutex
	watcher   *fsnotify.Watcher
}

// NewManager loads the configuration file at configPath and returns a Manager for it
func NewManager(configPath string) (Manager, error) {
	cm := &manager{configPath: configPath}

	if err := cm.load(); err != nil {
		return nil, fmt.Errorf("failed to load initial configuration: %w", err)
	}

	return cm, nil
}

// GetConfig returns the active configuration
func (cm *manager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback invoked after every successful reload
func (cm *manager) OnChange(fn func(*Config)) {
	cm.listenersMu.Lock()
	defer cm.listenersMu.Unlock()
	cm.listeners = append(cm.listeners, fn)
}

// ReloadConfig reads the configuration file and applies it if valid
func (cm *manager) ReloadConfig() error {
	if err := cm.load(); err != nil {
		return err
	}

	cfg := cm.GetConfig()

	cm.listenersMu.Lock()
	listeners := append([]func(*Config){}, cm.listeners...)
	cm.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(cfg)
	}

	slog.Info("Configuration reloaded", "path", cm.configPath)
	return nil
}

func (cm *manager) load() error {
	newConfig, err := LoadConfig(WithConfigPath(cm.configPath))
	if err != nil {
		return err
	}

	cm.mu.Lock()
	cm.config = newConfig
	cm.mu.Unlock()
	return nil
}

// WatchConfig watches the directory holding the configuration file so that
// atomic replacements (rename or symlink swap) are observed as well as
// in-place writes.
func (cm *manager) WatchConfig(ctx context.Context) error {
	cm.watcherMu.Lock()
	if cm.watcher != nil {
		cm.watcherMu.Unlock()
		return fmt.Errorf("config watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		cm.watcherMu.Unlock()
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cm.watcher = watcher
	cm.watcherMu.Unlock()

	dir := filepath.Dir(cm.configPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}

	slog.Info("Started watching configuration file", "path", cm.configPath)

	target := filepath.Clean(cm.configPath)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping config file watcher")
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				slog.Info("Configuration file changed, reloading", "path", cm.configPath)
				if err := cm.ReloadConfig(); err != nil {
					slog.Error("Failed to reload configuration, keeping previous configuration",
						"path", cm.configPath,
						"error", err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			slog.Error("Config file watcher error", "error", err)
		}
	}
}

// Close releases the file watcher
func (cm *manager) Close() error {
	cm.watcherMu.Lock()
	defer cm.watcherMu.Unlock()

	if cm.watcher != nil {
		if err := cm.watcher.Close(); err != nil {
			return fmt.Errorf("failed to close file watcher: %w", err)
		}
		cm.watcher = nil
	}

	return nil
}
