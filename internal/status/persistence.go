// Package status provides availability status tracking and persistence for federated sources.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

//go:generate mockgen -destination=mocks/mock_status_persistence.go -package=mocks -source=persistence.go StatusPersistence

const (
	// StatusFileName is the name of the status file
	StatusFileName = "status.json"
)

// StatusPersistence defines the interface for source status persistence
//
//nolint:revive // This name is fine
type StatusPersistence interface {
	// SaveStatus saves the status of a specific source
	SaveStatus(ctx context.Context, sourceID string, status *SourceStatus) error

	// LoadStatus loads the status of a specific source.
	// Returns a SourceStatus in PhaseUnknown if nothing was saved yet.
	LoadStatus(ctx context.Context, sourceID string) (*SourceStatus, error)

	// LoadAllStatus loads the status of every persisted source
	LoadAllStatus(ctx context.Context) (map[string]*SourceStatus, error)

	// DeleteStatus removes the persisted status of a source. Deleting an unknown source is not an error.
	DeleteStatus(ctx context.Context, sourceID string) error
}

// fileStatusPersistence implements StatusPersistence using local filesystem
type fileStatusPersistence struct {
	basePath string
}

// NewFileStatusPersistence creates a new file-based status persistence
// basePath is the base directory where per-source status files will be stored
func NewFileStatusPersistence(basePath string) StatusPersistence {
	return &fileStatusPersistence{
		basePath: basePath,
	}
}

func (f *fileStatusPersistence) sourceDir(sourceID string) (string, error) {
	if sourceID == "" || sourceID == "." || sourceID == ".." ||
		strings.ContainsAny(sourceID, `/\`) || filepath.Base(sourceID) != sourceID {
		return "", fmt.Errorf("invalid source id '%s'", sourceID)
	}
	return filepath.Join(f.basePath, sourceID), nil
}

// SaveStatus writes the status to a JSON file in a source-specific directory
func (f *fileStatusPersistence) SaveStatus(_ context.Context, sourceID string, status *SourceStatus) error {
	sourceDir, err := f.sourceDir(sourceID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(sourceDir, 0750); err != nil {
		return fmt.Errorf("failed to create status directory for source '%s': %w", sourceID, err)
	}

	filePath := filepath.Join(sourceDir, StatusFileName)

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status data for source '%s': %w", sourceID, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary status file for source '%s': %w", sourceID, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename status file for source '%s': %w", sourceID, err)
	}

	return nil
}

// LoadStatus loads the status from the JSON file of a specific source
func (f *fileStatusPersistence) LoadStatus(_ context.Context, sourceID string) (*SourceStatus, error) {
	sourceDir, err := f.sourceDir(sourceID)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- path is basePath plus a validated source id
	data, err := os.ReadFile(filepath.Join(sourceDir, StatusFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &SourceStatus{Phase: PhaseUnknown}, nil
		}
		return nil, fmt.Errorf("failed to read status file for source '%s': %w", sourceID, err)
	}

	var status SourceStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status data for source '%s': %w", sourceID, err)
	}

	return &status, nil
}

// LoadAllStatus loads the status of every source directory under basePath
func (f *fileStatusPersistence) LoadAllStatus(ctx context.Context) (map[string]*SourceStatus, error) {
	result := make(map[string]*SourceStatus)

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read status directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		sourceID := entry.Name()
		status, err := f.LoadStatus(ctx, sourceID)
		if err != nil {
			slog.Warn("Skipping unreadable source status", "source", sourceID, "error", err)
			continue
		}

		result[sourceID] = status
	}

	return result, nil
}

// DeleteStatus removes the source-specific status directory
func (f *fileStatusPersistence) DeleteStatus(_ context.Context, sourceID string) error {
	sourceDir, err := f.sourceDir(sourceID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(sourceDir); err != nil {
		return fmt.Errorf("failed to delete status for source '%s': %w", sourceID, err)
	}
	return nil
}
