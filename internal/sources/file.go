package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fedcatalog/source-admin/internal/config"
)

// FileSource is a federated source stored on the local filesystem
type FileSource struct {
	baseSource
	path string
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a file source from a validated source configuration
func NewFileSource(src *config.SourceConfig) (*FileSource, error) {
	if src.File == nil {
		return nil, fmt.Errorf("file configuration is required for source type %s", config.SourceTypeFile)
	}
	if src.File.Path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	return &FileSource{
		baseSource: newBaseSource(src.ID, config.SourceTypeFile, src.Title, src.Version),
		path:       src.File.Path,
	}, nil
}

// Check opens the path; directories must also be listable
func (s *FileSource) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	//nolint:gosec // Path comes from user configuration, this is expected behavior
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file source %s: path not found: %s", s.id, s.path)
		}
		return fmt.Errorf("file source %s: %w", s.id, err)
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("file source %s: %w", s.id, err)
	}
	if info.IsDir() {
		if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("file source %s: %w", s.id, err)
		}
	}
	return nil
}

// IsAvailable reports whether the path can be read
func (s *FileSource) IsAvailable(ctx context.Context) bool {
	return s.Check(ctx) == nil
}
