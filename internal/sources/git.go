package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fedcatalog/source-admin/internal/config"
	git2 "github.com/fedcatalog/source-admin/internal/git"
)

// GitSource is a federated source backed by a Git repository
type GitSource struct {
	baseSource
	gitClient    git2.Client
	repository   string
	branch       string
	username     string
	passwordFile string
}

var _ Source = (*GitSource)(nil)

// NewGitSource creates a Git source from a validated source configuration
func NewGitSource(src *config.SourceConfig, gitClient git2.Client) (*GitSource, error) {
	if src.Git == nil {
		return nil, fmt.Errorf("git configuration is required for source type %s", config.SourceTypeGit)
	}
	if gitClient == nil {
		return nil, fmt.Errorf("git client cannot be nil")
	}

	return &GitSource{
		baseSource:   newBaseSource(src.ID, config.SourceTypeGit, src.Title, src.Version),
		gitClient:    gitClient,
		repository:   src.Git.Repository,
		branch:       src.Git.Branch,
		username:     src.Git.Username,
		passwordFile: src.Git.PasswordFile,
	}, nil
}

// Check lists the remote references. The password file is read on every
// check so that rotated credentials are picked up.
func (s *GitSource) Check(ctx context.Context) error {
	listCfg := &git2.ListConfig{
		URL:    s.repository,
		Branch: s.branch,
	}

	if s.username != "" {
		auth := &git2.AuthConfig{Username: s.username}
		if s.passwordFile != "" {
			data, err := os.ReadFile(filepath.Clean(s.passwordFile))
			if err != nil {
				return fmt.Errorf("git source %s: failed to read password file: %w", s.id, err)
			}
			auth.Password = strings.TrimSpace(string(data))
		}
		listCfg.Auth = auth
	}

	if _, err := s.gitClient.ListRefs(ctx, listCfg); err != nil {
		return fmt.Errorf("git source %s: %w", s.id, err)
	}
	return nil
}

// IsAvailable reports whether the repository can be listed
func (s *GitSource) IsAvailable(ctx context.Context) bool {
	return s.Check(ctx) == nil
}
