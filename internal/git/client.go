// Package git lists the references of remote Git repositories without cloning them
package git

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Client defines the interface for Git operations
type Client interface {
	// ListRefs lists the references advertised by the remote, the equivalent of
	// git ls-remote, and resolves the configured branch
	ListRefs(ctx context.Context, config *ListConfig) (*ResolvedRef, error)
}

// defaultGitClient implements Client using go-git
type defaultGitClient struct{}

// NewDefaultGitClient creates a new defaultGitClient
func NewDefaultGitClient() Client {
	return &defaultGitClient{}
}

// ListRefs lists remote references using an in-memory storer
func (*defaultGitClient) ListRefs(ctx context.Context, config *ListConfig) (*ResolvedRef, error) {
	if config == nil || config.URL == "" {
		return nil, fmt.Errorf("repository URL is required")
	}

	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{config.URL},
	})

	listOptions := &git.ListOptions{}
	if config.Auth != nil && config.Auth.Username != "" {
		listOptions.Auth = &githttp.BasicAuth{
			Username: config.Auth.Username,
			Password: config.Auth.Password,
		}
		slog.Debug("Using Git HTTP Basic authentication", "username", config.Auth.Username)
	}

	refs, err := remote.ListContext(ctx, listOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote references: %w", err)
	}

	if config.Branch == "" {
		return resolveDefault(refs)
	}

	want := plumbing.NewBranchReferenceName(config.Branch)
	for _, ref := range refs {
		if ref.Name() == want {
			return &ResolvedRef{Reference: ref.Name().String(), Hash: ref.Hash().String()}, nil
		}
	}
	return nil, fmt.Errorf("branch %s: %w", config.Branch, ErrReferenceNotFound)
}

// resolveDefault prefers HEAD and falls back to the first hash reference advertised
func resolveDefault(refs []*plumbing.Reference) (*ResolvedRef, error) {
	var first *plumbing.Reference
	for _, ref := range refs {
		if ref.Type() != plumbing.HashReference {
			continue
		}
		if ref.Name() == plumbing.HEAD {
			return &ResolvedRef{Reference: ref.Name().String(), Hash: ref.Hash().String()}, nil
		}
		if first == nil {
			first = ref
		}
	}
	if first == nil {
		return nil, fmt.Errorf("remote advertises no references: %w", ErrReferenceNotFound)
	}
	return &ResolvedRef{Reference: first.Name().String(), Hash: first.Hash().String()}, nil
}
