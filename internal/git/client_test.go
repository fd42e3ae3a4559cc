package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepository creates a repository with a single commit on its default branch
func initRepository(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.json"), []byte(`{"sources":[]}`), 0600))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("catalog.json")
	require.NoError(t, err)

	hash, err := wt.Commit("initial catalog", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	require.Equal(t, hash, head.Hash())

	return dir, head.Name().Short()
}

func TestNewDefaultGitClient(t *testing.T) {
	t.Parallel()
	client := NewDefaultGitClient()
	require.NotNil(t, client)

	_, ok := client.(*defaultGitClient)
	assert.True(t, ok, "NewDefaultGitClient() did not return *defaultGitClient")
}

func TestDefaultGitClient_ListRefs(t *testing.T) {
	t.Parallel()

	dir, branch := initRepository(t)
	client := NewDefaultGitClient()

	t.Run("configured branch", func(t *testing.T) {
		t.Parallel()

		result, err := client.ListRefs(t.Context(), &ListConfig{URL: dir, Branch: branch})
		require.NoError(t, err)
		assert.Equal(t, "refs/heads/"+branch, result.Reference)
		assert.Len(t, result.Hash, 40)
	})

	t.Run("default reference", func(t *testing.T) {
		t.Parallel()

		result, err := client.ListRefs(t.Context(), &ListConfig{URL: dir})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Hash)
	})

	t.Run("missing branch", func(t *testing.T) {
		t.Parallel()

		_, err := client.ListRefs(t.Context(), &ListConfig{URL: dir, Branch: "does-not-exist"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrReferenceNotFound))
	})
}

func TestDefaultGitClient_ListRefs_Errors(t *testing.T) {
	t.Parallel()

	client := NewDefaultGitClient()

	_, err := client.ListRefs(t.Context(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository URL is required")

	_, err = client.ListRefs(t.Context(), &ListConfig{URL: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list remote references")
}
