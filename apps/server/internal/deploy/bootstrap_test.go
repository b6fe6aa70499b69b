package deploy_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neogit/neogit/apps/server/internal/deploy"
)

func ensureReq(branch string) deploy.BootstrapRequest {
	return deploy.BootstrapRequest{
		RepoName:    "demo",
		Branch:      branch,
		ProjectName: "demo",
	}
}

func TestBootstrapper_Ensure(t *testing.T) {
	ctx := context.Background()

	t.Run("uses existing branch as-is", func(t *testing.T) {
		repo := newFakeRepo()
		boot := deploy.NewBootstrapper(repo, testLogger())

		handle, ref, snap, err := boot.Ensure(ctx, ensureReq("main"), deploy.Snapshot{{RelPath: "a.txt"}})

		require.NoError(t, err)
		assert.Equal(t, "demo", handle.Name)
		assert.Equal(t, "commit-0", ref.HeadSHA)
		assert.Equal(t, "tree-0", ref.TreeSHA)
		assert.Len(t, snap, 1, "snapshot must not be consumed")
		assert.Empty(t, repo.createdFiles)
	})

	t.Run("seeds empty repository with override README", func(t *testing.T) {
		repo := newEmptyFakeRepo()
		boot := deploy.NewBootstrapper(repo, testLogger())

		req := ensureReq("main")
		req.ReadmeOverride = "# custom readme"

		_, ref, snap, err := boot.Ensure(ctx, req, deploy.Snapshot{{RelPath: "a.txt"}})

		require.NoError(t, err)
		require.Len(t, repo.createdFiles, 1)
		assert.Equal(t, "README.md: Initial commit: README.md", repo.createdFiles[0])
		assert.Equal(t, []byte("# custom readme"), repo.fileContents["README.md"])
		assert.Len(t, snap, 1, "override must not consume the snapshot README")
		assert.NotEmpty(t, ref.HeadSHA, "head must be re-resolved after seeding")
	})

	t.Run("seeds empty repository from snapshot README and consumes it", func(t *testing.T) {
		dir := t.TempDir()
		readmePath := filepath.Join(dir, "README.md")
		require.NoError(t, os.WriteFile(readmePath, []byte("# from project"), 0o644))

		repo := newEmptyFakeRepo()
		boot := deploy.NewBootstrapper(repo, testLogger())

		snap := deploy.Snapshot{
			{AbsPath: filepath.Join(dir, "a.txt"), RelPath: "a.txt"},
			{AbsPath: readmePath, RelPath: "README.md"},
		}
		_, _, remaining, err := boot.Ensure(ctx, ensureReq("main"), snap)

		require.NoError(t, err)
		require.Len(t, repo.createdFiles, 1)
		assert.Equal(t, "README.md: Initial commit: README.md", repo.createdFiles[0])
		assert.Equal(t, []byte("# from project"), repo.fileContents["README.md"])
		require.Len(t, remaining, 1, "seeded README must leave the snapshot")
		assert.Equal(t, "a.txt", remaining[0].RelPath)
	})

	t.Run("matches the root README case-insensitively", func(t *testing.T) {
		dir := t.TempDir()
		readmePath := filepath.Join(dir, "readme.md")
		require.NoError(t, os.WriteFile(readmePath, []byte("# lower"), 0o644))

		repo := newEmptyFakeRepo()
		boot := deploy.NewBootstrapper(repo, testLogger())

		snap := deploy.Snapshot{{AbsPath: readmePath, RelPath: "readme.md"}}
		_, _, remaining, err := boot.Ensure(ctx, ensureReq("main"), snap)

		require.NoError(t, err)
		assert.Empty(t, remaining)
		require.Len(t, repo.createdFiles, 1)
		assert.Equal(t, "readme.md: Initial commit: readme.md", repo.createdFiles[0])
	})

	t.Run("does not consume a nested README", func(t *testing.T) {
		repo := newEmptyFakeRepo()
		boot := deploy.NewBootstrapper(repo, testLogger())

		snap := deploy.Snapshot{{RelPath: "docs/README.md"}}
		_, _, remaining, err := boot.Ensure(ctx, ensureReq("main"), snap)

		require.NoError(t, err)
		assert.Len(t, remaining, 1, "nested README is uploaded like any other file")
		require.Len(t, repo.createdFiles, 1)
		assert.Equal(t, "README.md: Initial commit: README.md", repo.createdFiles[0])
		assert.Equal(t, []byte("# demo"), repo.fileContents["README.md"])
	})

	t.Run("synthesizes a placeholder README when nothing else is available", func(t *testing.T) {
		repo := newEmptyFakeRepo()
		boot := deploy.NewBootstrapper(repo, testLogger())

		_, _, _, err := boot.Ensure(ctx, ensureReq("main"), nil)

		require.NoError(t, err)
		assert.Equal(t, []byte("# demo"), repo.fileContents["README.md"])
	})

	t.Run("creates a missing branch from the main head", func(t *testing.T) {
		repo := newFakeRepo()
		boot := deploy.NewBootstrapper(repo, testLogger())

		_, ref, _, err := boot.Ensure(ctx, ensureReq("feature"), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"feature@commit-0"}, repo.createdRefs)
		assert.Equal(t, "commit-0", ref.HeadSHA)
	})

	t.Run("falls back to the reported default branch when main is absent", func(t *testing.T) {
		repo := newFakeRepo()
		repo.defaultBranch = "trunk"
		repo.refs = map[string]string{"trunk": "commit-0"}
		boot := deploy.NewBootstrapper(repo, testLogger())

		_, ref, _, err := boot.Ensure(ctx, ensureReq("feature"), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"feature@commit-0"}, repo.createdRefs)
		assert.Equal(t, "commit-0", ref.HeadSHA)
	})

	t.Run("wraps provisioning failures in BootstrapError", func(t *testing.T) {
		repo := newFakeRepo()
		repo.errGetOrCreate = errors.New("boom")
		boot := deploy.NewBootstrapper(repo, testLogger())

		_, _, _, err := boot.Ensure(ctx, ensureReq("main"), nil)

		var bootErr deploy.BootstrapError
		require.ErrorAs(t, err, &bootErr)
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("wraps seeding failures in BootstrapError", func(t *testing.T) {
		repo := newEmptyFakeRepo()
		repo.errCreateFile = errors.New("denied")
		boot := deploy.NewBootstrapper(repo, testLogger())

		_, _, _, err := boot.Ensure(ctx, ensureReq("main"), nil)

		var bootErr deploy.BootstrapError
		require.ErrorAs(t, err, &bootErr)
	})
}

func TestSanitizeRepoName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"My Project", "my-project"},
		{"snake_case_name", "snake-case-name"},
		{"Already-Fine", "already-fine"},
		{"Weird!Name?", "weirdname"},
		{"MiXeD 123", "mixed-123"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, deploy.SanitizeRepoName(tt.in))
		})
	}
}
