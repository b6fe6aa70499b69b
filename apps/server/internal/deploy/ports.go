package deploy

import (
	"context"
	"errors"

	"github.com/neogit/neogit/pkg/api"
)

// Sentinel errors adapters translate remote API responses into, so the
// engine's branch decisions are driven by typed signals rather than
// status-code or message matching.
var (
	// ErrRepositoryEmpty: the repository exists but has zero commits.
	ErrRepositoryEmpty = errors.New("repository has no commits")
	// ErrRefNotFound: the branch ref does not exist (but the repository has commits).
	ErrRefNotFound = errors.New("branch ref not found")
	// ErrFileNotFound: no content exists at the requested path on the branch.
	ErrFileNotFound = errors.New("file not found")
	// ErrStaleContent: an update was rejected because the supplied previous
	// blob SHA no longer matches the branch head's content.
	ErrStaleContent = errors.New("stale content sha")
)

// RepoAPI is the object-level repository API the engine drives. An
// implementation is bound to an authenticated owner; repo arguments name a
// repository under that owner.
type RepoAPI interface {
	// GetOrCreateRepo provisions the repository idempotently: an existing
	// repository wins, including one created concurrently by a racing run.
	GetOrCreateRepo(ctx context.Context, name, description string, private bool) (*RepoHandle, error)

	// GetBranchHead resolves a branch to its head commit SHA. Returns
	// ErrRepositoryEmpty or ErrRefNotFound as typed signals.
	GetBranchHead(ctx context.Context, repo, branch string) (string, error)

	// GetCommitTree resolves a commit SHA to its tree SHA.
	GetCommitTree(ctx context.Context, repo, commitSHA string) (string, error)

	// CreateBlob uploads content as a content-addressed blob and returns its SHA.
	// The blob is unreachable until referenced by a committed tree.
	CreateBlob(ctx context.Context, repo string, content []byte) (string, error)

	// CreateTree builds a new tree from a base tree plus the given elements.
	CreateTree(ctx context.Context, repo, baseTreeSHA string, elements []TreeElement) (string, error)

	// CreateCommit creates a commit object with a single parent.
	CreateCommit(ctx context.Context, repo, message, treeSHA, parentSHA string) (string, error)

	// CreateBranchRef creates a new branch ref pointing at the given commit.
	CreateBranchRef(ctx context.Context, repo, branch, commitSHA string) error

	// UpdateBranchRef fast-forwards the branch ref to the given commit.
	// Non-fast-forward moves are rejected by the remote, which is how a
	// concurrent writer's stale batch commit surfaces.
	UpdateBranchRef(ctx context.Context, repo, branch, commitSHA string) error

	// GetFileSHA returns the blob SHA currently at path on the branch, or
	// ErrFileNotFound. The SHA doubles as the optimistic-concurrency token
	// for UpdateFile.
	GetFileSHA(ctx context.Context, repo, path, branch string) (string, error)

	// CreateFile atomically creates a single file and its commit on the branch.
	CreateFile(ctx context.Context, repo, path, message string, content []byte, branch string) error

	// UpdateFile atomically updates a single file and its commit, guarded by
	// the previous blob SHA. Returns ErrStaleContent when the guard fails.
	UpdateFile(ctx context.Context, repo, path, message string, content []byte, prevSHA, branch string) error
}

// RunStore persists deployment run records.
type RunStore interface {
	Save(ctx context.Context, r api.RunRecord) error
	Get(ctx context.Context, id string) (*api.RunRecord, error)
	List(ctx context.Context) ([]api.RunRecord, error)
}
