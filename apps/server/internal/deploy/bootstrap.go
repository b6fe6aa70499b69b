package deploy

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
)

// fallbackBranch is tried first when the target branch is missing from a
// non-empty repository, before falling back to the repository's reported
// default branch. Trying a hardcoded name first mirrors long-standing
// behavior and is kept as an explicit policy rather than silently changed.
const fallbackBranch = "main"

// Bootstrapper ensures the target repository, branch, and — for a brand new
// repository — an initial commit exist before any upload runs. Any failure
// here aborts the whole run.
type Bootstrapper struct {
	repos RepoAPI
	log   *slog.Logger
}

// NewBootstrapper creates a Bootstrapper.
func NewBootstrapper(repos RepoAPI, log *slog.Logger) *Bootstrapper {
	return &Bootstrapper{repos: repos, log: log}
}

// BootstrapRequest carries everything needed to make a branch ready.
type BootstrapRequest struct {
	RepoName       string // already sanitized
	Description    string
	Private        bool
	Branch         string
	ReadmeOverride string // optional caller-supplied README text
	ProjectName    string // used for the synthesized placeholder README
}

// Ensure provisions the repository and resolves the target branch, creating
// whatever is missing with the minimum remote mutation. It returns the
// ready handle and ref, plus the snapshot minus any README entry consumed
// by an empty-repository bootstrap (so the file is not uploaded twice).
//
// Branch resolution has three outcomes: the ref exists and is used as-is;
// the repository has zero commits and is seeded with a single README
// commit; or the ref is missing from a non-empty repository and is created
// from the default branch's head.
func (b *Bootstrapper) Ensure(ctx context.Context, req BootstrapRequest, snap Snapshot) (*RepoHandle, *BranchRef, Snapshot, error) {
	handle, err := b.repos.GetOrCreateRepo(ctx, req.RepoName, req.Description, req.Private)
	if err != nil {
		return nil, nil, nil, BootstrapError{Repo: req.RepoName, Err: err}
	}
	if handle.JustCreated {
		b.log.Info("repository created", "repo", handle.Name, "private", req.Private)
	}

	head, err := b.repos.GetBranchHead(ctx, handle.Name, req.Branch)
	switch {
	case err == nil:
		// Branch already exists.

	case errors.Is(err, ErrRepositoryEmpty):
		snap, err = b.seedEmptyRepo(ctx, handle, req, snap)
		if err != nil {
			return nil, nil, nil, BootstrapError{Repo: handle.Name, Err: err}
		}
		// The initial commit moved the branch; resolve it fresh.
		head, err = b.repos.GetBranchHead(ctx, handle.Name, req.Branch)
		if err != nil {
			return nil, nil, nil, BootstrapError{Repo: handle.Name, Err: err}
		}

	case errors.Is(err, ErrRefNotFound):
		head, err = b.createBranch(ctx, handle, req.Branch)
		if err != nil {
			return nil, nil, nil, BootstrapError{Repo: handle.Name, Err: err}
		}

	default:
		return nil, nil, nil, BootstrapError{Repo: handle.Name, Err: err}
	}

	tree, err := b.repos.GetCommitTree(ctx, handle.Name, head)
	if err != nil {
		return nil, nil, nil, BootstrapError{Repo: handle.Name, Err: err}
	}

	return handle, &BranchRef{Branch: req.Branch, HeadSHA: head, TreeSHA: tree}, snap, nil
}

// seedEmptyRepo creates the sole commit allowed on a fully empty
// repository: a single README. Caller-supplied text wins; otherwise a
// root-level README.md from the snapshot is used (and consumed); otherwise
// a minimal placeholder is synthesized.
func (b *Bootstrapper) seedEmptyRepo(ctx context.Context, handle *RepoHandle, req BootstrapRequest, snap Snapshot) (Snapshot, error) {
	if req.ReadmeOverride != "" {
		err := b.repos.CreateFile(ctx, handle.Name, "README.md", "Initial commit: README.md", []byte(req.ReadmeOverride), req.Branch)
		return snap, err
	}

	if i := rootReadmeIndex(snap); i >= 0 {
		entry := snap[i]
		content, err := os.ReadFile(entry.AbsPath)
		if err != nil {
			return snap, err
		}
		if err := b.repos.CreateFile(ctx, handle.Name, entry.RelPath, "Initial commit: "+entry.RelPath, content, req.Branch); err != nil {
			return snap, err
		}
		b.log.Info("seeded empty repository from project README", "repo", handle.Name, "path", entry.RelPath)
		return append(snap[:i:i], snap[i+1:]...), nil
	}

	placeholder := []byte("# " + req.ProjectName)
	err := b.repos.CreateFile(ctx, handle.Name, "README.md", "Initial commit: README.md", placeholder, req.Branch)
	return snap, err
}

// createBranch points a new branch ref at the current head of the fallback
// branch, or of the repository's default branch when the fallback is absent.
func (b *Bootstrapper) createBranch(ctx context.Context, handle *RepoHandle, branch string) (string, error) {
	head, err := b.repos.GetBranchHead(ctx, handle.Name, fallbackBranch)
	if err != nil {
		if handle.DefaultBranch == "" {
			return "", err
		}
		head, err = b.repos.GetBranchHead(ctx, handle.Name, handle.DefaultBranch)
		if err != nil {
			return "", err
		}
	}
	if err := b.repos.CreateBranchRef(ctx, handle.Name, branch, head); err != nil {
		return "", err
	}
	b.log.Info("branch created", "repo", handle.Name, "branch", branch, "from", head)
	return head, nil
}

// rootReadmeIndex finds a root-level README.md in the snapshot,
// case-insensitively. Nested READMEs are uploaded like any other file.
func rootReadmeIndex(snap Snapshot) int {
	for i, f := range snap {
		if strings.EqualFold(f.RelPath, "README.md") {
			return i
		}
	}
	return -1
}

// SanitizeRepoName turns a project name into a remote-safe repository
// identifier: spaces and underscores become hyphens, everything outside
// [a-z0-9-_] is dropped.
func SanitizeRepoName(name string) string {
	replaced := strings.NewReplacer(" ", "-", "_", "-").Replace(strings.ToLower(name))
	var sb strings.Builder
	for _, r := range replaced {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
