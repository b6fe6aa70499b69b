// Package githubapi implements the deploy.RepoAPI port using the official
// go-github library. Wire it up with an authenticated *github.Client from
// apps/server/internal/platform/github.
package githubapi

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gogithub "github.com/google/go-github/v75/github"

	"github.com/neogit/neogit/apps/server/internal/deploy"
)

// Compile-time check: *Adapter implements deploy.RepoAPI.
var _ deploy.RepoAPI = (*Adapter)(nil)

// Adapter wraps a go-github client bound to a single owner (the
// authenticated user or organization all repositories live under). It
// translates GitHub's status-code signals into the port's sentinel errors.
type Adapter struct {
	gh    *gogithub.Client
	owner string
}

// New creates an Adapter from an authenticated *github.Client.
func New(gh *gogithub.Client, owner string) *Adapter {
	return &Adapter{gh: gh, owner: owner}
}

// GetOrCreateRepo looks the repository up and creates it when absent.
// Existing wins: a creation race that loses to a concurrent run re-fetches
// the winner and treats it as success.
func (a *Adapter) GetOrCreateRepo(ctx context.Context, name, description string, private bool) (*deploy.RepoHandle, error) {
	repo, _, err := a.gh.Repositories.Get(ctx, a.owner, name)
	if err == nil {
		return handleFrom(repo, false), nil
	}
	if !isStatus(err, http.StatusNotFound) {
		return nil, fmt.Errorf("get repository %s/%s: %w", a.owner, name, err)
	}

	created, _, err := a.gh.Repositories.Create(ctx, "", &gogithub.Repository{
		Name:        gogithub.Ptr(name),
		Description: gogithub.Ptr(description),
		Private:     gogithub.Ptr(private),
	})
	if err == nil {
		return handleFrom(created, true), nil
	}
	if isStatus(err, http.StatusUnprocessableEntity) {
		// Name already exists — created concurrently between our lookup and
		// create. The existing repository wins.
		repo, _, getErr := a.gh.Repositories.Get(ctx, a.owner, name)
		if getErr == nil {
			return handleFrom(repo, false), nil
		}
	}
	return nil, fmt.Errorf("create repository %s: %w", name, err)
}

// GetBranchHead resolves a branch ref to its head commit SHA, translating
// GitHub's "repository is empty" conflict and plain not-found into the
// port's typed signals.
func (a *Adapter) GetBranchHead(ctx context.Context, repo, branch string) (string, error) {
	ref, _, err := a.gh.Git.GetRef(ctx, a.owner, repo, "refs/heads/"+branch)
	if err != nil {
		if isEmptyRepo(err) {
			return "", deploy.ErrRepositoryEmpty
		}
		if isStatus(err, http.StatusNotFound) {
			return "", deploy.ErrRefNotFound
		}
		return "", fmt.Errorf("get ref %s: %w", branch, err)
	}
	return ref.Object.GetSHA(), nil
}

// GetCommitTree resolves a commit to its tree SHA.
func (a *Adapter) GetCommitTree(ctx context.Context, repo, commitSHA string) (string, error) {
	commit, _, err := a.gh.Git.GetCommit(ctx, a.owner, repo, commitSHA)
	if err != nil {
		return "", fmt.Errorf("get commit %s: %w", commitSHA, err)
	}
	return commit.GetTree().GetSHA(), nil
}

// CreateBlob uploads raw bytes as a base64-encoded blob, so arbitrary
// binary content round-trips intact.
func (a *Adapter) CreateBlob(ctx context.Context, repo string, content []byte) (string, error) {
	blob, _, err := a.gh.Git.CreateBlob(ctx, a.owner, repo, gogithub.Blob{
		Content:  gogithub.Ptr(base64.StdEncoding.EncodeToString(content)),
		Encoding: gogithub.Ptr("base64"),
	})
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	return blob.GetSHA(), nil
}

// CreateTree builds a tree on top of baseTreeSHA with the staged elements.
func (a *Adapter) CreateTree(ctx context.Context, repo, baseTreeSHA string, elements []deploy.TreeElement) (string, error) {
	entries := make([]*gogithub.TreeEntry, 0, len(elements))
	for _, el := range elements {
		entries = append(entries, &gogithub.TreeEntry{
			Path: gogithub.Ptr(el.Path),
			Mode: gogithub.Ptr(el.Mode),
			Type: gogithub.Ptr("blob"),
			SHA:  gogithub.Ptr(el.BlobSHA),
		})
	}
	tree, _, err := a.gh.Git.CreateTree(ctx, a.owner, repo, baseTreeSHA, entries)
	if err != nil {
		return "", fmt.Errorf("create tree: %w", err)
	}
	return tree.GetSHA(), nil
}

// CreateCommit creates a commit with a single parent.
func (a *Adapter) CreateCommit(ctx context.Context, repo, message, treeSHA, parentSHA string) (string, error) {
	commit, _, err := a.gh.Git.CreateCommit(ctx, a.owner, repo, gogithub.Commit{
		Message: gogithub.Ptr(message),
		Tree:    &gogithub.Tree{SHA: gogithub.Ptr(treeSHA)},
		Parents: []*gogithub.Commit{{SHA: gogithub.Ptr(parentSHA)}},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("create commit: %w", err)
	}
	return commit.GetSHA(), nil
}

// CreateBranchRef creates refs/heads/<branch> pointing at commitSHA.
func (a *Adapter) CreateBranchRef(ctx context.Context, repo, branch, commitSHA string) error {
	_, _, err := a.gh.Git.CreateRef(ctx, a.owner, repo, gogithub.CreateRef{
		Ref: "refs/heads/" + branch,
		SHA: commitSHA,
	})
	if err != nil {
		return fmt.Errorf("create branch %s: %w", branch, err)
	}
	return nil
}

// UpdateBranchRef moves refs/heads/<branch> to commitSHA without force, so
// the remote rejects anything that is not a fast-forward.
func (a *Adapter) UpdateBranchRef(ctx context.Context, repo, branch, commitSHA string) error {
	_, _, err := a.gh.Git.UpdateRef(ctx, a.owner, repo, "refs/heads/"+branch, gogithub.UpdateRef{
		SHA: commitSHA,
	})
	if err != nil {
		return fmt.Errorf("update ref %s: %w", branch, err)
	}
	return nil
}

// GetFileSHA probes the contents API for the blob SHA at path on branch.
func (a *Adapter) GetFileSHA(ctx context.Context, repo, path, branch string) (string, error) {
	fc, _, _, err := a.gh.Repositories.GetContents(ctx, a.owner, repo, path,
		&gogithub.RepositoryContentGetOptions{Ref: branch})
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return "", deploy.ErrFileNotFound
		}
		return "", fmt.Errorf("get contents %s: %w", path, err)
	}
	if fc == nil {
		// Path resolves to a directory listing; no file blob lives here.
		return "", deploy.ErrFileNotFound
	}
	return fc.GetSHA(), nil
}

// CreateFile creates a single file and its commit atomically.
func (a *Adapter) CreateFile(ctx context.Context, repo, path, message string, content []byte, branch string) error {
	_, _, err := a.gh.Repositories.CreateFile(ctx, a.owner, repo, path, &gogithub.RepositoryContentFileOptions{
		Message: gogithub.Ptr(message),
		Content: content,
		Branch:  gogithub.Ptr(branch),
	})
	if err != nil {
		return fmt.Errorf("create file %s: %w", path, err)
	}
	return nil
}

// UpdateFile updates a single file guarded by the previous blob SHA. A
// conflict means the guard was stale.
func (a *Adapter) UpdateFile(ctx context.Context, repo, path, message string, content []byte, prevSHA, branch string) error {
	_, _, err := a.gh.Repositories.UpdateFile(ctx, a.owner, repo, path, &gogithub.RepositoryContentFileOptions{
		Message: gogithub.Ptr(message),
		Content: content,
		SHA:     gogithub.Ptr(prevSHA),
		Branch:  gogithub.Ptr(branch),
	})
	if err != nil {
		if isStatus(err, http.StatusConflict) || isStatus(err, http.StatusUnprocessableEntity) {
			return deploy.ErrStaleContent
		}
		return fmt.Errorf("update file %s: %w", path, err)
	}
	return nil
}

func handleFrom(repo *gogithub.Repository, created bool) *deploy.RepoHandle {
	return &deploy.RepoHandle{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		URL:           repo.GetHTMLURL(),
		DefaultBranch: repo.GetDefaultBranch(),
		JustCreated:   created,
	}
}

// isStatus reports whether err is a GitHub API error with the given HTTP status.
func isStatus(err error, status int) bool {
	var ghErr *gogithub.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == status
}

// isEmptyRepo detects GitHub's 409 "Git Repository is empty" response to a
// ref lookup on a repository with zero commits.
func isEmptyRepo(err error) bool {
	if isStatus(err, http.StatusConflict) {
		return true
	}
	var ghErr *gogithub.ErrorResponse
	return errors.As(err, &ghErr) && strings.Contains(ghErr.Message, "Git Repository is empty")
}
