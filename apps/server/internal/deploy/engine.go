package deploy

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

// Engine uploads a snapshot to a ready branch. Text files go through the
// contents API one commit each; binary files are staged as blobs and
// committed in a single batch at the end. Files are processed strictly
// sequentially — every write that builds on the branch head must observe
// that head immediately beforehand, and concurrent writes would race on
// the same ref.
type Engine struct {
	repos RepoAPI
	log   *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(repos RepoAPI, log *slog.Logger) *Engine {
	return &Engine{repos: repos, log: log}
}

// Sync uploads every file in the snapshot and returns the accumulated
// counters. Per-file failures are recorded as typed skips and processing
// continues; Sync itself never fails. The caller must have bootstrapped
// the branch first.
func (e *Engine) Sync(ctx context.Context, handle *RepoHandle, ref *BranchRef, snap Snapshot) *Result {
	res := &Result{}
	var staged []TreeElement

	for _, f := range snap {
		content, err := os.ReadFile(f.AbsPath)
		if err != nil {
			e.log.Warn("read failed", "path", f.RelPath, "error", err)
			res.addSkip(f.RelPath, SkipLocalRead)
			continue
		}

		if IsBinary(content) {
			el, ok := e.stageBlob(ctx, handle, f, content, res)
			if ok {
				staged = append(staged, el)
			}
			continue
		}

		if e.syncTextFile(ctx, handle, ref, f, content, res) {
			res.addUploaded(1)
		}
	}

	if len(staged) > 0 {
		e.commitStaged(ctx, handle, ref, staged, res)
	}

	return res
}

// syncTextFile creates or updates a single text file, deciding between the
// two by probing for the path's current blob SHA. A not-found probe is a
// branch decision, not an error. Reports whether the file was uploaded.
func (e *Engine) syncTextFile(ctx context.Context, handle *RepoHandle, ref *BranchRef, f FileEntry, content []byte, res *Result) bool {
	prevSHA, err := e.repos.GetFileSHA(ctx, handle.Name, f.RelPath, ref.Branch)
	switch {
	case err == nil:
		err = e.repos.UpdateFile(ctx, handle.Name, f.RelPath, "Update "+f.RelPath, content, prevSHA, ref.Branch)
		if errors.Is(err, ErrStaleContent) {
			// Someone moved the file under us. Skip this one file and move on
			// — no retry, no abort.
			e.log.Warn("stale content token", "path", f.RelPath)
			res.addSkip(f.RelPath, SkipStaleContent)
			return false
		}
		if err != nil {
			e.log.Warn("update failed", "path", f.RelPath, "error", err)
			res.addSkip(f.RelPath, SkipTransport)
			return false
		}

	case errors.Is(err, ErrFileNotFound):
		if err := e.repos.CreateFile(ctx, handle.Name, f.RelPath, "Add "+f.RelPath, content, ref.Branch); err != nil {
			e.log.Warn("create failed", "path", f.RelPath, "error", err)
			res.addSkip(f.RelPath, SkipTransport)
			return false
		}

	default:
		e.log.Warn("content probe failed", "path", f.RelPath, "error", err)
		res.addSkip(f.RelPath, SkipTransport)
		return false
	}
	return true
}

// stageBlob uploads a binary file as an unreferenced blob and returns the
// tree element for the batch commit. Nothing touches the branch ref here.
func (e *Engine) stageBlob(ctx context.Context, handle *RepoHandle, f FileEntry, content []byte, res *Result) (TreeElement, bool) {
	sha, err := e.repos.CreateBlob(ctx, handle.Name, content)
	if err != nil {
		e.log.Warn("blob upload failed", "path", f.RelPath, "error", err)
		res.addSkip(f.RelPath, SkipTransport)
		return TreeElement{}, false
	}
	return TreeElement{Path: f.RelPath, Mode: fileModeBlob, BlobSHA: sha}, true
}

// commitStaged lands all staged binary files in one tree+commit+ref update.
// The branch head is re-resolved first because the text-file commits above
// advanced it. Staged files count as uploaded only once the whole sequence
// succeeds; on failure every staged file is counted skipped — the blobs
// stay orphaned and unreachable, and the failure is absorbed so the run
// still reports its counters. A non-fast-forward rejection from a
// concurrent writer surfaces here the same way.
func (e *Engine) commitStaged(ctx context.Context, handle *RepoHandle, ref *BranchRef, staged []TreeElement, res *Result) {
	skipAll := func(err error) {
		e.log.Warn("batch binary commit failed", "repo", handle.Name, "files", len(staged), "error", err)
		for _, el := range staged {
			res.addSkip(el.Path, SkipBatchCommit)
		}
	}

	head, err := e.repos.GetBranchHead(ctx, handle.Name, ref.Branch)
	if err != nil {
		skipAll(err)
		return
	}
	baseTree, err := e.repos.GetCommitTree(ctx, handle.Name, head)
	if err != nil {
		skipAll(err)
		return
	}

	tree, err := e.repos.CreateTree(ctx, handle.Name, baseTree, staged)
	if err != nil {
		skipAll(err)
		return
	}
	commit, err := e.repos.CreateCommit(ctx, handle.Name, "Add/update binary files", tree, head)
	if err != nil {
		skipAll(err)
		return
	}
	if err := e.repos.UpdateBranchRef(ctx, handle.Name, ref.Branch, commit); err != nil {
		skipAll(err)
		return
	}

	ref.HeadSHA = commit
	ref.TreeSHA = tree
	res.addUploaded(len(staged))
	e.log.Info("binary files committed", "repo", handle.Name, "files", len(staged), "commit", commit)
}
