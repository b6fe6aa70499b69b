package deploy

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/neogit/neogit/pkg/api"
)

// DefaultBranch is used when the caller does not name a target branch.
const DefaultBranch = "main"

// Deployer is the caller-facing use case: collect a project directory,
// make the remote branch ready, sync every eligible file, and record the
// run. It depends only on the RepoAPI and RunStore ports.
type Deployer struct {
	repos RepoAPI
	runs  RunStore
	log   *slog.Logger
}

// NewDeployer creates a Deployer.
func NewDeployer(repos RepoAPI, runs RunStore, log *slog.Logger) *Deployer {
	return &Deployer{repos: repos, runs: runs, log: log}
}

// DeployRequest is one synchronization run's input.
type DeployRequest struct {
	ProjectPath    string
	Branch         string // defaults to DefaultBranch
	Private        bool
	Description    string // repository description, used only on creation
	ReadmeOverride string // optional README text for empty-repository bootstrap
}

// DeployResult is the success summary of a run: where the files went plus
// the accumulated counters. There is no finer-grained partial-success
// report beyond the counters and the per-file skip reasons.
type DeployResult struct {
	RunID      string
	Repository string
	URL        string
	Branch     string
	Result
}

// Deploy runs one synchronization pass end to end. Bootstrap failures and
// an invalid project path are fatal and return an error; per-file upload
// failures are absorbed into the result's skip counters. Whatever writes
// succeeded before a failure remain live on the remote — there is no
// compensating rollback.
func (d *Deployer) Deploy(ctx context.Context, req DeployRequest) (*DeployResult, error) {
	root, err := filepath.Abs(req.ProjectPath)
	if err != nil {
		return nil, ProjectNotFoundError{Path: req.ProjectPath}
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, ProjectNotFoundError{Path: req.ProjectPath}
	}

	branch := req.Branch
	if branch == "" {
		branch = DefaultBranch
	}
	projectName := filepath.Base(root)
	repoName := SanitizeRepoName(projectName)

	snap, err := Collect(root)
	if err != nil {
		return nil, err
	}
	d.log.Info("project collected", "root", root, "files", len(snap))

	boot := NewBootstrapper(d.repos, d.log)
	handle, ref, snap, err := boot.Ensure(ctx, BootstrapRequest{
		RepoName:       repoName,
		Description:    req.Description,
		Private:        req.Private,
		Branch:         branch,
		ReadmeOverride: req.ReadmeOverride,
		ProjectName:    projectName,
	}, snap)
	if err != nil {
		d.recordRun(ctx, api.RunRecord{
			Id:         uuid.New().String(),
			Repository: repoName,
			Branch:     branch,
			Private:    req.Private,
			Status:     api.RunStatusFailed,
			Error:      err.Error(),
			CreatedAt:  time.Now().UTC(),
		})
		return nil, err
	}

	res := NewEngine(d.repos, d.log).Sync(ctx, handle, ref, snap)

	out := &DeployResult{
		RunID:      uuid.New().String(),
		Repository: handle.Name,
		URL:        handle.URL,
		Branch:     branch,
		Result:     *res,
	}
	d.recordRun(ctx, runRecord(out, req.Private))
	d.log.Info("deploy finished",
		"repo", handle.Name, "branch", branch,
		"uploaded", res.Uploaded, "skipped", res.Skipped)
	return out, nil
}

// GetRun returns a recorded run by ID.
func (d *Deployer) GetRun(ctx context.Context, id string) (*api.RunRecord, error) {
	r, err := d.runs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, RunNotFoundError{ID: id}
	}
	return r, nil
}

// ListRuns returns all recorded runs.
func (d *Deployer) ListRuns(ctx context.Context) ([]api.RunRecord, error) {
	return d.runs.List(ctx)
}

// recordRun persists the run record. The store is advisory history — a
// store failure is logged, never surfaced to the caller whose upload
// already happened.
func (d *Deployer) recordRun(ctx context.Context, rec api.RunRecord) {
	if err := d.runs.Save(ctx, rec); err != nil {
		d.log.Error("failed to record run", "runId", rec.Id, "error", err)
	}
}

func runRecord(out *DeployResult, private bool) api.RunRecord {
	skips := make([]api.FileSkip, 0, len(out.Skips))
	for _, s := range out.Skips {
		skips = append(skips, api.FileSkip{Path: s.Path, Reason: string(s.Reason)})
	}
	return api.RunRecord{
		Id:            out.RunID,
		Repository:    out.Repository,
		RepositoryUrl: out.URL,
		Branch:        out.Branch,
		Private:       private,
		Status:        api.RunStatusSucceeded,
		FilesUploaded: out.Uploaded,
		FilesSkipped:  out.Skipped,
		Skips:         skips,
		CreatedAt:     time.Now().UTC(),
	}
}
