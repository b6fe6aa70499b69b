package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neogit/neogit/apps/server/internal/analysis"
	"github.com/neogit/neogit/apps/server/internal/deploy"
	"github.com/neogit/neogit/pkg/api"
)

// Deploy handles POST /mcp/deploy-github — one synchronization run of a
// local project into its remote repository.
func (h *Handler) Deploy(c *gin.Context) {
	var req api.DeployGitHubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.DeployGitHubResponse{Error: err.Error()})
		return
	}

	// The repository description comes from a quick analysis of the project;
	// a failure here is not fatal, the description just stays empty.
	var description string
	if info, err := analysis.Analyze(req.ProjectPath); err == nil {
		description = info.Description
	}

	res, err := h.deployer.Deploy(c.Request.Context(), deploy.DeployRequest{
		ProjectPath:    req.ProjectPath,
		Branch:         req.Branch,
		Private:        req.Private,
		Description:    description,
		ReadmeOverride: req.ReadmeContent,
	})
	if err != nil {
		var notFound deploy.ProjectNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusBadRequest, api.DeployGitHubResponse{Error: err.Error()})
			return
		}
		h.log.Error("deploy failed", "projectPath", req.ProjectPath, "error", err)
		c.JSON(http.StatusInternalServerError, api.DeployGitHubResponse{Error: err.Error()})
		return
	}

	skips := make([]api.FileSkip, 0, len(res.Skips))
	for _, s := range res.Skips {
		skips = append(skips, api.FileSkip{Path: s.Path, Reason: string(s.Reason)})
	}
	c.JSON(http.StatusOK, api.DeployGitHubResponse{
		Success:       true,
		RunId:         res.RunID,
		Repository:    res.Repository,
		RepositoryUrl: res.URL,
		Branch:        res.Branch,
		Private:       req.Private,
		FilesUploaded: res.Uploaded,
		FilesSkipped:  res.Skipped,
		Skips:         skips,
	})
}

// ListRuns handles GET /mcp/deployments — the recorded run history.
func (h *Handler) ListRuns(c *gin.Context) {
	runs, err := h.deployer.ListRuns(c.Request.Context())
	if err != nil {
		h.log.Error("list runs failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deployments"})
		return
	}
	c.JSON(http.StatusOK, api.ListRunsResponse{Runs: runs})
}

// GetRun handles GET /mcp/deployments/:id.
func (h *Handler) GetRun(c *gin.Context) {
	id := c.Param("id")

	run, err := h.deployer.GetRun(c.Request.Context(), id)
	if err != nil {
		var notFound deploy.RunNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("get run failed", "runId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch deployment"})
		return
	}
	c.JSON(http.StatusOK, run)
}
