// Package handler exposes the deployment, analysis, README, and gitignore
// services over HTTP.
package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neogit/neogit/apps/server/internal/deploy"
	"github.com/neogit/neogit/apps/server/internal/gitignore"
	"github.com/neogit/neogit/apps/server/internal/readme"
)

// Handler translates HTTP requests into calls on the underlying services.
type Handler struct {
	deployer   *deploy.Deployer
	readmes    *readme.Generator
	gitignores *gitignore.Generator
	providers  []string
	started    time.Time
	log        *slog.Logger
}

// Options wires the services and settings a Handler needs.
type Options struct {
	Deployer   *deploy.Deployer
	Readmes    *readme.Generator
	Gitignores *gitignore.Generator
	// Providers lists the configured README providers for GET /mcp/providers.
	Providers []string
	// AuthToken guards the /mcp endpoints. Empty disables auth.
	AuthToken string
}

// RegisterRoutes mounts the API onto the given Gin engine.
func RegisterRoutes(r *gin.Engine, opts Options, log *slog.Logger) {
	h := &Handler{
		deployer:   opts.Deployer,
		readmes:    opts.Readmes,
		gitignores: opts.Gitignores,
		providers:  opts.Providers,
		started:    time.Now(),
		log:        log,
	}

	r.GET("/health", h.Health)

	mcp := r.Group("/mcp", bearerAuth(opts.AuthToken))

	mcp.POST("/analyze-project", h.AnalyzeProject)
	mcp.POST("/generate-readme", h.GenerateReadme)
	mcp.POST("/create-gitignore", h.CreateGitignore)
	mcp.GET("/providers", h.Providers)

	// Deployment
	mcp.POST("/deploy-github", h.Deploy)
	mcp.GET("/deployments", h.ListRuns)
	mcp.GET("/deployments/:id", h.GetRun)
}
