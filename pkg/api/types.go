// Package api defines the wire types shared by the neogit server and its
// clients. Every request/response body on the /mcp endpoints is declared
// here so handlers, tests, and external callers agree on one shape.
package api

import "time"

// ProjectInfo summarizes a local project directory.
type ProjectInfo struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Language        string         `json:"language"`
	Framework       string         `json:"framework,omitempty"`
	Dependencies    []string       `json:"dependencies,omitempty"`
	Files           []string       `json:"files,omitempty"`
	Structure       map[string]any `json:"structure,omitempty"`
	HasTests        bool           `json:"hasTests"`
	HasDocs         bool           `json:"hasDocs"`
	HasLicense      bool           `json:"hasLicense"`
	HasRequirements bool           `json:"hasRequirements"`
}

// AnalyzeProjectRequest is the body of POST /mcp/analyze-project.
type AnalyzeProjectRequest struct {
	ProjectPath         string `json:"projectPath" binding:"required"`
	IncludeFiles        bool   `json:"includeFiles"`
	IncludeDependencies bool   `json:"includeDependencies"`
}

// AnalyzeProjectResponse is the result of a project analysis.
type AnalyzeProjectResponse struct {
	Success     bool         `json:"success"`
	ProjectInfo *ProjectInfo `json:"projectInfo,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// GenerateReadmeRequest is the body of POST /mcp/generate-readme.
type GenerateReadmeRequest struct {
	ProjectPath string `json:"projectPath" binding:"required"`
	ReadmeType  string `json:"readmeType,omitempty"` // simple | advanced | installation
	Provider    string `json:"provider,omitempty"`
}

// GenerateReadmeResponse carries the generated README markdown.
type GenerateReadmeResponse struct {
	Success       bool              `json:"success"`
	ReadmeContent string            `json:"readmeContent,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// CreateGitignoreRequest is the body of POST /mcp/create-gitignore.
type CreateGitignoreRequest struct {
	ProjectPath     string `json:"projectPath" binding:"required"`
	Technologies    string `json:"technologies,omitempty"`
	IncludeDefaults bool   `json:"includeDefaults"`
}

// CreateGitignoreResponse carries the generated .gitignore content.
type CreateGitignoreResponse struct {
	Success          bool   `json:"success"`
	GitignoreContent string `json:"gitignoreContent,omitempty"`
	Error            string `json:"error,omitempty"`
}

// DeployGitHubRequest is the body of POST /mcp/deploy-github.
type DeployGitHubRequest struct {
	ProjectPath   string `json:"projectPath" binding:"required"`
	Branch        string `json:"branch,omitempty"`
	Private       bool   `json:"private"`
	ReadmeContent string `json:"readmeContent,omitempty"`
}

// FileSkip records a single file the deployment left behind and why.
type FileSkip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// DeployGitHubResponse is the result of a deployment run.
type DeployGitHubResponse struct {
	Success       bool       `json:"success"`
	RunId         string     `json:"runId,omitempty"`
	RepositoryUrl string     `json:"repositoryUrl,omitempty"`
	Repository    string     `json:"repository,omitempty"`
	Branch        string     `json:"branch,omitempty"`
	Private       bool       `json:"private"`
	FilesUploaded int        `json:"filesUploaded"`
	FilesSkipped  int        `json:"filesSkipped"`
	Skips         []FileSkip `json:"skips,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// RunStatus is the lifecycle state of a recorded deployment run.
type RunStatus string

// Run statuses.
const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RunRecord is a persisted deployment run, returned by GET /mcp/deployments.
type RunRecord struct {
	Id            string     `json:"id"`
	Repository    string     `json:"repository"`
	RepositoryUrl string     `json:"repositoryUrl,omitempty"`
	Branch        string     `json:"branch"`
	Private       bool       `json:"private"`
	Status        RunStatus  `json:"status"`
	FilesUploaded int        `json:"filesUploaded"`
	FilesSkipped  int        `json:"filesSkipped"`
	Skips         []FileSkip `json:"skips,omitempty"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ListRunsResponse wraps the run history listing.
type ListRunsResponse struct {
	Runs []RunRecord `json:"runs"`
}

// ProvidersResponse lists the configured README generation providers.
type ProvidersResponse struct {
	Providers []string `json:"providers"`
	Default   string   `json:"default"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}
