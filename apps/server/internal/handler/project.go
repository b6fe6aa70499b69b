package handler

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neogit/neogit/apps/server/internal/analysis"
	"github.com/neogit/neogit/apps/server/internal/gitignore"
	"github.com/neogit/neogit/apps/server/internal/readme"
	"github.com/neogit/neogit/pkg/api"
)

const version = "1.0.0"

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Status:        "healthy",
		Version:       version,
		UptimeSeconds: time.Since(h.started).Seconds(),
	})
}

// Providers handles GET /mcp/providers — the configured README providers.
func (h *Handler) Providers(c *gin.Context) {
	def := readme.TemplateProviderName
	if len(h.providers) > 0 {
		def = h.providers[0]
	}
	c.JSON(http.StatusOK, api.ProvidersResponse{Providers: h.providers, Default: def})
}

// AnalyzeProject handles POST /mcp/analyze-project.
func (h *Handler) AnalyzeProject(c *gin.Context) {
	var req api.AnalyzeProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.AnalyzeProjectResponse{Error: err.Error()})
		return
	}

	info, err := analysis.Analyze(req.ProjectPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.AnalyzeProjectResponse{Error: err.Error()})
		return
	}

	out := toAPIProjectInfo(info)
	if !req.IncludeFiles {
		out.Files = nil
	}
	if !req.IncludeDependencies {
		out.Dependencies = nil
	}
	c.JSON(http.StatusOK, api.AnalyzeProjectResponse{Success: true, ProjectInfo: out})
}

// GenerateReadme handles POST /mcp/generate-readme.
func (h *Handler) GenerateReadme(c *gin.Context) {
	var req api.GenerateReadmeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.GenerateReadmeResponse{Error: err.Error()})
		return
	}
	if req.Provider != "" && !slices.Contains(h.providers, req.Provider) {
		c.JSON(http.StatusBadRequest, api.GenerateReadmeResponse{
			Error: fmt.Sprintf("unknown provider %q", req.Provider),
		})
		return
	}

	info, err := analysis.Analyze(req.ProjectPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.GenerateReadmeResponse{Error: err.Error()})
		return
	}

	content, providerUsed := h.readmes.Generate(c.Request.Context(), info, req.ReadmeType)
	c.JSON(http.StatusOK, api.GenerateReadmeResponse{
		Success:       true,
		ReadmeContent: content,
		Metadata: map[string]string{
			"providerUsed":      providerUsed,
			"readmeType":        req.ReadmeType,
			"projectLanguage":   info.Language,
			"projectFramework":  info.Framework,
			"dependenciesCount": strconv.Itoa(len(info.Dependencies)),
		},
	})
}

// CreateGitignore handles POST /mcp/create-gitignore. The generated file is
// written into the project directory and echoed in the response.
func (h *Handler) CreateGitignore(c *gin.Context) {
	var req api.CreateGitignoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.CreateGitignoreResponse{Error: err.Error()})
		return
	}

	technologies := req.Technologies
	if technologies == "" {
		// Detect the primary language when the caller did not name any.
		if info, err := analysis.Analyze(req.ProjectPath); err == nil {
			technologies = technologyToken(info.Language)
		}
	}

	content := h.gitignores.Generate(c.Request.Context(), technologies, req.IncludeDefaults)
	if _, err := gitignore.Save(req.ProjectPath, content); err != nil {
		c.JSON(http.StatusBadRequest, api.CreateGitignoreResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.CreateGitignoreResponse{Success: true, GitignoreContent: content})
}

// technologyToken maps an analysis language to a gitignore.io token.
func technologyToken(language string) string {
	switch language {
	case "JavaScript/TypeScript":
		return "node"
	case "C/C++":
		return "c++"
	case "Unknown", "":
		return ""
	default:
		return strings.ToLower(language)
	}
}

func toAPIProjectInfo(info *analysis.ProjectInfo) *api.ProjectInfo {
	return &api.ProjectInfo{
		Name:         info.Name,
		Description:  info.Description,
		Language:     info.Language,
		Framework:    info.Framework,
		Dependencies: info.Dependencies,
		Files:        info.Files,
		Structure: map[string]any{
			"srcDirs":     info.Structure.SrcDirs,
			"testDirs":    info.Structure.TestDirs,
			"configFiles": info.Structure.ConfigFiles,
			"buildFiles":  info.Structure.BuildFiles,
		},
		HasTests:        info.HasTests,
		HasDocs:         info.HasDocs,
		HasLicense:      info.HasLicense,
		HasRequirements: info.HasRequirements,
	}
}
