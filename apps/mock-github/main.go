// mock-github is a local stand-in for the GitHub REST API, covering the
// endpoints the neogit server uses: repository lookup/creation, the git data
// API (blobs, trees, commits, refs), and the contents API. Point the server
// at it with GITHUB_BASE_URL for development without real credentials.
package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	owner := os.Getenv("MOCK_OWNER")
	if owner == "" {
		owner = "local"
	}
	s := newGitStore(owner)

	r := gin.Default()
	registerAPIRoutes(r, s, log)
	registerHTMLRoutes(r, s)

	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	log.Info("mock-github starting", "port", port, "owner", owner)
	if err := r.Run(":" + port); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func registerAPIRoutes(r *gin.Engine, s *gitStore, log *slog.Logger) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Repositories
	r.GET("/repos/:owner/:repo", func(c *gin.Context) {
		meta, err := s.getRepo(c.Param("repo"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, repoJSON(meta))
	})

	r.POST("/user/repos", func(c *gin.Context) {
		var req struct {
			Name        string `json:"name" binding:"required"`
			Description string `json:"description"`
			Private     bool   `json:"private"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		meta, err := s.createRepo(req.Name, req.Description, req.Private)
		if err != nil {
			fail(c, err)
			return
		}
		log.Info("repository created", "name", req.Name, "private", req.Private)
		c.JSON(http.StatusCreated, repoJSON(meta))
	})

	// Git data: refs
	r.GET("/repos/:owner/:repo/git/ref/*ref", func(c *gin.Context) {
		branch := normalizeRef(c.Param("ref"))
		sha, err := s.getRef(c.Param("repo"), branch)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, refJSON(branch, sha))
	})

	r.POST("/repos/:owner/:repo/git/refs", func(c *gin.Context) {
		var req struct {
			Ref string `json:"ref" binding:"required"`
			SHA string `json:"sha" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		branch := normalizeRef(req.Ref)
		if err := s.createRef(c.Param("repo"), branch, req.SHA); err != nil {
			fail(c, err)
			return
		}
		log.Info("ref created", "repo", c.Param("repo"), "branch", branch, "sha", req.SHA)
		c.JSON(http.StatusCreated, refJSON(branch, req.SHA))
	})

	r.PATCH("/repos/:owner/:repo/git/refs/*ref", func(c *gin.Context) {
		var req struct {
			SHA   string `json:"sha" binding:"required"`
			Force bool   `json:"force"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		branch := normalizeRef(c.Param("ref"))
		if err := s.updateRef(c.Param("repo"), branch, req.SHA); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, refJSON(branch, req.SHA))
	})

	// Git data: objects
	r.POST("/repos/:owner/:repo/git/blobs", func(c *gin.Context) {
		var req struct {
			Content  string `json:"content"`
			Encoding string `json:"encoding"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		content := []byte(req.Content)
		if req.Encoding == "base64" {
			decoded, err := base64.StdEncoding.DecodeString(req.Content)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid base64 content"})
				return
			}
			content = decoded
		}
		sha, err := s.createBlob(c.Param("repo"), content)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"sha": sha})
	})

	r.POST("/repos/:owner/:repo/git/trees", func(c *gin.Context) {
		var req struct {
			BaseTree string `json:"base_tree"`
			Tree     []struct {
				Path string `json:"path"`
				Mode string `json:"mode"`
				Type string `json:"type"`
				SHA  string `json:"sha"`
			} `json:"tree" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		entries := make(map[string]string, len(req.Tree))
		for _, e := range req.Tree {
			entries[e.Path] = e.SHA
		}
		sha, err := s.createTree(c.Param("repo"), req.BaseTree, entries)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"sha": sha})
	})

	r.POST("/repos/:owner/:repo/git/commits", func(c *gin.Context) {
		var req struct {
			Message string   `json:"message"`
			Tree    string   `json:"tree" binding:"required"`
			Parents []string `json:"parents"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		sha, err := s.createCommit(c.Param("repo"), req.Message, req.Tree, req.Parents)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, commitJSON(sha, req.Tree, req.Parents, req.Message))
	})

	r.GET("/repos/:owner/:repo/git/commits/:sha", func(c *gin.Context) {
		commit, err := s.getCommit(c.Param("repo"), c.Param("sha"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, commitJSON(c.Param("sha"), commit.Tree, commit.Parents, commit.Message))
	})

	// Contents API
	r.GET("/repos/:owner/:repo/contents/*path", func(c *gin.Context) {
		path := strings.TrimPrefix(c.Param("path"), "/")
		branch := c.DefaultQuery("ref", "main")

		sha, content, err := s.fileAt(c.Param("repo"), branch, path)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"type":     "file",
			"path":     path,
			"sha":      sha,
			"content":  base64.StdEncoding.EncodeToString(content),
			"encoding": "base64",
		})
	})

	r.PUT("/repos/:owner/:repo/contents/*path", func(c *gin.Context) {
		path := strings.TrimPrefix(c.Param("path"), "/")
		var req struct {
			Message string `json:"message"`
			Content []byte `json:"content"` // base64 in JSON
			SHA     string `json:"sha"`
			Branch  string `json:"branch"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		branch := req.Branch
		if branch == "" {
			branch = "main"
		}

		repo := c.Param("repo")
		if err := s.putFile(repo, branch, path, req.Message, req.Content, req.SHA); err != nil {
			fail(c, err)
			return
		}
		newSHA, _, _ := s.fileAt(repo, branch, path)
		head, _ := s.getRef(repo, branch)
		c.JSON(http.StatusOK, gin.H{
			"content": gin.H{"path": path, "sha": newSHA},
			"commit":  gin.H{"sha": head, "message": req.Message},
		})
	})
}

// fail maps store errors onto GitHub's status codes and error shape.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errRepoNotFound), errors.Is(err, errRefNotFound), errors.Is(err, errObjectMissing):
		status = http.StatusNotFound
	case errors.Is(err, errRepoEmpty), errors.Is(err, errShaMismatch):
		status = http.StatusConflict
	case errors.Is(err, errRepoExists), errors.Is(err, errRefExists),
		errors.Is(err, errNotFastFwd), errors.Is(err, errShaRequired):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

func repoJSON(meta *repoMeta) gin.H {
	return gin.H{
		"name":           meta.Name,
		"full_name":      meta.Owner + "/" + meta.Name,
		"owner":          gin.H{"login": meta.Owner},
		"description":    meta.Description,
		"private":        meta.Private,
		"default_branch": "main",
		"html_url":       fmt.Sprintf("http://localhost:9090/%s/%s", meta.Owner, meta.Name),
	}
}

func refJSON(branch, sha string) gin.H {
	return gin.H{
		"ref":    "refs/heads/" + branch,
		"object": gin.H{"type": "commit", "sha": sha},
	}
}

func commitJSON(sha, tree string, parents []string, message string) gin.H {
	parentObjs := make([]gin.H, 0, len(parents))
	for _, p := range parents {
		parentObjs = append(parentObjs, gin.H{"sha": p})
	}
	return gin.H{
		"sha":     sha,
		"message": message,
		"tree":    gin.H{"sha": tree},
		"parents": parentObjs,
	}
}

// --- HTML dashboard ---

func registerHTMLRoutes(r *gin.Engine, s *gitStore) {
	r.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, renderDashboard(s))
	})

	r.GET("/:owner/:repo", func(c *gin.Context) {
		repo := c.Param("repo")
		files, err := s.filesAt(repo, "main")
		if err != nil {
			c.String(http.StatusNotFound, "repository not found or empty")
			return
		}
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, renderRepoPage(c.Param("owner"), repo, files))
	})
}

func renderDashboard(s *gitStore) string {
	rows := ""
	repos := s.listRepos()
	var sb strings.Builder
	for _, meta := range repos {
		visibility := "Public"
		if meta.Private {
			visibility = "Private"
		}
		sb.WriteString(fmt.Sprintf(`
        <tr>
          <td style="padding:12px 16px;border-bottom:1px solid #21262d;">
            <a href="/%s/%s" style="color:#58a6ff;text-decoration:none;font-weight:600;">%s</a>
          </td>
          <td style="padding:12px 16px;border-bottom:1px solid #21262d;color:#8b949e;font-size:13px;">%s</td>
          <td style="padding:12px 16px;border-bottom:1px solid #21262d;color:#8b949e;font-size:13px;">%s</td>
        </tr>`, meta.Owner, meta.Name, meta.Name, meta.Description, visibility))
	}
	rows += sb.String()

	if len(repos) == 0 {
		rows = `<tr><td colspan="3" style="padding:40px 16px;text-align:center;color:#8b949e;">No repositories yet. Deploy a project from the neogit server.</td></tr>`
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>Mock GitHub</title>
  <meta http-equiv="refresh" content="3">
  <style>
    * { margin:0; padding:0; box-sizing:border-box; }
    body { background:#0d1117; color:#c9d1d9; font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Helvetica,Arial,sans-serif; }
  </style>
</head>
<body>
  <div style="max-width:860px;margin:0 auto;padding:32px 16px;">
    <div style="display:flex;align-items:center;justify-content:space-between;margin-bottom:24px;">
      <h1 style="font-size:20px;font-weight:600;">Repositories</h1>
      <span style="font-size:13px;color:#8b949e;">%d total</span>
    </div>
    <table style="width:100%%;border-collapse:collapse;background:#161b22;border:1px solid #30363d;border-radius:6px;overflow:hidden;">
      <thead>
        <tr style="background:#161b22;">
          <th style="padding:12px 16px;text-align:left;font-size:12px;color:#8b949e;border-bottom:1px solid #21262d;font-weight:500;">Name</th>
          <th style="padding:12px 16px;text-align:left;font-size:12px;color:#8b949e;border-bottom:1px solid #21262d;font-weight:500;">Description</th>
          <th style="padding:12px 16px;text-align:left;font-size:12px;color:#8b949e;border-bottom:1px solid #21262d;font-weight:500;">Visibility</th>
        </tr>
      </thead>
      <tbody>%s</tbody>
    </table>
  </div>
</body>
</html>`, len(repos), rows)
}

func renderRepoPage(owner, repo string, files map[string][]byte) string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var sb strings.Builder
	for _, path := range paths {
		sb.WriteString(fmt.Sprintf(`
      <div style="margin-bottom:2px;">
        <div style="padding:10px 16px;background:#1c2128;border:1px solid #30363d;border-radius:6px 6px 0 0;font-size:13px;">
          <code style="color:#79c0ff;">%s</code>
        </div>
        <pre style="margin:0;padding:16px;background:#0d1117;border:1px solid #30363d;border-top:none;border-radius:0 0 6px 6px;font-size:12px;color:#8b949e;overflow-x:auto;white-space:pre-wrap;">%s</pre>
      </div>`, path, previewContent(files[path])))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>%s/%s - Mock GitHub</title>
  <style>
    * { margin:0; padding:0; box-sizing:border-box; }
    body { background:#0d1117; color:#c9d1d9; font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Helvetica,Arial,sans-serif; }
    a { color:#58a6ff; text-decoration:none; }
    a:hover { text-decoration:underline; }
  </style>
</head>
<body>
  <div style="max-width:860px;margin:0 auto;padding:32px 16px;">
    <div style="margin-bottom:24px;font-size:13px;">
      <a href="/">All repositories</a>
    </div>
    <h1 style="font-size:24px;font-weight:400;margin-bottom:24px;">%s/%s <span style="color:#8b949e;font-size:14px;">(%d files on main)</span></h1>
    %s
  </div>
</body>
</html>`, owner, repo, owner, repo, len(paths), sb.String())
}

func previewContent(content []byte) string {
	const maxPreview = 2048
	for _, b := range content {
		if b == 0 {
			return fmt.Sprintf("(binary, %d bytes)", len(content))
		}
	}
	text := string(content)
	if len(text) > maxPreview {
		text = text[:maxPreview] + "\n…"
	}
	return strings.ReplaceAll(strings.ReplaceAll(text, "<", "&lt;"), ">", "&gt;")
}
