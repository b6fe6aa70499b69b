// Package gitignore builds .gitignore content for a project. It asks the
// gitignore.io API for the requested technologies and falls back to builtin
// patterns when the service is unreachable.
package gitignore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultEndpoint = "https://www.toptal.com/developers/gitignore/api"

// requiredPatterns are always appended so local secrets never reach the
// remote repository.
var requiredPatterns = []string{".env", "*.secret", ".venv", "node_modules"}

// Generator produces .gitignore content.
type Generator struct {
	client   *http.Client
	endpoint string
	log      *slog.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithEndpoint overrides the gitignore.io API base URL.
func WithEndpoint(endpoint string) Option {
	return func(g *Generator) { g.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client used for the API call.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) { g.client = client }
}

// NewGenerator creates a Generator.
func NewGenerator(log *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: defaultEndpoint,
		log:      log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns .gitignore content for the comma-separated technology
// list. includeDefaults appends the required secret-guarding patterns. It
// never fails: API errors degrade to the builtin patterns.
func (g *Generator) Generate(ctx context.Context, technologies string, includeDefaults bool) string {
	if technologies == "" {
		technologies = "python"
	}

	content, err := g.fetch(ctx, technologies)
	if err != nil {
		g.log.Warn("gitignore.io unavailable, using builtin patterns",
			slog.String("technologies", technologies),
			slog.Any("error", err))
		return builtinGitignore(technologies, includeDefaults)
	}

	if includeDefaults {
		for _, pattern := range requiredPatterns {
			if !strings.Contains(content, pattern) {
				content += "\n" + pattern
			}
		}
	}
	return content + "\n"
}

func (g *Generator) fetch(ctx context.Context, technologies string) (string, error) {
	u := g.endpoint + "/" + url.PathEscape(technologies)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", u, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return strings.TrimRight(string(body), "\n"), nil
}

// Save writes the content to <projectPath>/.gitignore and returns the path.
func Save(projectPath, content string) (string, error) {
	path := filepath.Join(projectPath, ".gitignore")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
