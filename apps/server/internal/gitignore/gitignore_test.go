package gitignore_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neogit/neogit/apps/server/internal/gitignore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// apiServer fakes the gitignore.io endpoint, capturing the requested path.
func apiServer(t *testing.T, status int, body string) (*gitignore.Generator, *string) {
	t.Helper()
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	g := gitignore.NewGenerator(testLogger(), gitignore.WithEndpoint(srv.URL), gitignore.WithHTTPClient(srv.Client()))
	return g, &requested
}

// ─── API path ────────────────────────────────────────────────────────────────

func TestGenerate_UsesAPIContent(t *testing.T) {
	g, requested := apiServer(t, http.StatusOK, "# Created by gitignore.io\n*.pyc\n")

	content := g.Generate(context.Background(), "python,go", false)

	assert.Equal(t, "/python,go", *requested)
	assert.Contains(t, content, "# Created by gitignore.io")
	assert.True(t, strings.HasSuffix(content, "\n"))
}

func TestGenerate_AppendsRequiredPatterns(t *testing.T) {
	g, _ := apiServer(t, http.StatusOK, "*.pyc\n")

	content := g.Generate(context.Background(), "python", true)

	for _, pattern := range []string{".env", "*.secret", ".venv", "node_modules"} {
		assert.Contains(t, content, pattern)
	}
}

func TestGenerate_DoesNotDuplicateRequiredPatterns(t *testing.T) {
	g, _ := apiServer(t, http.StatusOK, ".env\n*.pyc\n")

	content := g.Generate(context.Background(), "python", true)

	assert.Equal(t, 1, strings.Count(content, ".env\n"))
}

func TestGenerate_EmptyTechnologiesDefaultsToPython(t *testing.T) {
	g, requested := apiServer(t, http.StatusOK, "*.pyc\n")

	g.Generate(context.Background(), "", false)

	assert.Equal(t, "/python", *requested)
}

// ─── Builtin fallback ────────────────────────────────────────────────────────

func TestGenerate_APIErrorStatus_FallsBackToBuiltin(t *testing.T) {
	g, _ := apiServer(t, http.StatusServiceUnavailable, "")

	content := g.Generate(context.Background(), "python", false)

	assert.Contains(t, content, "# Basic .gitignore file")
	assert.Contains(t, content, "__pycache__")
}

func TestGenerate_APIUnreachable_FallsBackToBuiltin(t *testing.T) {
	g := gitignore.NewGenerator(testLogger(), gitignore.WithEndpoint("http://127.0.0.1:1"))

	content := g.Generate(context.Background(), "go", true)

	assert.Contains(t, content, "# Go")
	assert.Contains(t, content, ".env")
}

func TestGenerate_BuiltinHandlesMultipleTechnologies(t *testing.T) {
	g := gitignore.NewGenerator(testLogger(), gitignore.WithEndpoint("http://127.0.0.1:1"))

	content := g.Generate(context.Background(), "python, node", false)

	assert.Contains(t, content, "__pycache__")
	assert.Contains(t, content, "node_modules/")
}

// ─── Save ────────────────────────────────────────────────────────────────────

func TestSave_WritesGitignore(t *testing.T) {
	dir := t.TempDir()

	path, err := gitignore.Save(dir, "*.pyc\n")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".gitignore"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "*.pyc\n", string(data))
}

func TestSave_MissingDir_Errors(t *testing.T) {
	_, err := gitignore.Save(filepath.Join(t.TempDir(), "nope"), "x")
	assert.Error(t, err)
}
