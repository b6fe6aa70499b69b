package readme_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neogit/neogit/apps/server/internal/analysis"
	"github.com/neogit/neogit/apps/server/internal/readme"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pythonInfo() *analysis.ProjectInfo {
	return &analysis.ProjectInfo{
		Name:            "web-shop",
		Description:     "A web shop project",
		Language:        "Python",
		Framework:       "Flask",
		Dependencies:    []string{"flask", "requests"},
		HasTests:        true,
		HasDocs:         true,
		HasRequirements: true,
	}
}

// stubProvider returns canned text or a canned error.
type stubProvider struct {
	text string
	err  error

	gotSystem string
	gotPrompt string
}

var _ readme.Provider = (*stubProvider)(nil)

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(_ context.Context, system, prompt string) (string, error) {
	p.gotSystem = system
	p.gotPrompt = prompt
	return p.text, p.err
}

// ─── Provider selection ──────────────────────────────────────────────────────

func TestGenerate_NoProvider_UsesTemplate(t *testing.T) {
	g := readme.NewGenerator(nil, testLogger())

	content, used := g.Generate(context.Background(), pythonInfo(), readme.TypeSimple)

	assert.Equal(t, readme.TemplateProviderName, used)
	assert.Contains(t, content, "# web-shop")
	assert.Contains(t, content, "pip install -r requirements.txt")
}

func TestGenerate_ProviderText_Wins(t *testing.T) {
	p := &stubProvider{text: "# AI generated"}
	g := readme.NewGenerator(p, testLogger())

	content, used := g.Generate(context.Background(), pythonInfo(), readme.TypeAdvanced)

	assert.Equal(t, "stub", used)
	assert.Equal(t, "# AI generated", content)
}

func TestGenerate_ProviderError_FallsBackToTemplate(t *testing.T) {
	p := &stubProvider{err: errors.New("rate limited")}
	g := readme.NewGenerator(p, testLogger())

	content, used := g.Generate(context.Background(), pythonInfo(), readme.TypeAdvanced)

	assert.Equal(t, readme.TemplateProviderName, used)
	assert.Contains(t, content, "web-shop")
}

func TestGenerate_ProviderBlankText_FallsBackToTemplate(t *testing.T) {
	p := &stubProvider{text: "  \n "}
	g := readme.NewGenerator(p, testLogger())

	_, used := g.Generate(context.Background(), pythonInfo(), readme.TypeSimple)

	assert.Equal(t, readme.TemplateProviderName, used)
}

// ─── Prompt construction ─────────────────────────────────────────────────────

func TestGenerate_PromptCarriesProjectFacts(t *testing.T) {
	p := &stubProvider{text: "ok"}
	g := readme.NewGenerator(p, testLogger())

	g.Generate(context.Background(), pythonInfo(), readme.TypeInstallation)

	assert.Contains(t, p.gotSystem, "technical writer")
	assert.Contains(t, p.gotPrompt, "Project Name: web-shop")
	assert.Contains(t, p.gotPrompt, "Language: Python")
	assert.Contains(t, p.gotPrompt, "Framework: Flask")
	assert.Contains(t, p.gotPrompt, "flask, requests")
	assert.Contains(t, p.gotPrompt, "README Type: installation")
	assert.Contains(t, p.gotPrompt, "installation and setup")
}

func TestGenerate_EmptyType_DefaultsToAdvanced(t *testing.T) {
	p := &stubProvider{text: "ok"}
	g := readme.NewGenerator(p, testLogger())

	g.Generate(context.Background(), pythonInfo(), "")

	assert.Contains(t, p.gotPrompt, "README Type: advanced")
}

// ─── Template flavors ────────────────────────────────────────────────────────

func TestTemplate_SimpleOmitsBadges(t *testing.T) {
	g := readme.NewGenerator(nil, testLogger())

	content, _ := g.Generate(context.Background(), pythonInfo(), readme.TypeSimple)

	assert.NotContains(t, content, "img.shields.io")
	assert.Contains(t, content, "python main.py")
}

func TestTemplate_AdvancedHasBadgesAndChecks(t *testing.T) {
	g := readme.NewGenerator(nil, testLogger())

	info := pythonInfo()
	info.HasLicense = false
	content, _ := g.Generate(context.Background(), info, readme.TypeAdvanced)

	assert.Contains(t, content, "img.shields.io")
	assert.Contains(t, content, "🐍")
	assert.Contains(t, content, "**Tests** ✅")
	assert.Contains(t, content, "**License** ❌")
	assert.Contains(t, content, "**Flask** framework integration")
}

func TestTemplate_InstallationFocusesOnSetup(t *testing.T) {
	g := readme.NewGenerator(nil, testLogger())

	content, _ := g.Generate(context.Background(), pythonInfo(), readme.TypeInstallation)

	assert.Contains(t, content, "## Prerequisites")
	assert.Contains(t, content, "## Troubleshooting")
	assert.Contains(t, content, "pytest")
}

func TestTemplate_UnknownLanguageGetsGenericCommands(t *testing.T) {
	g := readme.NewGenerator(nil, testLogger())

	info := &analysis.ProjectInfo{Name: "thing", Description: "A thing project", Language: "Unknown"}
	content, _ := g.Generate(context.Background(), info, readme.TypeAdvanced)

	assert.Contains(t, content, "📦")
	require.True(t, strings.Contains(content, "Check project documentation"))
}
