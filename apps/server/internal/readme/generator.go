// Package readme turns a project analysis into README.md content. An AI
// provider produces the text when one is configured; otherwise (or when the
// provider fails) a deterministic template takes over.
package readme

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neogit/neogit/apps/server/internal/analysis"
)

// README flavors. Advanced is the default.
const (
	TypeSimple       = "simple"
	TypeInstallation = "installation"
	TypeAdvanced     = "advanced"
)

// TemplateProviderName is reported when the builtin template produced the
// README, either because no AI provider is configured or because the
// configured one failed.
const TemplateProviderName = "template"

const systemPrompt = "You are an expert technical writer and open source documentation specialist. " +
	"Your job is to create clear, comprehensive, and engaging README.md files for software projects. " +
	"You follow best practices for open source documentation, ensuring the README is well-structured, " +
	"easy to navigate, and provides all essential information for users and contributors. " +
	"Always use professional Markdown formatting, include badges if relevant, and tailor the content " +
	"to the project's language and framework. " +
	"Be concise but thorough, and make the README welcoming for both new users and contributors."

// Provider generates README text from a prompt.
type Provider interface {
	// Name identifies the provider in response metadata.
	Name() string
	// Generate returns Markdown for the given system and user prompts.
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Generator produces README content, preferring the configured provider and
// falling back to templates.
type Generator struct {
	provider Provider
	log      *slog.Logger
}

// NewGenerator creates a Generator. provider may be nil, in which case every
// README comes from the template.
func NewGenerator(provider Provider, log *slog.Logger) *Generator {
	return &Generator{provider: provider, log: log}
}

// Generate returns the README content and the name of the provider that
// produced it. It never fails: provider errors degrade to the template.
func (g *Generator) Generate(ctx context.Context, info *analysis.ProjectInfo, readmeType string) (content, providerUsed string) {
	if readmeType == "" {
		readmeType = TypeAdvanced
	}
	if g.provider == nil {
		return renderTemplate(info, readmeType), TemplateProviderName
	}

	text, err := g.provider.Generate(ctx, systemPrompt, buildPrompt(info, readmeType))
	if err != nil || strings.TrimSpace(text) == "" {
		g.log.Warn("readme provider failed, using template",
			slog.String("provider", g.provider.Name()),
			slog.Any("error", err))
		return renderTemplate(info, readmeType), TemplateProviderName
	}
	return text, g.provider.Name()
}

func buildPrompt(info *analysis.ProjectInfo, readmeType string) string {
	structure, _ := json.MarshalIndent(info.Structure, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "Create a professional README.md for the following project:\n\n")
	fmt.Fprintf(&b, "Project Name: %s\n", info.Name)
	fmt.Fprintf(&b, "Description: %s\n", info.Description)
	fmt.Fprintf(&b, "Language: %s\n", info.Language)
	fmt.Fprintf(&b, "Framework: %s\n", orNone(info.Framework))
	fmt.Fprintf(&b, "Dependencies: %s\n", strings.Join(info.Dependencies, ", "))
	fmt.Fprintf(&b, "Has Tests: %t\n", info.HasTests)
	fmt.Fprintf(&b, "Has Documentation: %t\n", info.HasDocs)
	fmt.Fprintf(&b, "Has License: %t\n", info.HasLicense)
	fmt.Fprintf(&b, "Has Requirements: %t\n\n", info.HasRequirements)
	fmt.Fprintf(&b, "Project Structure:\n%s\n\n", structure)
	fmt.Fprintf(&b, "README Type: %s\n\n", readmeType)
	b.WriteString(`Please create a comprehensive README that includes:
1. Project title and description
2. Features and capabilities
3. Installation instructions
4. Usage examples
5. Configuration options
6. Contributing guidelines
7. License information

Make it engaging, professional, and tailored to the project's specific language and framework.`)

	switch readmeType {
	case TypeSimple:
		b.WriteString("\n\nKeep it simple and concise, focusing on essential information only.")
	case TypeInstallation:
		b.WriteString("\n\nFocus heavily on installation and setup instructions, with detailed steps for different environments.")
	default:
		b.WriteString("\n\nMake it comprehensive with detailed sections, examples, and advanced usage patterns.")
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
