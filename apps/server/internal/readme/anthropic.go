package readme

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	anthropicModel     = anthropic.Model("claude-3-haiku-20240307")
	anthropicMaxTokens = 2000
)

// Compile-time check: *AnthropicProvider implements Provider.
var _ Provider = (*AnthropicProvider)(nil)

// AnthropicProvider generates README text with the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider creates a provider using the given API key.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Name identifies this provider in response metadata.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Generate sends the prompts to the model and returns the concatenated text
// blocks of the reply.
func (p *AnthropicProvider) Generate(ctx context.Context, system, prompt string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropicModel,
		MaxTokens:   anthropicMaxTokens,
		Temperature: anthropic.Float(0.7),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
