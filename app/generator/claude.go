package generator

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = "claude-3-5-haiku-latest"

type claudeAPI interface {
	MessagesNew(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

type claudeClient struct {
	client *anthropic.Client
}

func (c *claudeClient) MessagesNew(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return c.client.Messages.New(ctx, params)
}

// Claude generates text with the Anthropic messages API.
type Claude struct {
	client    claudeAPI
	model     string
	maxTokens int64
}

// ClaudeOption configures a Claude generator.
type ClaudeOption func(*Claude)

// WithClaudeModel sets the model name.
func WithClaudeModel(model string) ClaudeOption {
	return func(c *Claude) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxTokens limits the reply length.
func WithMaxTokens(n int64) ClaudeOption {
	return func(c *Claude) {
		c.maxTokens = n
	}
}

// NewClaude creates a Claude generator.
func NewClaude(apiKey string, options ...ClaudeOption) *Claude {
	c := &Claude{
		model:     DefaultClaudeModel,
		maxTokens: 4096,
	}
	for _, opt := range options {
		opt(c)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c.client = &claudeClient{client: &client}
	return c
}

// Generate implements Generator. Claude has no JSON mode, so JSON prompts get
// an extra instruction and the caller extracts the object from the reply.
func (c *Claude) Generate(ctx context.Context, p Prompt) (string, error) {
	user := p.User
	if p.JSON {
		user += "\n\nRespond with a single JSON object and nothing else."
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
	if p.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.System}}
	}

	resp, err := c.client.MessagesNew(ctx, params)
	if err != nil {
		return "", generationError(err, "claude message failed", goerr.V("model", c.model))
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", generationError(goerr.New("no text in reply"), "claude returned nothing", goerr.V("model", c.model))
	}
	return b.String(), nil
}
