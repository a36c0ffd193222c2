package generator

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"

	"goal-planner/app/logging"
)

// openaiAPI is the subset of the OpenAI client used for chat completions.
type openaiAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI generates text with OpenAI chat completions. Each configured model is
// tried in order until one returns a non-empty reply.
type OpenAI struct {
	client      openaiAPI
	models      []string
	baseURL     string
	temperature float32
}

// OpenAIOption configures an OpenAI generator.
type OpenAIOption func(*OpenAI)

// WithModels sets the model names to try, in order.
func WithModels(models ...string) OpenAIOption {
	return func(g *OpenAI) {
		g.models = models
	}
}

// WithBaseURL points the client at an OpenAI compatible endpoint.
func WithBaseURL(url string) OpenAIOption {
	return func(g *OpenAI) {
		g.baseURL = url
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) OpenAIOption {
	return func(g *OpenAI) {
		g.temperature = t
	}
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(apiKey string, options ...OpenAIOption) (*OpenAI, error) {
	g := &OpenAI{temperature: 0.7}
	for _, opt := range options {
		opt(g)
	}
	if len(g.models) == 0 {
		return nil, goerr.Wrap(ErrNoModels, "cannot create OpenAI generator")
	}

	config := openai.DefaultConfig(apiKey)
	if g.baseURL != "" {
		config.BaseURL = g.baseURL
	}
	g.client = openai.NewClientWithConfig(config)
	return g, nil
}

// Generate implements Generator.
func (g *OpenAI) Generate(ctx context.Context, p Prompt) (string, error) {
	logger := logging.From(ctx)

	var messages []openai.ChatCompletionMessage
	if p.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.User})

	var lastErr error
	for _, model := range g.models {
		req := openai.ChatCompletionRequest{
			Model:       model,
			Messages:    messages,
			Temperature: g.temperature,
		}
		if p.JSON {
			req.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}

		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return "", generationError(ctx.Err(), "chat completion cancelled", goerr.V("model", model))
			}
			logger.Warn("chat completion failed", "model", model, "error", err)
			lastErr = goerr.Wrap(err, "chat completion failed", goerr.V("model", model))
			continue
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			logger.Warn("empty chat completion", "model", model)
			lastErr = goerr.New("empty chat completion", goerr.V("model", model))
			continue
		}

		logger.Debug("chat completion done", "model", model, "total_tokens", resp.Usage.TotalTokens)
		return resp.Choices[0].Message.Content, nil
	}
	return "", generationError(lastErr, "every OpenAI model failed", goerr.V("models", g.models))
}
