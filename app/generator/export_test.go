package generator

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
)

var (
	ExtractJSON = extractJSON
	Truncate    = truncate
)

type ChatCompletionFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

func (f ChatCompletionFunc) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f(ctx, req)
}

// NewOpenAIWithAPI builds an OpenAI generator over a stubbed API.
func NewOpenAIWithAPI(api ChatCompletionFunc, options ...OpenAIOption) *OpenAI {
	g := &OpenAI{}
	for _, opt := range options {
		opt(g)
	}
	g.client = api
	return g
}

type MessagesFunc func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)

func (f MessagesFunc) MessagesNew(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return f(ctx, params)
}

// NewClaudeWithAPI builds a Claude generator over a stubbed API.
func NewClaudeWithAPI(api MessagesFunc, options ...ClaudeOption) *Claude {
	c := NewClaude("test", options...)
	c.client = api
	return c
}
