package speech

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

type SpeechFunc func(ctx context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error)

func (f SpeechFunc) CreateSpeech(ctx context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error) {
	return f(ctx, req)
}

// NewOpenAIWithAPI builds an OpenAI synthesizer over a stubbed API.
func NewOpenAIWithAPI(api SpeechFunc, options ...Option) *OpenAI {
	s := NewOpenAI("test", options...)
	s.client = api
	return s
}
