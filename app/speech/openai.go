// Package speech turns coaching text into audio clips and archives them.
package speech

import (
	"context"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"
)

// Synthesizer converts text to audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type speechAPI interface {
	CreateSpeech(ctx context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error)
}

const (
	DefaultModel = "tts-1"
	DefaultVoice = "alloy"
)

// OpenAI synthesizes mp3 audio with the OpenAI speech endpoint.
type OpenAI struct {
	client  speechAPI
	model   string
	voice   string
	baseURL string
}

// Option configures an OpenAI synthesizer.
type Option func(*OpenAI)

// WithModel sets the speech model.
func WithModel(model string) Option {
	return func(s *OpenAI) {
		if model != "" {
			s.model = model
		}
	}
}

// WithVoice sets the voice.
func WithVoice(voice string) Option {
	return func(s *OpenAI) {
		if voice != "" {
			s.voice = voice
		}
	}
}

// WithBaseURL points the client at an OpenAI compatible endpoint.
func WithBaseURL(url string) Option {
	return func(s *OpenAI) {
		s.baseURL = url
	}
}

// NewOpenAI creates an OpenAI synthesizer.
func NewOpenAI(apiKey string, options ...Option) *OpenAI {
	s := &OpenAI{model: DefaultModel, voice: DefaultVoice}
	for _, opt := range options {
		opt(s)
	}

	config := openai.DefaultConfig(apiKey)
	if s.baseURL != "" {
		config.BaseURL = s.baseURL
	}
	s.client = openai.NewClientWithConfig(config)
	return s
}

// Synthesize implements Synthesizer.
func (s *OpenAI) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create speech", goerr.V("model", s.model), goerr.V("voice", s.voice))
	}
	defer func() { _ = resp.Close() }()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read speech audio")
	}
	return audio, nil
}
