package speech

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"goal-planner/app/logging"
)

// Speaker synthesizes text and archives the result.
type Speaker struct {
	synth   Synthesizer
	archive Archive
}

// NewSpeaker creates a Speaker. A nil archive discards clips.
func NewSpeaker(synth Synthesizer, archive Archive) *Speaker {
	if archive == nil {
		archive = Nop{}
	}
	return &Speaker{synth: synth, archive: archive}
}

// Speak returns the audio for text. A failed archive write is logged and does
// not fail the call.
func (s *Speaker) Speak(ctx context.Context, name, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyText, "nothing to speak", goerr.V("clip", name))
	}

	audio, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	logger := logging.From(ctx)
	location, err := s.archive.Save(ctx, name, audio)
	if err != nil {
		logger.Warn("failed to archive clip", "clip", name, "error", err)
	} else if location != "" {
		logger.Info("clip archived", "clip", name, "location", location, "bytes", len(audio))
	}
	return audio, nil
}
