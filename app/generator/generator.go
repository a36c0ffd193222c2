// Package generator talks to hosted language models to produce plans, replan
// batches and coaching text.
package generator

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"goal-planner/app/logging"
)

// Prompt is a single request to a model.
type Prompt struct {
	System string
	User   string
	// JSON asks the model to reply with a JSON object only.
	JSON bool
}

// Generator returns a model's reply to one prompt.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Chain tries each generator in order and returns the first successful reply.
type Chain []Generator

// Generate implements Generator.
func (c Chain) Generate(ctx context.Context, p Prompt) (string, error) {
	if len(c) == 0 {
		return "", goerr.Wrap(ErrGeneration, "empty generator chain")
	}

	var errs []error
	for i, g := range c {
		out, err := g.Generate(ctx, p)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", generationError(ctxErr, "generation cancelled")
		}
		logging.From(ctx).Warn("generator failed, trying next", "index", i, "error", err)
		errs = append(errs, err)
	}
	return "", generationError(errors.Join(errs...), "all generators failed", goerr.V("count", len(c)))
}
