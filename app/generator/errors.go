package generator

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrGeneration marks any failure to obtain usable output from a model.
	ErrGeneration = errors.New("generation failed")
	// ErrNoModels is returned when a generator is built without any model names.
	ErrNoModels = errors.New("no models configured")
)

func generationError(err error, msg string, values ...goerr.Option) error {
	if errors.Is(err, ErrGeneration) {
		return goerr.Wrap(err, msg, values...)
	}
	return goerr.Wrap(errors.Join(ErrGeneration, err), msg, values...)
}
