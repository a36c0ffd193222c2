package speech

import "errors"

// ErrEmptyText is returned when there is nothing to synthesize.
var ErrEmptyText = errors.New("empty text")
