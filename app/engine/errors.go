package engine

import "errors"

var (
	ErrInvalidPercentage = errors.New("invalid percentage input")
	ErrBatchTooSmall     = errors.New("replan batch is smaller than requested")
	ErrNilPlan           = errors.New("plan is required")
)
