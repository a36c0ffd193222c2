package services

import "errors"

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrForbidden    = errors.New("plan belongs to another user")
	ErrConflict     = errors.New("plan changed concurrently")
	ErrNoUser       = errors.New("user id is required")

	// ErrRejectedOutput marks generated content that failed validation.
	ErrRejectedOutput = errors.New("generated content rejected")
)
