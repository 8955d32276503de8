package entity

import "errors"

// Standard domain errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded: too many predictions requested")
	ErrModelUnavailable  = errors.New("prediction model is not available")
	ErrInternalServer    = errors.New("an internal error occurred")
)
