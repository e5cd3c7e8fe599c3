package models

import "errors"

// Error categories shared across services. Input validation errors are
// recovered locally by reprompting; lookup and state-conflict errors
// abort the operation without mutating state.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrStateConflict = errors.New("state conflict")
)
