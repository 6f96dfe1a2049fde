package seesaw

import (
	"errors"
	"fmt"
)

// Domain errors for seesaw operations.
var (
	// ErrMalformedState indicates persisted state that could not be decoded.
	ErrMalformedState = errors.New("seesaw: malformed persisted state")

	// ErrWeightOutOfRange indicates a weight outside the configured domain.
	ErrWeightOutOfRange = errors.New("seesaw: weight out of range")

	// ErrInvalidParams indicates a parameter set the core cannot run with.
	ErrInvalidParams = errors.New("seesaw: invalid parameters")
)

// ParamError wraps ErrInvalidParams with the offending field.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidParams.Error(), e.Field, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParams
}
