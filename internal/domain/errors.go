package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrBusy          = errors.New("a route request is already in flight")
	ErrNoRoute       = errors.New("routing service returned no route")
	ErrStaleResponse = errors.New("route response discarded: waypoints changed while in flight")
	ErrStaleDraft    = errors.New("policy draft is based on an outdated policy")
)

// Invalid wraps ErrValidation with a formatted detail message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
