package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict marks a lost optimistic update or a unique-key collision.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState marks an operation not allowed in the resource's current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrUpstreamUnavailable marks a failed or timed out call to the text generator.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
