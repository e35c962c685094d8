package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps a service error onto an HTTP status. fallbackCode names the
// operation and is used for anything not covered by a sentinel.
func FromError(err error, fallbackCode string) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, coreerrs.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, coreerrs.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, coreerrs.ErrUnauthorized):
		return New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, coreerrs.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	case errors.Is(err, coreerrs.ErrInvalidState):
		return New(http.StatusConflict, "invalid_state", err)
	case errors.Is(err, context.DeadlineExceeded):
		return New(http.StatusGatewayTimeout, "timeout", err)
	}
	return New(http.StatusInternalServerError, fallbackCode, err)
}
