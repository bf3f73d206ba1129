package usecase

import (
	"context"
	"fmt"

	"chat-relay/internal/logging"
)

type ErrorCode string

const (
	ErrorMalformedInput ErrorCode = "MALFORMED_INPUT"
	ErrorStateStore     ErrorCode = "STATE_STORE_ERROR"
	ErrorDownstream     ErrorCode = "DOWNSTREAM_ERROR"
)

// Error is a failure absorbed by a stage. It is recorded in the step's result
// and logged; it never crosses a stage boundary.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// absorb wraps err, logs it at warn level and returns it for the result.
// A nil err yields nil.
func absorb(ctx context.Context, code ErrorCode, reason string, err error) *Error {
	if err == nil {
		return nil
	}
	e := newError(code, reason, err)
	logging.FromContext(ctx).Warn("absorbed failure", "code", string(code), "reason", reason, "err", err)
	return e
}
