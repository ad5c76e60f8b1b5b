package tools

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrToolNotFound      = errors.New("tool not found")
	ErrComingSoon        = errors.New("tool coming soon")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// InputError carries the short message shown next to the control that
// triggered the action.
type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// Invalid builds an InputError with a formatted message.
func Invalid(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidWrap builds an InputError that keeps the underlying cause.
func InvalidWrap(err error, format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// Message converts err into user-facing text.
func Message(err error) string {
	var inputErr *InputError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &inputErr):
		return inputErr.Msg
	case errors.Is(err, ErrToolNotFound):
		return "Tool not found"
	case errors.Is(err, ErrComingSoon):
		return "This tool is coming soon."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The operation was abandoned."
	default:
		return fmt.Sprintf("Processing failed: %v", err)
	}
}
