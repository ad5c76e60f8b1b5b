package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

// APIError is the envelope returned for every request-level failure.
type APIError struct {
	Status  int    `json:"-" msgpack:"-"`
	Code    string `json:"code" msgpack:"code"`
	Message string `json:"message" msgpack:"message"`
	Details string `json:"details,omitempty" msgpack:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

func NewConflictError(message string, cause error) *APIError {
	err := &APIError{Status: http.StatusConflict, Code: "CONFLICT", Message: message}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

func NewPayloadTooLargeError(limit int64) *APIError {
	return &APIError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    "PAYLOAD_TOO_LARGE",
		Message: fmt.Sprintf("request body exceeds %d MiB", limit>>20),
	}
}

func NewInternalError(message string, cause error) *APIError {
	err := &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: message}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// toolError maps a registry or session error onto an APIError.
func toolError(id string, err error) *APIError {
	var inputErr *tools.InputError
	switch {
	case errors.Is(err, tools.ErrToolNotFound):
		return NewNotFoundError("tool", id)
	case errors.Is(err, tools.ErrComingSoon):
		return &APIError{Status: http.StatusNotImplemented, Code: "COMING_SOON", Message: tools.Message(err)}
	case errors.Is(err, tools.ErrInvalidTransition):
		return NewConflictError("session is not ready for this action", err)
	case errors.As(err, &inputErr):
		return NewBadRequestError(inputErr.Msg, nil)
	default:
		return NewInternalError("unexpected failure", err)
	}
}
