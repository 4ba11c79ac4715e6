// Package apperrors defines the error taxonomy surfaced by the chat
// endpoints. Each code carries an HTTP status and a short user-facing
// apology; raw provider errors are logged server-side and never
// returned to the end user.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure.
type Code string

const (
	CodeInvalidInput        Code = "INVALID_INPUT"
	CodeCharacterNotFound   Code = "CHARACTER_NOT_FOUND"
	CodeNotFound            Code = "NOT_FOUND"
	CodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"
	CodeEmptyResponse       Code = "EMPTY_RESPONSE"
	CodeTimeout             Code = "TIMEOUT"
	CodeInternal            Code = "INTERNAL"
)

// Error is a structured error with a code, HTTP status, and a message
// safe to show to the end user.
type Error struct {
	Code    Code
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// AsError extracts an *Error from err's chain, or wraps err as an
// internal error.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}

// NewInvalidInput flags a request missing required fields.
func NewInvalidInput(msg string) *Error {
	return &Error{
		Code:    CodeInvalidInput,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// NewCharacterNotFound is surfaced when a chat references a character
// that does not exist.
func NewCharacterNotFound(characterID string) *Error {
	return &Error{
		Code:    CodeCharacterNotFound,
		Status:  http.StatusNotFound,
		Message: "I couldn't find this character in the database. Please refresh the page and try again.",
		cause:   fmt.Errorf("character not found: %s", characterID),
	}
}

// NewNotFound covers non-character record lookups.
func NewNotFound(kind, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", kind),
		cause:   fmt.Errorf("%s not found: %s", kind, id),
	}
}

// NewProviderUnavailable is surfaced after the cross-provider fallback
// is exhausted.
func NewProviderUnavailable(cause error) *Error {
	return &Error{
		Code:    CodeProviderUnavailable,
		Status:  http.StatusInternalServerError,
		Message: "I'm having trouble connecting to my knowledge base right now. Please try again in a few moments.",
		cause:   cause,
	}
}

// NewEmptyResponse is surfaced when a provider returns no text.
func NewEmptyResponse(provider string) *Error {
	return &Error{
		Code:    CodeEmptyResponse,
		Status:  http.StatusInternalServerError,
		Message: "I received an empty response from the AI service. Please try again.",
		cause:   fmt.Errorf("empty response from %s", provider),
	}
}

// NewTimeout is surfaced when the provider call exceeds its budget.
func NewTimeout(cause error) *Error {
	return &Error{
		Code:    CodeTimeout,
		Status:  http.StatusGatewayTimeout,
		Message: "I'm sorry, but the request timed out. Please try again in a moment.",
		cause:   cause,
	}
}

// NewInternal wraps an unexpected failure.
func NewInternal(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong. Please try again.",
		cause:   cause,
	}
}
