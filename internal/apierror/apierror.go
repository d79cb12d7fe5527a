// Package apierror provides standardized error response structures for the API
// and the error kinds the ledgers report. All errors returned to clients go
// through this package to ensure consistency and to prevent leaking internal
// details (stack traces, store errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Error kinds. Match with errors.Is.
var (
	ErrNotFound     = errors.New("no encontrado")
	ErrConflict     = errors.New("conflicto")
	ErrPrecondition = errors.New("precondicion no cumplida")
)

// Error is a ledger error: a kind plus a message meant for the operator.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

func Precondition(format string, args ...any) error {
	return &Error{Kind: ErrPrecondition, Msg: fmt.Sprintf(format, args...)}
}

// Status maps an error kind to its HTTP status; unknown errors are 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrPrecondition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
