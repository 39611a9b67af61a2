package error

import (
	"errors"
	"net/http"
)

// Kind classifies an application error for transport mapping.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_FAILURE"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindGeneric      Kind = "GENERIC_FAILURE"
)

type AppError struct {
	Kind    Kind                `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Cause   error               `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error kind onto the status codes the API exposes.
// Generic failures are reported as 400 like every other unexpected fault.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func NewValidation(fields map[string][]string) *AppError {
	return &AppError{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewGeneric(cause error) *AppError {
	return &AppError{Kind: KindGeneric, Message: cause.Error(), Cause: cause}
}

// MapError returns err as an *AppError, turning anything unclassified into a
// generic failure that keeps the underlying message.
func MapError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewGeneric(err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
