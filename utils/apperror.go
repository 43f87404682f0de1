package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the closed set of failure categories the API reports.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindState      ErrorKind = "state"
	KindStorage    ErrorKind = "storage"
)

// AppError is a tagged error carried from the services up to the HTTP layer.
// Storage errors wrap the underlying driver error; the rest are leaf errors.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func Validationf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Statef(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

func Storage(msg string, err error) *AppError {
	return &AppError{Kind: KindStorage, Message: msg, Err: err}
}

// KindOf extracts the kind from any error in the chain; unrecognized errors
// count as storage failures.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindStorage
}

// HTTPStatus maps an error to the response code the controllers use.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
