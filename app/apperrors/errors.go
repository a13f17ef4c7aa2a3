package apperrors

import (
	"errors"
	"net/http"
	"strings"
)

// Error is the single error shape handlers translate into responses. Kind
// decides the HTTP status; Fields carries field-level validation detail.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindNotFound
	KindConflict
	KindUnhandled
)

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func ValidationFields(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unhandled(msg string, err error) *Error {
	return &Error{Kind: KindUnhandled, Message: msg, Err: err}
}

// As pulls an *Error out of an error chain, wrapping anything unknown as
// unhandled so callers always get a status and a safe message.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unhandled("Server Error", err)
}

// IsDuplicateEntry reports whether err is a MySQL unique-index violation.
// Check-then-insert races land here; the database is the arbiter.
func IsDuplicateEntry(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
