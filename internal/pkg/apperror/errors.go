// Package apperror defines the error kinds surfaced by services and how they map to HTTP.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindBadRequest      Kind = "BAD_REQUEST"
	KindConfiguration   Kind = "CONFIGURATION"
	KindExternalService Kind = "EXTERNAL_SERVICE"
	KindSignature       Kind = "SIGNATURE"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindForbidden       Kind = "FORBIDDEN"
	KindValidation      Kind = "VALIDATION"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, apperror.NotFound("")) works as a kind check.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func NotFound(msg string) *Error        { return newError(KindNotFound, msg, nil) }
func Conflict(msg string) *Error        { return newError(KindConflict, msg, nil) }
func BadRequest(msg string) *Error      { return newError(KindBadRequest, msg, nil) }
func Configuration(msg string) *Error   { return newError(KindConfiguration, msg, nil) }
func ExternalService(msg string) *Error { return newError(KindExternalService, msg, nil) }
func Signature(msg string) *Error       { return newError(KindSignature, msg, nil) }
func Unauthorized(msg string) *Error    { return newError(KindUnauthorized, msg, nil) }
func Forbidden(msg string) *Error       { return newError(KindForbidden, msg, nil) }
func Validation(msg string) *Error      { return newError(KindValidation, msg, nil) }

func WrapExternalService(msg string, cause error) *Error {
	return newError(KindExternalService, msg, cause)
}

func WrapSignature(msg string, cause error) *Error {
	return newError(KindSignature, msg, cause)
}

func WrapConflict(msg string, cause error) *Error {
	return newError(KindConflict, msg, cause)
}

// KindOf returns the kind of the first *Error in the chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code returned to API callers.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest, KindSignature:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to API callers. Causes are never exposed.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
