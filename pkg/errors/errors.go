// Package errors defines the typed error vocabulary shared by services and
// the HTTP layer. Services classify failures with a Code; the response
// writer maps codes onto problem-details metadata without ever inspecting
// error strings.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata is the HTTP projection of a Code. DetailsAllowed gates whether
// structured details attached to the error may leave the process; codes
// covering auth and internal failures never expose them.
type Metadata struct {
	HTTPStatus     int
	Type           string
	Title          string
	DetailsAllowed bool
}

const typeBase = "https://solenne.shop/errors/"

func meta(status int, slug, title string, detailsAllowed bool) Metadata {
	return Metadata{
		HTTPStatus:     status,
		Type:           typeBase + slug,
		Title:          title,
		DetailsAllowed: detailsAllowed,
	}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    meta(http.StatusBadRequest, "validation", "validation failed", true),
	CodeUnauthorized:  meta(http.StatusUnauthorized, "unauthorized", "authentication required", false),
	CodeForbidden:     meta(http.StatusForbidden, "forbidden", "access denied", false),
	CodeNotFound:      meta(http.StatusNotFound, "not-found", "resource not found", false),
	CodeConflict:      meta(http.StatusConflict, "conflict", "conflict detected", true),
	CodeStateConflict: meta(http.StatusUnprocessableEntity, "state-conflict", "state transition disallowed", true),
	CodeInternal:      meta(http.StatusInternalServerError, "internal", "internal server error", false),
	CodeDependency:    meta(http.StatusServiceUnavailable, "dependency", "dependency unavailable", true),
}

// MetadataFor resolves a code's HTTP metadata. Unknown codes degrade to the
// internal-error mapping rather than leaking an unmapped status.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error pairs a Code with a caller-facing message and an optional wrapped
// cause. All methods tolerate a nil receiver so call sites can chain off
// As(err) without a guard.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message to an underlying cause. A nil cause
// degenerates to New.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// As extracts the typed error from anywhere in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// WithDetails attaches structured detail for the response writer; whether it
// is ever serialized depends on the code's DetailsAllowed flag.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}
