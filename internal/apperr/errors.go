// Package apperr defines the typed errors returned by services and mapped to
// HTTP responses in one place.
package apperr

import (
	"errors"
	"net/http"
	"runtime/debug"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindDomainRule
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDomainRule:
		return "domain_rule"
	default:
		return "internal"
	}
}

// HTTPStatus maps an error kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindDomainRule:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Domain rule codes.
const (
	CodeQuotaExceeded   = "QUOTA_EXCEEDED"
	CodeAccountBlocked  = "ACCOUNT_BLOCKED"
	CodeCapacityReached = "CAPACITY_REACHED"
	CodeTripClosed      = "TRIP_CLOSED"
	CodeOwnerCannotJoin = "OWNER_CANNOT_JOIN"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same kind and code, so sentinel values
// compare equal to copies that carry extra context.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Code != "" && t.Code == e.Code
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

func DomainRule(code, message string) *Error {
	return &Error{Kind: KindDomainRule, Code: code, Message: message}
}

// Internal wraps an unexpected failure and records the stack for development
// responses.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err, Stack: debug.Stack()}
}

// KindOf reports the kind of err; anything that is not an *Error is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrAccountBlocked  = DomainRule(CodeAccountBlocked, "Your account is blocked")
	ErrQuotaExceeded   = DomainRule(CodeQuotaExceeded, "You need to verify your account to create more trips")
	ErrCapacityReached = DomainRule(CodeCapacityReached, "This trip has reached its maximum group size")
	ErrTripClosed      = DomainRule(CodeTripClosed, "This trip is no longer accepting changes")
	ErrOwnerCannotJoin = DomainRule(CodeOwnerCannotJoin, "You cannot request to join your own trip")
)
