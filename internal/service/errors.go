package service

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindInternal   Kind = iota // storage or unexpected failure
	KindValidation             // missing or invalid input
	KindNotFound               // the addressed row does not exist
	KindConflict               // unique or foreign-key violation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the only error type the catalog service returns. Message is
// safe to show to clients; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationError reports missing or malformed input.
func ValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFoundError reports a missing row.
func NotFoundError(msg string, cause error) error {
	return &Error{Kind: KindNotFound, Message: msg, Err: cause}
}

// ConflictError reports a constraint violation.
func ConflictError(msg string, cause error) error {
	return &Error{Kind: KindConflict, Message: msg, Err: cause}
}

// InternalError hides cause behind a generic message.
func InternalError(cause error) error {
	return &Error{Kind: KindInternal, Message: "Error interno del servidor", Err: cause}
}

// KindOf returns the Kind carried by err, or KindInternal for anything
// that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Error interno del servidor"
}
