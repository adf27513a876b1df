// Package apperr defines the error taxonomy shared by every feature.
// Errors carry a Kind used by handlers to pick the HTTP status, a stable Code
// used for errors.Is matching, and a human-readable Message returned to clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	// Internal is the zero value and is never returned deliberately.
	Internal Kind = iota
	// Validation marks malformed or missing input the caller can correct.
	Validation
	// NotFound marks an unknown product, spec, order or session.
	NotFound
	// Conflict marks a disabled item, an incompatible delivery/payment pair or a duplicate submission.
	Conflict
	// Authorization marks a missing session, missing role or blacklisted account.
	Authorization
	// Gateway marks an external payment or logistics failure.
	Gateway
	// Persistence marks a datastore failure.
	Persistence
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Authorization:
		return "authorization"
	case Gateway:
		return "gateway"
	case Persistence:
		return "persistence"
	default:
		return "internal"
	}
}

// Error is the concrete error type. Two Errors match under errors.Is when their Codes are equal.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// UpstreamCode is the gateway's own result code for Gateway errors.
	UpstreamCode string
	Err          error

	// causeInMessage is set when Message already carries the text of Err.
	causeInMessage bool
}

// New creates a sentinel error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil && !e.causeInMessage {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy carrying a more specific message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	cp.causeInMessage = false
	return &cp
}

// Wrap returns a copy of e with err attached as the cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// Validationf builds an ad-hoc validation error.
func Validationf(code, format string, args ...any) *Error {
	return New(Validation, code, fmt.Sprintf(format, args...))
}

// PersistenceErr wraps a datastore failure.
func PersistenceErr(op string, err error) *Error {
	return &Error{Kind: Persistence, Code: "PersistenceError", Message: op + " failed", Err: err}
}

// GatewayErr builds a gateway failure carrying the upstream code and message.
func GatewayErr(gateway, upstreamCode, upstreamMessage string, cause error) *Error {
	msg := upstreamMessage
	fromCause := msg == "" && cause != nil
	if fromCause {
		msg = cause.Error()
	}
	return &Error{
		Kind:           Gateway,
		Code:           "GatewayError",
		Message:        fmt.Sprintf("%s: %s", gateway, msg),
		UpstreamCode:   upstreamCode,
		Err:            cause,
		causeInMessage: fromCause,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// UpstreamCodeOf returns the gateway result code carried by err, or "" when the gateway never
// answered.
func UpstreamCodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.UpstreamCode
	}
	return ""
}

// MessageOf returns the client-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal Server Error"
}
