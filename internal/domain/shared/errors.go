package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ledger failure independently of any transport
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindAuthorization     ErrorKind = "AUTHORIZATION"
	KindCredential        ErrorKind = "CREDENTIAL"
	KindInsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"
	KindValidation        ErrorKind = "VALIDATION"
	KindIntegrity         ErrorKind = "INTEGRITY"
	KindPersistence       ErrorKind = "PERSISTENCE"
	KindSystem            ErrorKind = "SYSTEM"
)

// Severity tells the boundary layer who is at fault
type Severity string

const (
	SeverityClient Severity = "CLIENT_FAULT"
	SeverityServer Severity = "SERVER_FAULT"
)

// Error is the tagged error returned by every ledger operation
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error // underlying cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, shared.ErrNotFound) works
// regardless of message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Severity reports whether the failure was caused by the client or by the server
func (e *Error) Severity() Severity {
	switch e.Kind {
	case KindNotFound, KindAuthorization, KindCredential, KindInsufficientFunds, KindValidation:
		return SeverityClient
	default:
		return SeverityServer
	}
}

// Kind sentinels for errors.Is matching
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrAuthorization     = &Error{Kind: KindAuthorization}
	ErrCredential        = &Error{Kind: KindCredential}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrIntegrity         = &Error{Kind: KindIntegrity}
	ErrPersistence       = &Error{Kind: KindPersistence}
	ErrSystem            = &Error{Kind: KindSystem}
)

// ErrDataAccess marks faults raised by a store implementation (driver errors,
// constraint violations, lost connections). Stores wrap it next to the cause.
var ErrDataAccess = errors.New("data access failure")

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return NewError(KindNotFound, message)
}

func Unauthorized(message string) *Error {
	return NewError(KindAuthorization, message)
}

func BadCredential(message string) *Error {
	return NewError(KindCredential, message)
}

func InsufficientFunds(message string) *Error {
	return NewError(KindInsufficientFunds, message)
}

func Invalid(message string) *Error {
	return NewError(KindValidation, message)
}

func Integrity(message string) *Error {
	return NewError(KindIntegrity, message)
}

// KindOf returns the kind of err, or KindSystem when err is not a ledger error
func KindOf(err error) ErrorKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindSystem
}
