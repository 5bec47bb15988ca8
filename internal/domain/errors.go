package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation    ErrorKind = "VALIDATION"
	KindStateConflict ErrorKind = "STATE_CONFLICT"
	KindPermission    ErrorKind = "PERMISSION"
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindDependency    ErrorKind = "DEPENDENCY"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its kind.
var (
	ErrValidation    = errors.New("validation failed")
	ErrStateConflict = errors.New("state conflict")
	ErrPermission    = errors.New("permission denied")
	ErrNotFound      = errors.New("not found")
	ErrDependency    = errors.New("dependency unavailable")
)

// Error is a rejected mutation. Reason is safe to show to the end user verbatim.
type Error struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Rejection reports whether the error is a refusal of the caller's request
// rather than a failure of the system.
func (e *Error) Rejection() bool { return e.Kind != KindDependency }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrStateConflict:
		return e.Kind == KindStateConflict
	case ErrPermission:
		return e.Kind == KindPermission
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrDependency:
		return e.Kind == KindDependency
	}
	return false
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func StateConflict(format string, args ...any) error {
	return &Error{Kind: KindStateConflict, Reason: fmt.Sprintf(format, args...)}
}

func Permission(format string, args ...any) error {
	return &Error{Kind: KindPermission, Reason: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

// Dependency wraps a store or external service failure.
func Dependency(err error, format string, args ...any) error {
	return &Error{Kind: KindDependency, Reason: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindDependency for untyped errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindDependency
}

// ReasonOf returns the user-facing reason carried by err.
func ReasonOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Reason
	}
	return "the service is temporarily unavailable, please try again"
}
