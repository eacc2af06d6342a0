package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a use-case failure for callers such as the HTTP layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindRateLimited
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindRateLimited:
		return "rate_limited"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// internalMessage is the only text an infrastructure failure ever exposes.
const internalMessage = "internal error"

// Failure is the typed error returned across use-case boundaries.
// Message is safe to show to end users; cause is kept for logs only.
type Failure struct {
	Kind    Kind
	Message string
	cause   error
}

func (f *Failure) Error() string { return f.Message }
func (f *Failure) Unwrap() error { return f.cause }

func newFailure(kind Kind, cause error, format string, args ...any) *Failure {
	return &Failure{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

func Validation(format string, args ...any) error {
	return newFailure(KindValidation, nil, format, args...)
}

// ValidationFrom keeps err in the chain so errors.Is still matches domain sentinels.
func ValidationFrom(err error) error {
	if err == nil {
		return nil
	}
	return newFailure(KindValidation, err, "%s", err.Error())
}

func NotFound(format string, args ...any) error {
	return newFailure(KindNotFound, nil, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newFailure(KindForbidden, nil, format, args...)
}

func RateLimited(format string, args ...any) error {
	return newFailure(KindRateLimited, nil, format, args...)
}

func Conflict(format string, args ...any) error {
	return newFailure(KindConflict, nil, format, args...)
}

// Internal hides cause behind the generic message and captures a stack for logs.
func Internal(cause error) error {
	return &Failure{
		Kind:    KindInternal,
		Message: internalMessage,
		cause:   WithStack(cause),
	}
}

// KindOf reports the failure kind of err. Errors that are not failures are internal.
func KindOf(err error) Kind {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Kind
	}
	return KindInternal
}

// PublicMessage returns text that is safe to hand to a caller.
func PublicMessage(err error) string {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Message
	}
	return internalMessage
}

// IsFailure reports whether err already is a typed failure.
func IsFailure(err error) bool {
	var failure *Failure
	return errors.As(err, &failure)
}
