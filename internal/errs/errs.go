package errs

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Wrap prefixes err with msg. A nil err stays nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// WithStack records the current stack unless err already carries one.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := stackOf(err); ok {
		return err
	}
	return &StackError{err: err, stack: debug.Stack()}
}

type StackError struct {
	err   error
	stack []byte
}

func (e *StackError) Error() string { return e.err.Error() }
func (e *StackError) Unwrap() error { return e.err }
func (e *StackError) Stack() []byte { return e.stack }

func stackOf(err error) ([]byte, bool) {
	var se *StackError
	if errors.As(err, &se) {
		return se.Stack(), true
	}
	return nil, false
}

// Loggable renders err as a slog group with its message, unwrap chain,
// failure kind and stack when present:
//
//	logging.Warn(ctx, "sync failed", slog.Any("err", errs.Loggable(err)))
func Loggable(err error) slog.LogValuer { return loggable{err: err} }

type loggable struct{ err error }

func (l loggable) LogValue() slog.Value {
	if l.err == nil {
		return slog.GroupValue()
	}

	attrs := []slog.Attr{
		slog.String("message", l.err.Error()),
		slog.Any("chain", ErrorChainStrings(l.err)),
	}
	var failure *Failure
	if errors.As(l.err, &failure) {
		attrs = append(attrs, slog.String("kind", failure.Kind.String()))
	}
	if stack, ok := stackOf(l.err); ok {
		attrs = append(attrs, slog.String("stack", string(stack)))
	}
	return slog.GroupValue(attrs...)
}

// ErrorChainStrings lists err and everything it unwraps to, outermost first.
// Joined errors are not expanded.
func ErrorChainStrings(err error) []string {
	var out []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		out = append(out, e.Error())
	}
	return out
}
