// Package errors provides error wrapping that carries slog attributes and the
// source location where the error was created, so that failures can be logged
// with full context at the top of the call stack.
//
// It re-exports the stdlib helpers (Is, As, Join, New, Unwrap) so callers
// only need a single errors import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// annotatedError wraps an error with a message, slog attributes, and the
// file:line of the call site that created it.
type annotatedError struct {
	msg     string
	wrapped error
	attrs   []slog.Attr
	source  string
}

func (e *annotatedError) Error() string {
	if e.wrapped == nil {
		return e.msg
	}
	return e.msg + ": " + e.wrapped.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.wrapped
}

// NewSentinel creates a sentinel error suitable for errors.Is comparisons.
func NewSentinel(msg string) error {
	return &annotatedError{
		msg:     msg,
		wrapped: nil,
		attrs:   nil,
		source:  callerSource(1),
	}
}

// Wrap annotates err with a message and optional slog attributes. The call
// site is recorded so that SlogError can point at where things went wrong.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:     msg,
		wrapped: err,
		attrs:   attrs,
		source:  callerSource(1),
	}
}

// DecoratePanic converts a recovered panic value into an annotated error
// pointing at the frame that panicked. Returns nil when recovered is nil.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	return &annotatedError{
		msg:     fmt.Sprintf("panic: %v", recovered),
		wrapped: nil,
		attrs:   nil,
		source:  panicSource(),
	}
}

// SlogError renders err as a single slog.Attr with the message, the deepest
// recorded source location, and all attributes gathered from the error chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	var (
		annotations []any
		source      string
	)
	for e := err; e != nil; {
		var annotated *annotatedError
		if !errors.As(e, &annotated) {
			break
		}
		for _, attr := range annotated.attrs {
			annotations = append(annotations, attr)
		}
		if annotated.source != "" {
			source = annotated.source
		}
		e = annotated.wrapped
	}

	args := []any{slog.String("message", err.Error())}
	if source != "" {
		args = append(args, slog.String("source", source))
	}
	if len(annotations) > 0 {
		args = append(args, slog.Group("annotations", annotations...))
	}
	return slog.Group("error", args...)
}

// callerSource returns the file:line of the caller, skip frames above this one.
func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// panicSource locates the frame that panicked by walking past the panic
// machinery. Falls back to the closest frame outside this package.
func panicSource() string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs) //nolint:mnd // skip runtime.Callers and panicSource.
	frames := runtime.CallersFrames(pcs[:n])

	var (
		sawGopanic bool
		fallback   string
	)
	for {
		frame, more := frames.Next()
		isRuntime := strings.HasPrefix(frame.Function, "runtime.")
		switch {
		case frame.Function == "runtime.gopanic":
			sawGopanic = true
		case sawGopanic && !isRuntime:
			return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		case fallback == "" && !isRuntime && !strings.Contains(frame.File, "annotatederror.go"):
			fallback = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if !more {
			return fallback
		}
	}
}

// Stdlib re-exports.

// New returns an error with the given message. See [errors.New].
func New(msg string) error {
	return errors.New(msg) //nolint:err113 // deliberate re-export.
}

// Is reports whether any error in err's chain matches target. See [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target. See [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join wraps the given errors into a single error. See [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
