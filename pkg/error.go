package pkg

import (
	"fmt"
	"log/slog"
	"strings"
)

// Error is an error with structured logging attributes. Errors derived from a
// sentinel with [Error.Wrap], [Error.Wrapf] or [Error.With] match that
// sentinel under [errors.Is].
type Error struct {
	msg    string
	err    error
	attrs  []slog.Attr
	parent *Error
}

// NewError returns a new sentinel error with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Sentinel errors shared by the command-line tools.
var (
	ErrReadInput     = NewError("failed to read input")
	ErrReadStdin     = NewError("failed to read stdin")
	ErrInvalidFormat = NewError("invalid format")
	ErrJSONMarshal   = NewError("marshal JSON")
	ErrYAMLMarshal   = NewError("marshal YAML")
)

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e or the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for p := e; p != nil; p = p.parent {
		if p == t {
			return true
		}
	}

	return false
}

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs, parent: e}
}

// Wrapf returns a copy of e wrapping a formatted error.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	merged := make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	merged = append(merged, e.attrs...)
	merged = append(merged, attrs...)

	return &Error{msg: e.msg, err: e.err, attrs: merged, parent: e}
}
