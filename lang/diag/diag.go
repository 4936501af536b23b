// Package diag defines the error values reported while compiling and running
// tuplet programs.
//
// Every diagnostic derives from one of the stage sentinels ([ErrLex],
// [ErrParse], [ErrType], [ErrRuntime]) so callers can classify failures with
// [errors.Is] regardless of the detail attached:
//
//	err := diag.ErrType.At(pos).Errorf("expected %s, found %s", want, got)
//	errors.Is(err, diag.ErrType) // true
package diag

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/tuplet/lang/token"
)

// Error is a diagnostic with an optional source position, wrapped cause and
// structured attributes for logging.
type Error struct {
	msg    string
	detail string
	err    error
	attrs  []slog.Attr
	pos    token.Position
	class  *Error
}

// NewError returns a new sentinel error with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Stage sentinels.
var (
	ErrLex     = NewError("lex error")
	ErrParse   = NewError("parse error")
	ErrType    = NewError("type error")
	ErrRuntime = NewError("runtime error")
)

// Class returns the sentinel e was derived from, or e itself if e is a
// sentinel.
func (e *Error) Class() *Error {
	if e.class != nil {
		return e.class
	}

	return e
}

// Pos returns the source position attached to e.
func (e *Error) Pos() token.Position { return e.pos }

// Detail returns the message specific to this occurrence, without the stage
// prefix or position.
func (e *Error) Detail() string { return e.detail }

func (e *Error) Error() string {
	var b strings.Builder

	if e.pos.IsValid() {
		b.WriteString(e.pos.String())
		b.WriteString(": ")
	}

	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.detail != "" {
		part = append(part, e.detail)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	b.WriteString(strings.Join(part, ": "))

	return b.String()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e or the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || e.class == t
}

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.Any("pos", e.pos))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) derive() *Error {
	d := *e
	d.class = e.Class()
	d.attrs = append([]slog.Attr(nil), e.attrs...)

	return &d
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := e.derive()
	d.attrs = append(d.attrs, attrs...)

	return d
}

// At returns a copy of e positioned at pos.
func (e *Error) At(pos token.Position) *Error {
	d := e.derive()
	d.pos = pos

	return d
}

// Errorf returns a copy of e with a formatted detail message.
func (e *Error) Errorf(format string, args ...any) *Error {
	d := e.derive()
	d.detail = fmt.Sprintf(format, args...)

	return d
}

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// List collects several diagnostics from a single stage.
type List struct {
	errs []*Error
}

// Add appends err to l. Non-diagnostic errors are wrapped in [ErrType].
func (l *List) Add(err error) {
	if err == nil {
		return
	}

	var d *Error
	if !errors.As(err, &d) {
		d = ErrType.Wrap(err)
	}

	l.errs = append(l.errs, d)
}

// Len returns the number of diagnostics collected.
func (l *List) Len() int { return len(l.errs) }

// Errors returns the collected diagnostics in report order.
func (l *List) Errors() []*Error { return l.errs }

// Err returns l as an error, or nil if it is empty.
func (l *List) Err() error {
	if l == nil || len(l.errs) == 0 {
		return nil
	}

	return l
}

func (l *List) Error() string {
	msgs := make([]string, len(l.errs))
	for i, e := range l.errs {
		msgs[i] = e.Error()
	}

	return strings.Join(msgs, "\n")
}

func (l *List) Unwrap() []error {
	errs := make([]error, len(l.errs))
	for i, e := range l.errs {
		errs[i] = e
	}

	return errs
}

// LogValue implements [slog.LogValuer].
func (l *List) LogValue() slog.Value {
	attrs := make([]slog.Attr, len(l.errs))
	for i, e := range l.errs {
		attrs[i] = slog.Any(fmt.Sprint(i), e)
	}

	return slog.GroupValue(attrs...)
}
