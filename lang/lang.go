package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ardnew/tuplet/lang/ast"
	"github.com/ardnew/tuplet/lang/check"
	"github.com/ardnew/tuplet/lang/diag"
	"github.com/ardnew/tuplet/lang/eval"
	"github.com/ardnew/tuplet/lang/lexer"
	"github.com/ardnew/tuplet/lang/parser"
	"github.com/ardnew/tuplet/lang/token"
	"github.com/ardnew/tuplet/log"
)

// Process exit statuses. A program that runs to completion exits with
// StatusOK whatever main returns.
const (
	StatusOK      = 0
	StatusFailure = 1 // I/O, usage or interruption outside the program
	StatusStatic  = 2 // lex, parse or type error
	StatusRuntime = 3 // fault while running
)

// Failure classes reported by [ClassOf].
const (
	ClassNone    = ""
	ClassStatic  = "static"
	ClassRuntime = "runtime"
	ClassError   = "error"
)

// Program is a checked program ready to run.
type Program struct {
	Source string
	AST    *ast.Program
	Info   *check.Info
}

type options struct {
	logger   log.Logger
	maxDepth int
	noMain   bool
	noCache  bool
}

// Option configures compilation or execution.
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMaxDepth limits the depth of nested function calls at run time.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithoutEntryPoint compiles sources that declare no main function. Such a
// program can be inspected but not run.
func WithoutEntryPoint() Option {
	return func(o *options) { o.noMain = true }
}

// WithoutCache forces compilation even if an identical source was compiled
// before.
func WithoutCache() Option {
	return func(o *options) { o.noCache = true }
}

func applyOptions(opts ...Option) options {
	o := options{maxDepth: eval.DefaultMaxDepth}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Tokens returns the token stream of src, ending with [token.EOF].
func Tokens(src string) ([]token.Token, error) {
	return lexer.Tokenize(src)
}

// Parse returns the unchecked syntax tree of src.
func Parse(src string) (*ast.Program, error) {
	return parser.ParseString(src)
}

// Compile tokenizes, parses and checks src.
//
// Compiled programs are cached by source content; a cached program is safe to
// run any number of times, concurrently included, since running never
// modifies the tree. The cache is process-wide and never evicts, so it grows
// with every distinct source compiled; long-lived embedders that compile
// unbounded input should pass [WithoutCache].
func Compile(ctx context.Context, src string, opts ...Option) (*Program, error) {
	o := applyOptions(opts...)

	if o.noCache || o.noMain {
		return compile(ctx, src, o)
	}

	return compileCached(ctx, src, o)
}

func compile(ctx context.Context, src string, o options) (*Program, error) {
	done := o.logger.Stage("lex").Span(ctx, "tokenize complete")

	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}

	done(slog.Int("tokens", len(toks)))

	done = o.logger.Stage("parse").Span(ctx, "parse complete")

	tree, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}

	done(slog.Int("decls", len(tree.Decls)))

	copts := []check.Option{check.WithLogger(o.logger.Stage("check"))}
	if o.noMain {
		copts = append(copts, check.WithoutEntryPoint())
	}

	info, err := check.Program(ctx, tree, copts...)
	if err != nil {
		return nil, err
	}

	return &Program{Source: src, AST: tree, Info: info}, nil
}

// Run executes p, writing its output to w. The result holds the value
// returned by main.
func (p *Program) Run(ctx context.Context, w io.Writer, opts ...Option) (eval.Result, error) {
	o := applyOptions(opts...)

	return eval.Run(ctx, p.AST,
		eval.WithOutput(w),
		eval.WithLogger(o.logger.Stage("run")),
		eval.WithMaxDepth(o.maxDepth),
	)
}

// Run compiles and executes src, writing its output to w.
func Run(ctx context.Context, src string, w io.Writer, opts ...Option) (eval.Result, error) {
	p, err := Compile(ctx, src, opts...)
	if err != nil {
		return eval.Result{}, err
	}

	return p.Run(ctx, w, opts...)
}

// IsStatic reports whether err was raised before execution began.
func IsStatic(err error) bool {
	return errors.Is(err, diag.ErrLex) ||
		errors.Is(err, diag.ErrParse) ||
		errors.Is(err, diag.ErrType)
}

// IsRuntime reports whether err was raised by a running program.
func IsRuntime(err error) bool {
	return errors.Is(err, diag.ErrRuntime)
}

// StatusOf maps err to a process exit status.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case IsStatic(err):
		return StatusStatic
	case IsRuntime(err):
		return StatusRuntime
	}

	return StatusFailure
}

// ClassOf names the failure class of err.
func ClassOf(err error) string {
	switch StatusOf(err) {
	case StatusOK:
		return ClassNone
	case StatusStatic:
		return ClassStatic
	case StatusRuntime:
		return ClassRuntime
	}

	return ClassError
}

// Diagnostics flattens err into its individual diagnostics. Errors that are
// not diagnostics yield nil.
func Diagnostics(err error) []*diag.Error {
	var list *diag.List
	if errors.As(err, &list) {
		return list.Errors()
	}

	var d *diag.Error
	if errors.As(err, &d) {
		return []*diag.Error{d}
	}

	return nil
}
