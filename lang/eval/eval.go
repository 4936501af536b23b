// Package eval executes checked tuplet programs.
//
// The evaluator walks the syntax tree annotated by package check. Each block
// runs in a fresh environment, and early exits unwind through explicit
// control-flow results. Runtime faults are reported as [diag.ErrRuntime]
// errors; output written before a fault is preserved.
package eval

import (
	"bufio"
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/tuplet/lang/ast"
	"github.com/ardnew/tuplet/lang/check"
	"github.com/ardnew/tuplet/lang/diag"
	"github.com/ardnew/tuplet/lang/token"
	"github.com/ardnew/tuplet/lang/value"
	"github.com/ardnew/tuplet/log"
)

// DefaultMaxDepth is the default limit on nested function calls.
const DefaultMaxDepth = 10000

// Result is the outcome of a completed run.
type Result struct {
	// Return is the value returned by main, or 0 if main is a procedure.
	// It is not the process exit status, which is 0 for any completed run.
	Return int
}

// Option configures a run.
type Option func(*interp)

// WithOutput sets the writer receiving program output.
func WithOutput(w io.Writer) Option {
	return func(in *interp) {
		if w == nil {
			w = io.Discard
		}

		in.w = w
	}
}

// WithLogger sets the logger receiving trace output.
func WithLogger(logger log.Logger) Option {
	return func(in *interp) { in.logger = logger }
}

// WithMaxDepth limits the depth of nested function calls. Values below 1
// select [DefaultMaxDepth].
func WithMaxDepth(n int) Option {
	return func(in *interp) {
		if n < 1 {
			n = DefaultMaxDepth
		}

		in.maxDepth = n
	}
}

// Run executes prog, which must have been checked successfully, starting at
// its main function.
func Run(ctx context.Context, prog *ast.Program, opts ...Option) (res Result, err error) {
	in := &interp{
		ctx:      ctx,
		w:        io.Discard,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(in)
	}

	in.out = bufio.NewWriter(in.w)

	defer func() {
		if ferr := in.out.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	global := newEnv(nil)

	var main *ast.FuncDecl

	for _, fn := range prog.Funcs() {
		if fn.Sym == nil {
			return res, diag.ErrRuntime.At(fn.Pos()).Errorf("function %s was not checked", fn.Name)
		}

		global.define(fn.Sym, &closure{decl: fn, env: global})

		if fn.Name == check.EntryPoint {
			main = fn
		}
	}

	if main == nil {
		return res, diag.ErrRuntime.At(prog.Pos()).Errorf("function %s is undeclared", check.EntryPoint)
	}

	done := in.logger.Span(ctx, "run complete")

	if err := in.globals(global, prog); err != nil {
		return res, err
	}

	v, err := in.invoke(global.closure(main.Sym), nil, main.Pos())
	if err != nil {
		return res, err
	}

	if n, ok := v.(value.Int); ok {
		res.Return = int(n)
	}

	done(slog.Int("return", res.Return))

	return res, nil
}

// flow is the control-flow outcome of executing a statement.
type flow int

const (
	flowNormal flow = iota
	flowBreak
	flowContinue
	flowReturn
)

type interp struct {
	ctx      context.Context
	logger   log.Logger
	w        io.Writer
	out      *bufio.Writer
	ret      value.Value
	depth    int
	maxDepth int
}

func (in *interp) interrupted(pos token.Position) error {
	if in.ctx.Err() == nil {
		return nil
	}

	return diag.ErrRuntime.At(pos).Wrap(context.Cause(in.ctx)).Errorf("execution interrupted")
}

// invoke runs fn with its parameters bound to cells.
func (in *interp) invoke(fn *closure, cells []*Cell, pos token.Position) (value.Value, error) {
	if err := in.interrupted(pos); err != nil {
		return nil, err
	}

	if in.depth >= in.maxDepth {
		return nil, diag.ErrRuntime.At(pos).
			With(slog.Int("limit", in.maxDepth)).
			Errorf("call depth limit %d exceeded in %s", in.maxDepth, fn.decl.Name)
	}

	in.depth++
	defer func() { in.depth-- }()

	callee := newEnv(fn.env)
	for i, p := range fn.decl.Params {
		callee.bind(p.Sym, cells[i])
	}

	f, err := in.stmts(callee, fn.decl.Body.Stmts)
	if err != nil {
		return nil, err
	}

	if f != flowReturn {
		return nil, nil
	}

	v := in.ret
	in.ret = nil

	return v, nil
}

func (in *interp) stmts(e *env, list []ast.Stmt) (flow, error) {
	for _, s := range list {
		f, err := in.exec(e, s)
		if err != nil || f != flowNormal {
			return f, err
		}
	}

	return flowNormal, nil
}

// globals zero-initializes every global variable before running any
// initializer, so a hoisted function called from an initializer always finds
// the cells of globals declared after it. Initializers then run in
// declaration order and assign into the existing cells.
func (in *interp) globals(e *env, prog *ast.Program) error {
	var decls []*ast.VarDecl

	for _, d := range prog.Decls {
		if vd, ok := d.(*ast.VarDecl); ok {
			for _, s := range vd.Specs {
				e.bind(s.Sym, &Cell{V: value.Zero(vd.Type)})
			}

			decls = append(decls, vd)
		}
	}

	for _, vd := range decls {
		for _, s := range vd.Specs {
			if s.Init == nil {
				continue
			}

			v, err := in.eval(e, s.Init)
			if err != nil {
				return err
			}

			e.cell(s.Sym).V = v
		}
	}

	return nil
}

func (in *interp) varDecl(e *env, d *ast.VarDecl) error {
	for _, s := range d.Specs {
		var v value.Value

		if s.Init != nil {
			var err error

			v, err = in.eval(e, s.Init)
			if err != nil {
				return err
			}
		} else {
			v = value.Zero(d.Type)
		}

		e.bind(s.Sym, &Cell{V: v})
	}

	return nil
}

func (in *interp) exec(e *env, s ast.Stmt) (flow, error) {
	switch s := s.(type) {
	case *ast.Block:
		return in.stmts(newEnv(e), s.Stmts)

	case *ast.VarDecl:
		return flowNormal, in.varDecl(e, s)

	case *ast.FuncDecl:
		e.define(s.Sym, &closure{decl: s, env: e})

		return flowNormal, nil

	case *ast.If:
		ok, err := in.cond(e, s.Cond)
		if err != nil {
			return flowNormal, err
		}

		if ok {
			return in.exec(newEnv(e), s.Then)
		}

		if s.Else != nil {
			return in.exec(newEnv(e), s.Else)
		}

		return flowNormal, nil

	case *ast.While:
		return in.loop(e, s.Pos(), s.Cond, nil, s.Body)

	case *ast.For:
		scope := newEnv(e)

		if s.Init != nil {
			if _, err := in.exec(scope, s.Init); err != nil {
				return flowNormal, err
			}
		}

		return in.loop(scope, s.Pos(), s.Cond, s.Post, s.Body)

	case *ast.Return:
		in.ret = nil

		if s.Value != nil {
			v, err := in.eval(e, s.Value)
			if err != nil {
				return flowNormal, err
			}

			in.ret = v
		}

		return flowReturn, nil

	case *ast.Break:
		return flowBreak, nil

	case *ast.Continue:
		return flowContinue, nil

	case *ast.Print:
		for _, a := range s.Args {
			v, err := in.eval(e, a)
			if err != nil {
				return flowNormal, err
			}

			if _, err := value.Fprint(in.out, v); err != nil {
				return flowNormal, err
			}
		}

		return flowNormal, nil

	case *ast.Tie:
		v, err := in.eval(e, s.Value)
		if err != nil {
			return flowNormal, err
		}

		cells := make([]*Cell, len(s.Targets))

		for i, id := range s.Targets {
			if cells[i], err = variable(e, id); err != nil {
				return flowNormal, err
			}
		}

		for i, elem := range v.(value.Tuple) {
			cells[i].V = elem
		}

		return flowNormal, nil

	case *ast.Assign:
		return flowNormal, in.assign(e, s)

	case *ast.IncDec:
		cell, err := variable(e, s.Target)
		if err != nil {
			return flowNormal, err
		}

		n := cell.V.(value.Int)
		if s.Op == token.Inc {
			cell.V = n + 1
		} else {
			cell.V = n - 1
		}

		return flowNormal, nil

	case *ast.ExprStmt:
		_, err := in.eval(e, s.X)

		return flowNormal, err

	case *ast.Empty:
		return flowNormal, nil
	}

	return flowNormal, diag.ErrRuntime.At(s.Pos()).Errorf("unexpected statement %T", s)
}

func (in *interp) cond(e *env, x ast.Expr) (bool, error) {
	v, err := in.eval(e, x)
	if err != nil {
		return false, err
	}

	return bool(v.(value.Bool)), nil
}

// loop runs a while or for loop. A nil cond loops until break or return.
func (in *interp) loop(
	e *env,
	pos token.Position,
	cond ast.Expr,
	post ast.Stmt,
	body ast.Stmt,
) (flow, error) {
	for {
		if err := in.interrupted(pos); err != nil {
			return flowNormal, err
		}

		if cond != nil {
			ok, err := in.cond(e, cond)
			if err != nil {
				return flowNormal, err
			}

			if !ok {
				return flowNormal, nil
			}
		}

		f, err := in.exec(newEnv(e), body)
		if err != nil {
			return flowNormal, err
		}

		switch f {
		case flowBreak:
			return flowNormal, nil

		case flowReturn:
			return flowReturn, nil
		}

		if post != nil {
			if _, err := in.exec(e, post); err != nil {
				return flowNormal, err
			}
		}
	}
}

func (in *interp) assign(e *env, s *ast.Assign) error {
	cell, err := variable(e, s.Target)
	if err != nil {
		return err
	}

	if s.Op == token.Assign {
		v, err := in.eval(e, s.Value)
		if err != nil {
			return err
		}

		cell.V = v

		return nil
	}

	op, _ := token.CompoundOp(s.Op)

	v, err := in.binary(e, s.Pos(), op, cell.V, s.Value)
	if err != nil {
		return err
	}

	cell.V = v

	return nil
}
