// Package check performs static analysis of tuplet programs.
//
// [Program] resolves every identifier to its declaring [ast.Symbol], computes
// the static type of every expression, and rejects ill-typed programs before
// they run. All diagnostics found are reported together in a [*diag.List].
package check

import (
	"context"
	"log/slog"

	"github.com/ardnew/tuplet/lang/ast"
	"github.com/ardnew/tuplet/lang/diag"
	"github.com/ardnew/tuplet/lang/token"
	"github.com/ardnew/tuplet/lang/types"
	"github.com/ardnew/tuplet/log"
)

// EntryPoint is the name of the function where execution begins.
const EntryPoint = "main"

// Info records the results of checking a program.
type Info struct {
	// Types maps every checked expression to its static type.
	Types map[ast.Expr]types.Type
	// Main is the entry point declaration.
	Main *ast.FuncDecl
	// Globals holds the top-level symbols in declaration order.
	Globals []*ast.Symbol
}

// TypeOf returns the static type recorded for x, or [types.Invalid].
func (i *Info) TypeOf(x ast.Expr) types.Type {
	if t, ok := i.Types[x]; ok {
		return t
	}

	return types.Invalid
}

// Option configures a check.
type Option func(*checker)

// WithLogger sets the logger receiving trace output.
func WithLogger(logger log.Logger) Option {
	return func(c *checker) { c.logger = logger }
}

// WithoutEntryPoint skips the requirement that a main function exists.
func WithoutEntryPoint() Option {
	return func(c *checker) { c.noMain = true }
}

// Program checks prog and annotates its identifiers with symbols. The returned
// error, if any, is a [*diag.List] of [diag.ErrType] diagnostics.
func Program(ctx context.Context, prog *ast.Program, opts ...Option) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &checker{
		ctx:  ctx,
		info: &Info{Types: make(map[ast.Expr]types.Type)},
	}

	for _, opt := range opts {
		opt(c)
	}

	done := c.logger.Span(ctx, "check complete")

	c.program(prog)

	done(
		slog.Int("decls", len(prog.Decls)),
		slog.Int("exprs", len(c.info.Types)),
		slog.Int("errors", c.errs.Len()),
	)

	if err := c.errs.Err(); err != nil {
		return c.info, err
	}

	return c.info, nil
}

type checker struct {
	ctx    context.Context
	logger log.Logger
	info   *Info
	errs   diag.List
	scope  *scope
	fn     *ast.FuncDecl
	loops  int
	noMain bool
}

func (c *checker) errorf(pos token.Position, format string, args ...any) {
	c.errs.Add(diag.ErrType.At(pos).Errorf(format, args...))
}

// mismatch reports a type mismatch between want and got.
func (c *checker) mismatch(pos token.Position, what string, want, got types.Type) {
	c.errs.Add(diag.ErrType.At(pos).
		With(
			slog.String("expected", want.String()),
			slog.String("found", got.String()),
		).
		Errorf("%s: expected %s, found %s", what, want, got))
}

func (c *checker) push() { c.scope = newScope(c.scope) }

func (c *checker) pop() { c.scope = c.scope.parent }

// declare adds sym to the innermost scope, reporting redeclarations.
func (c *checker) declare(sym *ast.Symbol) {
	if prev := c.scope.insert(sym); prev != nil {
		c.errs.Add(diag.ErrType.At(sym.Decl.Pos()).
			With(slog.Any("previous", prev.Decl.Pos())).
			Errorf("%s redeclared in this scope (previous declaration at %s)",
				sym.Name, prev.Decl.Pos()))
	}
}

func (c *checker) program(prog *ast.Program) {
	c.push()
	defer c.pop()

	// Top-level functions are visible throughout the program.
	for _, fn := range prog.Funcs() {
		fn.Sym = &ast.Symbol{
			Name:   fn.Name,
			Kind:   ast.SymFunc,
			Type:   fn.Signature(),
			Decl:   fn,
			Global: true,
		}
		c.declare(fn.Sym)
		c.info.Globals = append(c.info.Globals, fn.Sym)
	}

	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			c.funcBody(d)

		case *ast.VarDecl:
			c.varDecl(d, true)
			for _, s := range d.Specs {
				c.info.Globals = append(c.info.Globals, s.Sym)
			}
		}
	}

	if c.noMain {
		return
	}

	sym := c.scope.names[EntryPoint]
	if sym == nil || sym.Kind != ast.SymFunc {
		c.errorf(prog.Pos(), "function %s is undeclared", EntryPoint)

		return
	}

	fn := sym.Func()
	if len(fn.Params) != 0 {
		c.errorf(fn.Pos(), "function %s must have no parameters", EntryPoint)
	}

	if fn.Result != types.Int && fn.Result != types.Void {
		c.errorf(fn.Pos(), "function %s must return int or void, not %s", EntryPoint, fn.Result)
	}

	c.info.Main = fn
}

// funcBody checks the parameters and body of fn, whose symbol has already
// been declared.
func (c *checker) funcBody(fn *ast.FuncDecl) {
	outerFn, outerLoops := c.fn, c.loops
	c.fn, c.loops = fn, 0

	defer func() { c.fn, c.loops = outerFn, outerLoops }()

	c.push()
	defer c.pop()

	for _, p := range fn.Params {
		p.Sym = &ast.Symbol{Name: p.Name, Kind: ast.SymParam, Type: p.Type, Ref: p.Ref, Decl: p}
		c.declare(p.Sym)
	}

	// The body shares the parameter scope.
	c.stmts(fn.Body.Stmts)

	if fn.Result != types.Void && !returns(fn.Body) {
		c.errorf(fn.Pos(), "function %s does not return a value on every path", fn.Name)
	}

	c.logger.TraceContext(c.ctx, "checked function",
		slog.String("name", fn.Name),
		slog.String("signature", fn.Signature().String()),
	)
}

// returns reports whether every path through s ends in a return statement.
func returns(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.Return:
		return true

	case *ast.Block:
		for _, st := range s.Stmts {
			if returns(st) {
				return true
			}
		}

	case *ast.If:
		return s.Else != nil && returns(s.Then) && returns(s.Else)

	case *ast.While:
		return always(s.Cond) && !breaks(s.Body)

	case *ast.For:
		return (s.Cond == nil || always(s.Cond)) && !breaks(s.Body)
	}

	return false
}

// always reports whether cond is the literal true.
func always(cond ast.Expr) bool {
	lit, ok := cond.(*ast.BoolLit)

	return ok && lit.Value
}

// breaks reports whether body holds a break that leaves the loop it belongs
// to. Breaks inside nested loops and functions leave those instead.
func breaks(body ast.Stmt) bool {
	found := false

	ast.Inspect(body, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.Break:
			found = true
		case *ast.While, *ast.For, *ast.FuncDecl:
			return false
		}

		return !found
	})

	return found
}

func (c *checker) varDecl(d *ast.VarDecl, global bool) {
	for _, s := range d.Specs {
		if s.Init != nil {
			if t := c.value(s.Init); !types.Identical(d.Type, t) {
				c.mismatch(s.Init.Pos(), "cannot initialize "+s.Name, d.Type, t)
			}
		}

		s.Sym = &ast.Symbol{Name: s.Name, Kind: ast.SymVar, Type: d.Type, Decl: s, Global: global}
		c.declare(s.Sym)
	}
}

func (c *checker) stmts(list []ast.Stmt) {
	for _, s := range list {
		c.stmt(s)
	}
}

// scoped checks s in its own scope.
func (c *checker) scoped(s ast.Stmt) {
	c.push()
	defer c.pop()

	c.stmt(s)
}

func (c *checker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		c.push()
		c.stmts(s.Stmts)
		c.pop()

	case *ast.VarDecl:
		c.varDecl(s, false)

	case *ast.FuncDecl:
		s.Sym = &ast.Symbol{Name: s.Name, Kind: ast.SymFunc, Type: s.Signature(), Decl: s}
		c.declare(s.Sym)
		c.funcBody(s)

	case *ast.If:
		c.cond(s.Cond)
		c.scoped(s.Then)

		if s.Else != nil {
			c.scoped(s.Else)
		}

	case *ast.While:
		c.cond(s.Cond)
		c.loop(s.Body)

	case *ast.For:
		c.push()

		if s.Init != nil {
			c.stmt(s.Init)
		}

		if s.Cond != nil {
			c.cond(s.Cond)
		}

		c.loop(s.Body)

		if s.Post != nil {
			c.stmt(s.Post)
		}

		c.pop()

	case *ast.Return:
		c.ret(s)

	case *ast.Break:
		if c.loops == 0 {
			c.errorf(s.Pos(), "break is not in a loop")
		}

	case *ast.Continue:
		if c.loops == 0 {
			c.errorf(s.Pos(), "continue is not in a loop")
		}

	case *ast.Print:
		for _, a := range s.Args {
			c.value(a)
		}

	case *ast.Tie:
		c.tie(s)

	case *ast.Assign:
		c.assign(s)

	case *ast.IncDec:
		if t := c.target(s.Target); !types.Identical(t, types.Int) {
			c.mismatch(s.Pos(), "operator "+s.Op.String(), types.Int, t)
		}

	case *ast.ExprStmt:
		c.expr(s.X)

	case *ast.Empty:
	}
}

func (c *checker) cond(x ast.Expr) {
	if t := c.value(x); !types.Identical(t, types.Bool) {
		c.mismatch(x.Pos(), "condition", types.Bool, t)
	}
}

func (c *checker) loop(body ast.Stmt) {
	c.loops++
	c.scoped(body)
	c.loops--
}

func (c *checker) ret(s *ast.Return) {
	if c.fn.Result == types.Void {
		if s.Value != nil {
			c.value(s.Value)
			c.errorf(s.Pos(), "procedure %s cannot return a value", c.fn.Name)
		}

		return
	}

	if s.Value == nil {
		c.errorf(s.Pos(), "function %s must return a value of type %s", c.fn.Name, c.fn.Result)

		return
	}

	if t := c.value(s.Value); !types.Identical(c.fn.Result, t) {
		c.mismatch(s.Value.Pos(), "return value of "+c.fn.Name, c.fn.Result, t)
	}
}

// target resolves the variable assigned by a statement and returns its type.
func (c *checker) target(id *ast.Ident) types.Type {
	sym := c.scope.lookup(id.Name)
	if sym == nil {
		c.errorf(id.Pos(), "undeclared identifier %s", id.Name)

		return types.Invalid
	}

	id.Sym = sym

	if sym.Kind == ast.SymFunc {
		c.errorf(id.Pos(), "cannot assign to function %s", id.Name)

		return types.Invalid
	}

	return sym.Type
}

func (c *checker) assign(s *ast.Assign) {
	want := c.target(s.Target)
	got := c.value(s.Value)

	if s.Op == token.Assign {
		if !types.Identical(want, got) {
			c.mismatch(s.Value.Pos(), "cannot assign to "+s.Target.Name, want, got)
		}

		return
	}

	op, _ := token.CompoundOp(s.Op)

	result, ok := binaryType(op, want, got)
	if !ok {
		c.errs.Add(diag.ErrType.At(s.Pos()).
			With(
				slog.String("op", s.Op.String()),
				slog.String("lhs", want.String()),
				slog.String("rhs", got.String()),
			).
			Errorf("operator %s not defined on %s and %s", s.Op, want, got))

		return
	}

	if !types.Identical(want, result) {
		c.mismatch(s.Pos(), "cannot assign to "+s.Target.Name, want, result)
	}
}

func (c *checker) tie(s *ast.Tie) {
	got := c.value(s.Value)

	targets := make([]types.Type, len(s.Targets))
	for i, id := range s.Targets {
		targets[i] = c.target(id)
	}

	if got == types.Invalid {
		return
	}

	tup, ok := got.(*types.Tuple)
	if !ok {
		c.errorf(s.Value.Pos(), "tie requires a tuple, found %s", got)

		return
	}

	if len(tup.Elems) != len(s.Targets) {
		c.errs.Add(diag.ErrType.At(s.Pos()).
			With(
				slog.Int("targets", len(s.Targets)),
				slog.Int("arity", len(tup.Elems)),
			).
			Errorf("tie has %d targets but %s has %d elements", len(s.Targets), tup, len(tup.Elems)))

		return
	}

	for i, want := range targets {
		if !types.Identical(want, tup.Elems[i]) {
			c.mismatch(s.Targets[i].Pos(), "cannot tie "+s.Targets[i].Name, want, tup.Elems[i])
		}
	}
}
