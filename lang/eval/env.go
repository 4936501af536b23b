package eval

import (
	"github.com/ardnew/tuplet/lang/ast"
	"github.com/ardnew/tuplet/lang/value"
)

// Cell is the storage of one variable binding. Reference parameters share
// the caller's cell.
type Cell struct {
	V value.Value
}

// closure is a function bound to the environment it was declared in.
type closure struct {
	decl *ast.FuncDecl
	env  *env
}

// env is one activation scope. Bindings are keyed by the declaring symbol
// resolved during checking, so lookups never confuse two declarations that
// share a name.
type env struct {
	parent *env
	cells  map[*ast.Symbol]*Cell
	funcs  map[*ast.Symbol]*closure
}

func newEnv(parent *env) *env {
	return &env{parent: parent}
}

func (e *env) bind(sym *ast.Symbol, cell *Cell) {
	if e.cells == nil {
		e.cells = make(map[*ast.Symbol]*Cell)
	}

	e.cells[sym] = cell
}

func (e *env) define(sym *ast.Symbol, fn *closure) {
	if e.funcs == nil {
		e.funcs = make(map[*ast.Symbol]*closure)
	}

	e.funcs[sym] = fn
}

func (e *env) cell(sym *ast.Symbol) *Cell {
	for ; e != nil; e = e.parent {
		if c, ok := e.cells[sym]; ok {
			return c
		}
	}

	return nil
}

func (e *env) closure(sym *ast.Symbol) *closure {
	for ; e != nil; e = e.parent {
		if fn, ok := e.funcs[sym]; ok {
			return fn
		}
	}

	return nil
}
