package eval

import (
	"github.com/ardnew/tuplet/lang/ast"
	"github.com/ardnew/tuplet/lang/check"
	"github.com/ardnew/tuplet/lang/diag"
	"github.com/ardnew/tuplet/lang/token"
	"github.com/ardnew/tuplet/lang/value"
)

// eval computes the value of x. Procedure calls and container mutators yield
// a nil value.
func (in *interp) eval(e *env, x ast.Expr) (value.Value, error) {
	switch x := x.(type) {
	case *ast.IntLit:
		return value.Int(x.Value), nil

	case *ast.BoolLit:
		return value.Bool(x.Value), nil

	case *ast.StringLit:
		return value.String(x.Value), nil

	case *ast.Ident:
		cell, err := variable(e, x)
		if err != nil {
			return nil, err
		}

		return cell.V, nil

	case *ast.Unary:
		v, err := in.eval(e, x.X)
		if err != nil {
			return nil, err
		}

		if x.Op == token.Not {
			return !v.(value.Bool), nil
		}

		return -v.(value.Int), nil

	case *ast.Binary:
		lhs, err := in.eval(e, x.X)
		if err != nil {
			return nil, err
		}

		return in.binary(e, x.Pos(), x.Op, lhs, x.Y)

	case *ast.Call:
		return in.call(e, x)

	case *ast.Method:
		return in.method(e, x)

	case *ast.TupleLit:
		elems, err := in.evalAll(e, x.Elems)
		if err != nil {
			return nil, err
		}

		return value.Tuple(elems), nil

	case *ast.ListLit:
		elems, err := in.evalAll(e, x.Elems)
		if err != nil {
			return nil, err
		}

		return value.NewList(elems...), nil

	case *ast.Get:
		v, err := in.eval(e, x.X)
		if err != nil {
			return nil, err
		}

		return v.(value.Tuple)[x.Index], nil
	}

	return nil, diag.ErrRuntime.At(x.Pos()).Errorf("unexpected expression %T", x)
}

func (in *interp) evalAll(e *env, list []ast.Expr) ([]value.Value, error) {
	out := make([]value.Value, len(list))

	for i, x := range list {
		v, err := in.eval(e, x)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

// binary applies op to lhs and the value of y. The right operand of && and
// || is evaluated only when needed.
func (in *interp) binary(
	e *env,
	pos token.Position,
	op token.Kind,
	lhs value.Value,
	y ast.Expr,
) (value.Value, error) {
	switch op {
	case token.AndAnd:
		if !lhs.(value.Bool) {
			return value.Bool(false), nil
		}

		return in.eval(e, y)

	case token.OrOr:
		if lhs.(value.Bool) {
			return value.Bool(true), nil
		}

		return in.eval(e, y)
	}

	rhs, err := in.eval(e, y)
	if err != nil {
		return nil, err
	}

	switch op {
	case token.Eq:
		return value.Bool(value.Equal(lhs, rhs)), nil

	case token.NotEq:
		return value.Bool(!value.Equal(lhs, rhs)), nil
	}

	if s, ok := lhs.(value.String); ok {
		return s + rhs.(value.String), nil
	}

	a, b := lhs.(value.Int), rhs.(value.Int)

	switch op {
	case token.Plus:
		return a + b, nil

	case token.Minus:
		return a - b, nil

	case token.Star:
		return a * b, nil

	case token.Slash:
		if b == 0 {
			return nil, diag.ErrRuntime.At(pos).Errorf("division by zero")
		}

		return a / b, nil

	case token.Percent:
		if b == 0 {
			return nil, diag.ErrRuntime.At(pos).Errorf("modulo by zero")
		}

		return a % b, nil

	case token.Less:
		return value.Bool(a < b), nil

	case token.LessEq:
		return value.Bool(a <= b), nil

	case token.Greater:
		return value.Bool(a > b), nil

	case token.GreaterEq:
		return value.Bool(a >= b), nil
	}

	return nil, diag.ErrRuntime.At(pos).Errorf("unexpected operator %s", op)
}

// call evaluates the arguments of x left to right in the caller's environment
// and invokes the callee. Reference parameters receive the caller's cell.
func (in *interp) call(e *env, x *ast.Call) (value.Value, error) {
	fn := e.closure(x.Func.Sym)
	if fn == nil {
		return nil, diag.ErrRuntime.At(x.Pos()).Errorf("function %s is not bound", x.Func.Name)
	}

	cells := make([]*Cell, len(x.Args))

	for i, arg := range x.Args {
		if fn.decl.Params[i].Ref {
			cell, err := variable(e, arg.(*ast.Ident))
			if err != nil {
				return nil, err
			}

			cells[i] = cell

			continue
		}

		v, err := in.eval(e, arg)
		if err != nil {
			return nil, err
		}

		cells[i] = &Cell{V: v}
	}

	return in.invoke(fn, cells, x.Pos())
}

func (in *interp) method(e *env, x *ast.Method) (value.Value, error) {
	recv, err := in.eval(e, x.Recv)
	if err != nil {
		return nil, err
	}

	l := recv.(*value.List)

	empty := func() error {
		return diag.ErrRuntime.At(x.Pos()).Errorf("%s on empty list", x.Name)
	}

	switch x.Name {
	case check.OpPushBack, check.OpPushFront:
		v, err := in.eval(e, x.Args[0])
		if err != nil {
			return nil, err
		}

		if x.Name == check.OpPushBack {
			l.PushBack(v)
		} else {
			l.PushFront(v)
		}

		return nil, nil

	case check.OpPopBack:
		if !l.PopBack() {
			return nil, empty()
		}

		return nil, nil

	case check.OpPopFront:
		if !l.PopFront() {
			return nil, empty()
		}

		return nil, nil

	case check.OpFront:
		v, ok := l.Front()
		if !ok {
			return nil, empty()
		}

		return v, nil

	case check.OpBack:
		v, ok := l.Back()
		if !ok {
			return nil, empty()
		}

		return v, nil

	case check.OpEmpty:
		return value.Bool(l.Empty()), nil
	}

	return nil, diag.ErrRuntime.At(x.Pos()).Errorf("unknown container operation %s", x.Name)
}

// variable returns the cell bound to id. Checked programs always find one.
func variable(e *env, id *ast.Ident) (*Cell, error) {
	if cell := e.cell(id.Sym); cell != nil {
		return cell, nil
	}

	return nil, diag.ErrRuntime.At(id.Pos()).Errorf("variable %s is not bound", id.Name)
}
