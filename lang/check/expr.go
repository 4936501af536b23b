package check

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/tuplet/lang/ast"
	"github.com/ardnew/tuplet/lang/diag"
	"github.com/ardnew/tuplet/lang/token"
	"github.com/ardnew/tuplet/lang/types"
)

// Container operations available through the arrow operator.
const (
	OpPushBack  = "push_back"
	OpPushFront = "push_front"
	OpPopBack   = "pop_back"
	OpPopFront  = "pop_front"
	OpFront     = "front"
	OpBack      = "back"
	OpEmpty     = "empty"
)

// Operations lists the container operations in documentation order.
var Operations = []string{
	OpPushBack, OpPushFront, OpPopBack, OpPopFront, OpFront, OpBack, OpEmpty,
}

// value checks x in a position that requires a value.
func (c *checker) value(x ast.Expr) types.Type {
	t := c.expr(x)
	if t == types.Void {
		c.errorf(x.Pos(), "%s has no value", describe(x))

		return types.Invalid
	}

	return t
}

func describe(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Call:
		return "procedure call " + x.Func.Name + "()"
	case *ast.Method:
		return "container operation " + x.Name + "()"
	}

	return "expression"
}

// expr checks x, records its type and returns it. Procedure calls yield
// [types.Void].
func (c *checker) expr(x ast.Expr) types.Type {
	t := c.exprType(x)
	c.info.Types[x] = t

	return t
}

func (c *checker) exprType(x ast.Expr) types.Type {
	switch x := x.(type) {
	case *ast.IntLit:
		return types.Int

	case *ast.BoolLit:
		return types.Bool

	case *ast.StringLit:
		return types.String

	case *ast.Ident:
		sym := c.scope.lookup(x.Name)
		if sym == nil {
			c.errorf(x.Pos(), "undeclared identifier %s", x.Name)

			return types.Invalid
		}

		x.Sym = sym

		if sym.Kind == ast.SymFunc {
			c.errorf(x.Pos(), "function %s used as a value", x.Name)

			return types.Invalid
		}

		return sym.Type

	case *ast.Unary:
		return c.unary(x)

	case *ast.Binary:
		xt, yt := c.value(x.X), c.value(x.Y)

		t, ok := binaryType(x.Op, xt, yt)
		if !ok {
			c.errs.Add(diag.ErrType.At(x.Pos()).
				With(
					slog.String("op", x.Op.String()),
					slog.String("lhs", xt.String()),
					slog.String("rhs", yt.String()),
				).
				Errorf("operator %s not defined on %s and %s", x.Op, xt, yt))
		}

		return t

	case *ast.Call:
		return c.call(x)

	case *ast.Method:
		return c.method(x)

	case *ast.TupleLit:
		elems := make([]types.Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = c.value(e)
		}

		return types.NewTuple(elems...)

	case *ast.ListLit:
		for _, e := range x.Elems {
			if t := c.value(e); !types.Identical(x.Elem, t) {
				c.mismatch(e.Pos(), "list element", x.Elem, t)
			}
		}

		return types.NewList(x.Elem)

	case *ast.Get:
		t := c.value(x.X)
		if t == types.Invalid {
			return types.Invalid
		}

		tup, ok := t.(*types.Tuple)
		if !ok {
			c.errorf(x.X.Pos(), "get requires a tuple, found %s", t)

			return types.Invalid
		}

		if x.Index < 0 || x.Index >= len(tup.Elems) {
			c.errorf(x.Pos(), "index %d out of range for %s", x.Index, tup)

			return types.Invalid
		}

		return tup.Elems[x.Index]
	}

	c.errorf(x.Pos(), "unexpected expression %T", x)

	return types.Invalid
}

func (c *checker) unary(x *ast.Unary) types.Type {
	t := c.value(x.X)

	var want types.Type = types.Int
	if x.Op == token.Not {
		want = types.Bool
	}

	if !types.Identical(want, t) {
		c.mismatch(x.Pos(), "operator "+x.Op.String(), want, t)
	}

	return want
}

// binaryType returns the result type of x op y, and false if the operator is
// not defined on those operand types.
func binaryType(op token.Kind, x, y types.Type) (types.Type, bool) {
	switch op {
	case token.Plus:
		if x == types.Invalid || y == types.Invalid {
			return types.Invalid, true
		}

		if x == types.String && y == types.String {
			return types.String, true
		}

		return types.Int, x == types.Int && y == types.Int

	case token.Minus, token.Star, token.Slash, token.Percent:
		return types.Int, types.Identical(x, types.Int) && types.Identical(y, types.Int)

	case token.Less, token.LessEq, token.Greater, token.GreaterEq:
		return types.Bool, types.Identical(x, types.Int) && types.Identical(y, types.Int)

	case token.Eq, token.NotEq:
		return types.Bool, types.Identical(x, y) && (types.Comparable(x) || x == types.Invalid)

	case token.AndAnd, token.OrOr:
		return types.Bool, types.Identical(x, types.Bool) && types.Identical(y, types.Bool)
	}

	return types.Invalid, false
}

func (c *checker) call(x *ast.Call) types.Type {
	sym := c.scope.lookup(x.Func.Name)
	if sym == nil {
		c.errorf(x.Pos(), "undeclared function %s", x.Func.Name)
		c.args(x.Args)

		return types.Invalid
	}

	x.Func.Sym = sym

	sig, ok := sym.Type.(*types.Func)
	if !ok {
		c.errorf(x.Pos(), "%s is a %s, not a function", x.Func.Name, sym.Type)
		c.args(x.Args)

		return types.Invalid
	}

	if len(x.Args) != len(sig.Params) {
		c.errs.Add(diag.ErrType.At(x.Pos()).
			With(
				slog.Int("expected", len(sig.Params)),
				slog.Int("found", len(x.Args)),
			).
			Errorf("%s expects %d arguments, found %d", x.Func.Name, len(sig.Params), len(x.Args)))
		c.args(x.Args)

		return sig.Result
	}

	for i, arg := range x.Args {
		param := sig.Params[i]

		t := c.value(arg)
		if !types.Identical(param.Type, t) {
			c.mismatch(arg.Pos(), "argument "+strconv.Itoa(i+1)+" to "+x.Func.Name, param.Type, t)
		}

		if param.Ref {
			id, ok := arg.(*ast.Ident)
			if !ok || id.Sym == nil || id.Sym.Kind == ast.SymFunc {
				c.errorf(arg.Pos(), "argument %d to %s must be a variable (reference parameter)",
					i+1, x.Func.Name)
			}
		}
	}

	return sig.Result
}

func (c *checker) args(args []ast.Expr) {
	for _, a := range args {
		c.value(a)
	}
}

func (c *checker) method(x *ast.Method) types.Type {
	recv := c.value(x.Recv)

	var elem types.Type = types.Invalid

	switch r := recv.(type) {
	case *types.List:
		elem = r.Elem

	default:
		if recv != types.Invalid {
			c.errorf(x.Recv.Pos(), "operation %s requires a list, found %s", x.Name, recv)
		}
	}

	arity := func(n int) bool {
		if len(x.Args) == n {
			return true
		}

		c.errorf(x.Pos(), "%s expects %d arguments, found %d", x.Name, n, len(x.Args))
		c.args(x.Args)

		return false
	}

	switch x.Name {
	case OpPushBack, OpPushFront:
		if arity(1) {
			if t := c.value(x.Args[0]); !types.Identical(elem, t) {
				c.mismatch(x.Args[0].Pos(), "argument to "+x.Name, elem, t)
			}
		}

		return types.Void

	case OpPopBack, OpPopFront:
		arity(0)

		return types.Void

	case OpFront, OpBack:
		arity(0)

		return elem

	case OpEmpty:
		arity(0)

		return types.Bool
	}

	c.errorf(x.Pos(), "unknown container operation %s", x.Name)
	c.args(x.Args)

	return types.Invalid
}
