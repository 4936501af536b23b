package ast

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. Children are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch n := n.(type) {
	case *Program:
		for _, d := range n.Decls {
			Inspect(d, f)
		}

	case *FuncDecl:
		for _, p := range n.Params {
			Inspect(p, f)
		}

		Inspect(n.Body, f)

	case *VarDecl:
		for _, s := range n.Specs {
			Inspect(s, f)
		}

	case *VarSpec:
		inspectExpr(n.Init, f)

	case *Block:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}

	case *If:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)

		if n.Else != nil {
			Inspect(n.Else, f)
		}

	case *While:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)

	case *For:
		if n.Init != nil {
			Inspect(n.Init, f)
		}

		inspectExpr(n.Cond, f)

		if n.Post != nil {
			Inspect(n.Post, f)
		}

		Inspect(n.Body, f)

	case *Return:
		inspectExpr(n.Value, f)

	case *Print:
		for _, a := range n.Args {
			Inspect(a, f)
		}

	case *Tie:
		for _, t := range n.Targets {
			Inspect(t, f)
		}

		Inspect(n.Value, f)

	case *Assign:
		Inspect(n.Target, f)
		Inspect(n.Value, f)

	case *IncDec:
		Inspect(n.Target, f)

	case *ExprStmt:
		Inspect(n.X, f)

	case *Binary:
		Inspect(n.X, f)
		Inspect(n.Y, f)

	case *Unary:
		Inspect(n.X, f)

	case *Call:
		Inspect(n.Func, f)

		for _, a := range n.Args {
			Inspect(a, f)
		}

	case *Method:
		Inspect(n.Recv, f)

		for _, a := range n.Args {
			Inspect(a, f)
		}

	case *TupleLit:
		for _, e := range n.Elems {
			Inspect(e, f)
		}

	case *ListLit:
		for _, e := range n.Elems {
			Inspect(e, f)
		}

	case *Get:
		Inspect(n.X, f)
	}
}

// inspectExpr avoids wrapping a nil Expr in a non-nil Node interface.
func inspectExpr(x Expr, f func(Node) bool) {
	if x != nil {
		Inspect(x, f)
	}
}
