package ast

// ToMap converts the tree rooted at n into nested maps and slices suitable for
// JSON or YAML encoding. Every node becomes a map with a "node" key naming its
// kind and a "pos" key holding "line:column".
func ToMap(n Node) any {
	if n == nil {
		return nil
	}

	m := map[string]any{"pos": n.Pos().String()}

	switch n := n.(type) {
	case *Program:
		m["node"] = "program"
		m["decls"] = stmts(n.Decls)

	case *FuncDecl:
		m["node"] = "func"
		m["name"] = n.Name
		m["result"] = n.Result.String()

		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = ToMap(p)
		}

		m["params"] = params
		m["body"] = ToMap(n.Body)

	case *Param:
		m["node"] = "param"
		m["name"] = n.Name
		m["type"] = n.Type.String()
		m["ref"] = n.Ref

	case *VarDecl:
		m["node"] = "var"
		m["type"] = n.Type.String()

		specs := make([]any, len(n.Specs))
		for i, s := range n.Specs {
			spec := map[string]any{"name": s.Name}
			if s.Init != nil {
				spec["init"] = ToMap(s.Init)
			}

			specs[i] = spec
		}

		m["specs"] = specs

	case *Block:
		m["node"] = "block"
		m["stmts"] = stmts(n.Stmts)

	case *If:
		m["node"] = "if"
		m["cond"] = ToMap(n.Cond)
		m["then"] = ToMap(n.Then)

		if n.Else != nil {
			m["else"] = ToMap(n.Else)
		}

	case *While:
		m["node"] = "while"
		m["cond"] = ToMap(n.Cond)
		m["body"] = ToMap(n.Body)

	case *For:
		m["node"] = "for"

		if n.Init != nil {
			m["init"] = ToMap(n.Init)
		}

		if n.Cond != nil {
			m["cond"] = ToMap(n.Cond)
		}

		if n.Post != nil {
			m["post"] = ToMap(n.Post)
		}

		m["body"] = ToMap(n.Body)

	case *Return:
		m["node"] = "return"

		if n.Value != nil {
			m["value"] = ToMap(n.Value)
		}

	case *Break:
		m["node"] = "break"

	case *Continue:
		m["node"] = "continue"

	case *Print:
		m["node"] = "print"
		m["args"] = exprs(n.Args)

	case *Tie:
		m["node"] = "tie"

		targets := make([]any, len(n.Targets))
		for i, t := range n.Targets {
			targets[i] = t.Name
		}

		m["targets"] = targets
		m["value"] = ToMap(n.Value)

	case *Assign:
		m["node"] = "assign"
		m["target"] = n.Target.Name
		m["op"] = n.Op.String()
		m["value"] = ToMap(n.Value)

	case *IncDec:
		m["node"] = "incdec"
		m["target"] = n.Target.Name
		m["op"] = n.Op.String()

	case *ExprStmt:
		m["node"] = "expr"
		m["x"] = ToMap(n.X)

	case *Empty:
		m["node"] = "empty"

	case *Ident:
		m["node"] = "ident"
		m["name"] = n.Name

	case *IntLit:
		m["node"] = "int"
		m["value"] = n.Value

	case *BoolLit:
		m["node"] = "bool"
		m["value"] = n.Value

	case *StringLit:
		m["node"] = "string"
		m["value"] = n.Value

	case *Binary:
		m["node"] = "binary"
		m["op"] = n.Op.String()
		m["x"] = ToMap(n.X)
		m["y"] = ToMap(n.Y)

	case *Unary:
		m["node"] = "unary"
		m["op"] = n.Op.String()
		m["x"] = ToMap(n.X)

	case *Call:
		m["node"] = "call"
		m["func"] = n.Func.Name
		m["args"] = exprs(n.Args)

	case *Method:
		m["node"] = "method"
		m["recv"] = ToMap(n.Recv)
		m["name"] = n.Name
		m["args"] = exprs(n.Args)

	case *TupleLit:
		m["node"] = "tuple"
		m["elems"] = exprs(n.Elems)

	case *ListLit:
		m["node"] = "list"
		m["elem"] = n.Elem.String()
		m["elems"] = exprs(n.Elems)

	case *Get:
		m["node"] = "get"
		m["index"] = n.Index
		m["x"] = ToMap(n.X)
	}

	return m
}

func stmts(list []Stmt) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = ToMap(s)
	}

	return out
}

func exprs(list []Expr) []any {
	out := make([]any, len(list))
	for i, x := range list {
		out[i] = ToMap(x)
	}

	return out
}
