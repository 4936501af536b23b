// Package format renders tuplet syntax trees as canonical source text and as
// structured JSON or YAML documents.
//
// Canonical source puts one statement per line and parenthesizes only where
// operator precedence requires it. Formatting is idempotent: formatting the
// output of [Source] again yields the same text.
package format

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tuplet/lang/ast"
	"github.com/ardnew/tuplet/lang/parser"
	"github.com/ardnew/tuplet/lang/token"
)

// DefaultIndent is the number of spaces per nesting level used by tools.
const DefaultIndent = 2

// Source writes prog as canonical source text. Each nesting level is indented
// by indent spaces, or by one tab if indent is not positive.
func Source(_ context.Context, w io.Writer, prog *ast.Program, indent int) error {
	p := &printer{unit: "\t"}
	if indent > 0 {
		p.unit = strings.Repeat(" ", indent)
	}

	for i, d := range prog.Decls {
		// Separate functions from their neighbors by a blank line.
		if i > 0 {
			_, fn := d.(*ast.FuncDecl)
			_, prev := prog.Decls[i-1].(*ast.FuncDecl)

			if fn || prev {
				p.buf.WriteByte('\n')
			}
		}

		p.stmt(d)
	}

	_, err := io.WriteString(w, p.buf.String())

	return err
}

// String returns the canonical source form of the expression x.
func String(x ast.Expr) string {
	var p printer

	p.expr(x)

	return p.buf.String()
}

// JSON writes the structure of n as a JSON document. A positive indent
// pretty-prints with that many spaces per level.
func JSON(_ context.Context, w io.Writer, n ast.Node, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ast.ToMap(n), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ast.ToMap(n))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// YAML writes the structure of n as a YAML document. A positive indent sets
// the block indentation; otherwise the document uses flow style.
func YAML(ctx context.Context, w io.Writer, n ast.Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ast.ToMap(n), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

type printer struct {
	buf   strings.Builder
	unit  string
	depth int
}

func (p *printer) indent() {
	for range p.depth {
		p.buf.WriteString(p.unit)
	}
}

func (p *printer) print(parts ...string) {
	for _, s := range parts {
		p.buf.WriteString(s)
	}
}

// line writes one complete indented line.
func (p *printer) line(parts ...string) {
	p.indent()
	p.print(parts...)
	p.buf.WriteByte('\n')
}

func (p *printer) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		p.indent()
		p.block(s)
		p.buf.WriteByte('\n')

	case *ast.FuncDecl:
		p.indent()
		p.funcHeader(s)
		p.print(" ")
		p.block(s.Body)
		p.buf.WriteByte('\n')

	case *ast.VarDecl:
		p.indent()
		p.varDecl(s)
		p.print(";\n")

	case *ast.If:
		p.indent()
		p.ifChain(s)

	case *ast.While:
		p.indent()
		p.print("while (")
		p.expr(s.Cond)
		p.print(")")
		p.body(s.Body)

	case *ast.For:
		p.indent()
		p.print("for (")

		if s.Init != nil {
			p.simple(s.Init)
		}

		p.print(";")

		if s.Cond != nil {
			p.print(" ")
			p.expr(s.Cond)
		}

		p.print(";")

		if s.Post != nil {
			p.print(" ")
			p.simple(s.Post)
		}

		p.print(")")
		p.body(s.Body)

	case *ast.Return:
		if s.Value == nil {
			p.line("return;")

			return
		}

		p.indent()
		p.print("return ")
		p.expr(s.Value)
		p.print(";\n")

	case *ast.Break:
		p.line("break;")

	case *ast.Continue:
		p.line("continue;")

	case *ast.Print:
		p.indent()
		p.print("cout")

		for _, a := range s.Args {
			p.print(" << ")
			p.expr(a)
		}

		p.print(";\n")

	case *ast.Tie:
		p.indent()
		p.print("tie(")

		for i, id := range s.Targets {
			if i > 0 {
				p.print(", ")
			}

			p.print(id.Name)
		}

		p.print(") = ")
		p.expr(s.Value)
		p.print(";\n")

	case *ast.Empty:
		p.line(";")

	default:
		p.indent()
		p.simple(s)
		p.print(";\n")
	}
}

// simple writes a statement allowed in a for clause, without terminator.
func (p *printer) simple(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		p.varDecl(s)

	case *ast.Assign:
		p.print(s.Target.Name, " ", s.Op.String(), " ")
		p.expr(s.Value)

	case *ast.IncDec:
		p.print(s.Target.Name, s.Op.String())

	case *ast.ExprStmt:
		p.expr(s.X)
	}
}

func (p *printer) funcHeader(d *ast.FuncDecl) {
	p.print(d.Result.String(), " ", d.Name, "(")

	for i, param := range d.Params {
		if i > 0 {
			p.print(", ")
		}

		p.print(param.Type.String(), " ")

		if param.Ref {
			p.print("&")
		}

		p.print(param.Name)
	}

	p.print(")")
}

func (p *printer) varDecl(d *ast.VarDecl) {
	p.print(d.Type.String(), " ")

	for i, s := range d.Specs {
		if i > 0 {
			p.print(", ")
		}

		p.print(s.Name)

		if s.Init != nil {
			p.print(" = ")
			p.expr(s.Init)
		}
	}
}

// block writes b starting at the current column and leaves the cursor after
// the closing brace.
func (p *printer) block(b *ast.Block) {
	if len(b.Stmts) == 0 {
		p.print("{}")

		return
	}

	p.print("{\n")
	p.depth++

	for _, s := range b.Stmts {
		p.stmt(s)
	}

	p.depth--
	p.indent()
	p.print("}")
}

// body writes the body of a compound statement whose header has been written.
func (p *printer) body(s ast.Stmt) {
	if b, ok := s.(*ast.Block); ok {
		p.print(" ")
		p.block(b)
		p.buf.WriteByte('\n')

		return
	}

	p.buf.WriteByte('\n')
	p.depth++
	p.stmt(s)
	p.depth--
}

func (p *printer) ifChain(s *ast.If) {
	p.print("if (")
	p.expr(s.Cond)
	p.print(")")

	then, braced := s.Then.(*ast.Block)
	if !braced {
		p.body(s.Then)

		if s.Else != nil {
			p.indent()
			p.print("else")
			p.elseBody(s.Else)
		}

		return
	}

	p.print(" ")
	p.block(then)

	if s.Else == nil {
		p.buf.WriteByte('\n')

		return
	}

	p.print(" else")
	p.elseBody(s.Else)
}

func (p *printer) elseBody(s ast.Stmt) {
	if next, ok := s.(*ast.If); ok {
		p.print(" ")
		p.ifChain(next)

		return
	}

	p.body(s)
}

func (p *printer) expr(x ast.Expr) {
	switch x := x.(type) {
	case *ast.Ident:
		p.print(x.Name)

	case *ast.IntLit:
		p.print(strconv.FormatInt(x.Value, 10))

	case *ast.BoolLit:
		p.print(strconv.FormatBool(x.Value))

	case *ast.StringLit:
		p.print(strconv.Quote(x.Value))

	case *ast.Binary:
		prec := parser.Precedence(x.Op)

		// Operators are left-associative: a right operand at the same level
		// needs parentheses.
		p.operand(x.X, prec)
		p.print(" ", x.Op.String(), " ")
		p.operand(x.Y, prec+1)

	case *ast.Unary:
		p.print(x.Op.String())

		switch y := x.X.(type) {
		case *ast.Binary:
			p.paren(y)
		case *ast.Unary:
			if x.Op == token.Minus && y.Op == token.Minus {
				p.paren(y)
			} else {
				p.expr(y)
			}
		default:
			p.expr(y)
		}

	case *ast.Call:
		p.print(x.Func.Name)
		p.args("(", ")", x.Args)

	case *ast.Method:
		switch x.Recv.(type) {
		case *ast.Binary, *ast.Unary:
			p.paren(x.Recv)
		default:
			p.expr(x.Recv)
		}

		p.print("->", x.Name)
		p.args("(", ")", x.Args)

	case *ast.TupleLit:
		p.print("make_tuple")
		p.args("(", ")", x.Elems)

	case *ast.ListLit:
		p.print("list<", x.Elem.String(), "> ")
		p.args("{", "}", x.Elems)

	case *ast.Get:
		p.print("get<", strconv.Itoa(x.Index), ">(")
		p.expr(x.X)
		p.print(")")
	}
}

// operand writes x, parenthesized if it binds looser than prec.
func (p *printer) operand(x ast.Expr, prec int) {
	if b, ok := x.(*ast.Binary); ok && parser.Precedence(b.Op) < prec {
		p.paren(x)

		return
	}

	p.expr(x)
}

func (p *printer) paren(x ast.Expr) {
	p.print("(")
	p.expr(x)
	p.print(")")
}

func (p *printer) args(open, closing string, list []ast.Expr) {
	p.print(open)

	for i, a := range list {
		if i > 0 {
			p.print(", ")
		}

		p.expr(a)
	}

	p.print(closing)
}
