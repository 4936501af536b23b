// Package parser builds syntax trees from tuplet token streams.
//
// The parser is a hand-written recursive descent parser that stops at the
// first grammar violation and reports it as a [diag.ErrParse] error carrying
// the expected and found tokens.
package parser

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/tuplet/lang/ast"
	"github.com/ardnew/tuplet/lang/diag"
	"github.com/ardnew/tuplet/lang/lexer"
	"github.com/ardnew/tuplet/lang/token"
	"github.com/ardnew/tuplet/lang/types"
)

// Parse builds a program from toks, which must end with [token.EOF].
func Parse(toks []token.Token) (*ast.Program, error) {
	p := newParser(toks)

	return p.parseProgram()
}

// ParseString tokenizes and parses src.
func ParseString(src string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}

	return Parse(toks)
}

// ParseExpr parses src as a single expression.
func ParseExpr(src string) (ast.Expr, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := newParser(toks)

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.EOF, "end of expression"); err != nil {
		return nil, err
	}

	return x, nil
}

type parser struct {
	toks []token.Token
	pos  int
}

func newParser(toks []token.Token) *parser {
	if n := len(toks); n == 0 || toks[n-1].Kind != token.EOF {
		var at token.Position
		if n > 0 {
			at = toks[n-1].Pos
		}

		toks = append(toks[:n:n], token.Token{Kind: token.EOF, Pos: at})
	}

	return &parser{toks: toks}
}

func (p *parser) peek() token.Token { return p.peekN(0) }

func (p *parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) at(kind token.Kind) bool { return p.peek().Kind == kind }

func (p *parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}

	return tok
}

// accept consumes the next token if it has the given kind.
func (p *parser) accept(kind token.Kind) bool {
	if p.at(kind) {
		p.advance()

		return true
	}

	return false
}

func (p *parser) expect(kind token.Kind, want string) (token.Token, error) {
	if !p.at(kind) {
		return token.Token{}, p.errorExpected(want)
	}

	return p.advance(), nil
}

func (p *parser) errorExpected(want string) error {
	tok := p.peek()

	return diag.ErrParse.At(tok.Pos).
		With(
			slog.String("expected", want),
			slog.String("found", tok.String()),
		).
		Errorf("expected %s, found %s", want, tok)
}

func isTypeStart(kind token.Kind) bool {
	switch kind {
	case token.KwInt, token.KwBool, token.KwString, token.KwList, token.KwTuple:
		return true
	}

	return false
}

func (p *parser) parseProgram() (*ast.Program, error) {
	prog := new(ast.Program)

	for !p.at(token.EOF) {
		if !isTypeStart(p.peek().Kind) && !p.at(token.KwVoid) {
			return nil, p.errorExpected("declaration")
		}

		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}

		prog.Decls = append(prog.Decls, decl)
	}

	return prog, nil
}

// parseDecl parses a function or variable declaration starting at its type.
func (p *parser) parseDecl() (ast.Stmt, error) {
	start := p.peek().Pos

	var (
		typ types.Type
		err error
	)

	if p.accept(token.KwVoid) {
		typ = types.Void
	} else {
		typ, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	name, err := p.expect(token.Ident, "identifier")
	if err != nil {
		return nil, err
	}

	if p.at(token.LParen) {
		return p.parseFuncRest(start, typ, name.Text)
	}

	if typ == types.Void {
		return nil, p.errorExpected(token.LParen.String())
	}

	decl, err := p.parseVarRest(start, typ, name)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Semicolon, token.Semicolon.String()); err != nil {
		return nil, err
	}

	return decl, nil
}

func (p *parser) parseType() (types.Type, error) {
	if !isTypeStart(p.peek().Kind) {
		return nil, p.errorExpected("type")
	}

	tok := p.advance()

	switch tok.Kind {
	case token.KwInt:
		return types.Int, nil

	case token.KwBool:
		return types.Bool, nil

	case token.KwList:
		if _, err := p.expect(token.Less, token.Less.String()); err != nil {
			return nil, err
		}

		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.Greater, token.Greater.String()); err != nil {
			return nil, err
		}

		return types.NewList(elem), nil

	case token.KwTuple:
		if _, err := p.expect(token.Less, token.Less.String()); err != nil {
			return nil, err
		}

		var elems []types.Type

		for {
			elem, err := p.parseType()
			if err != nil {
				return nil, err
			}

			elems = append(elems, elem)

			if !p.accept(token.Comma) {
				break
			}
		}

		if len(elems) < 2 {
			return nil, diag.ErrParse.At(tok.Pos).
				Errorf("tuple type needs at least 2 element types, found %d", len(elems))
		}

		if _, err := p.expect(token.Greater, token.Greater.String()); err != nil {
			return nil, err
		}

		return types.NewTuple(elems...), nil
	}

	return types.String, nil
}

func (p *parser) parseFuncRest(
	start token.Position,
	result types.Type,
	name string,
) (*ast.FuncDecl, error) {
	fn := &ast.FuncDecl{At: start, Name: name, Result: result}

	p.advance() // (

	if !p.at(token.RParen) {
		for {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}

			fn.Params = append(fn.Params, param)

			if !p.accept(token.Comma) {
				break
			}
		}
	}

	if _, err := p.expect(token.RParen, token.RParen.String()); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	fn.Body = body

	return fn, nil
}

func (p *parser) parseParam() (*ast.Param, error) {
	start := p.peek().Pos

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	ref := p.accept(token.Amp)

	name, err := p.expect(token.Ident, "parameter name")
	if err != nil {
		return nil, err
	}

	return &ast.Param{At: start, Name: name.Text, Type: typ, Ref: ref}, nil
}

// parseVarRest parses the declarators following the type of a variable
// declaration. The first declarator's name has already been consumed. The
// terminating semicolon is left for the caller.
func (p *parser) parseVarRest(
	start token.Position,
	typ types.Type,
	first token.Token,
) (*ast.VarDecl, error) {
	decl := &ast.VarDecl{At: start, Type: typ}
	name := first

	for {
		spec := &ast.VarSpec{At: name.Pos, Name: name.Text}

		if p.accept(token.Assign) {
			init, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			spec.Init = init
		}

		decl.Specs = append(decl.Specs, spec)

		if !p.accept(token.Comma) {
			return decl, nil
		}

		var err error

		name, err = p.expect(token.Ident, "identifier")
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseBlock() (*ast.Block, error) {
	lbrace, err := p.expect(token.LBrace, token.LBrace.String())
	if err != nil {
		return nil, err
	}

	block := &ast.Block{At: lbrace.Pos}

	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			return nil, p.errorExpected(token.RBrace.String())
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		block.Stmts = append(block.Stmts, stmt)
	}

	p.advance()

	return block, nil
}

func (p *parser) parseStmt() (ast.Stmt, error) {
	tok := p.peek()

	switch kind := tok.Kind; {
	case kind == token.LBrace:
		return p.parseBlock()

	case kind == token.KwVoid || isTypeStart(kind):
		return p.parseDecl()

	case kind == token.KwIf:
		return p.parseIf()

	case kind == token.KwWhile:
		return p.parseWhile()

	case kind == token.KwFor:
		return p.parseFor()

	case kind == token.KwReturn:
		p.advance()

		ret := &ast.Return{At: tok.Pos}

		if !p.at(token.Semicolon) {
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			ret.Value = value
		}

		return p.terminate(ret)

	case kind == token.KwBreak:
		p.advance()

		return p.terminate(&ast.Break{At: tok.Pos})

	case kind == token.KwContinue:
		p.advance()

		return p.terminate(&ast.Continue{At: tok.Pos})

	case kind == token.KwCout:
		return p.parsePrint()

	case kind == token.KwTie:
		return p.parseTie()

	case kind == token.Semicolon:
		p.advance()

		return &ast.Empty{At: tok.Pos}, nil
	}

	stmt, err := p.parseSimpleStmt()
	if err != nil {
		return nil, err
	}

	return p.terminate(stmt)
}

// terminate consumes the semicolon ending stmt.
func (p *parser) terminate(stmt ast.Stmt) (ast.Stmt, error) {
	if _, err := p.expect(token.Semicolon, token.Semicolon.String()); err != nil {
		return nil, err
	}

	return stmt, nil
}

func isAssignOp(kind token.Kind) bool {
	if kind == token.Assign {
		return true
	}

	_, ok := token.CompoundOp(kind)

	return ok
}

func (p *parser) parseSimpleStmt() (ast.Stmt, error) {
	if p.at(token.Ident) {
		next := p.peekN(1)

		switch {
		case isAssignOp(next.Kind):
			name := p.advance()
			p.advance()

			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			return &ast.Assign{
				At:     name.Pos,
				Target: &ast.Ident{At: name.Pos, Name: name.Text},
				Op:     next.Kind,
				Value:  value,
			}, nil

		case next.Kind == token.Inc || next.Kind == token.Dec:
			name := p.advance()
			p.advance()

			return &ast.IncDec{
				At:     name.Pos,
				Target: &ast.Ident{At: name.Pos, Name: name.Text},
				Op:     next.Kind,
			}, nil
		}
	}

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.ExprStmt{X: x}, nil
}

func (p *parser) parseParenExpr() (ast.Expr, error) {
	if _, err := p.expect(token.LParen, token.LParen.String()); err != nil {
		return nil, err
	}

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RParen, token.RParen.String()); err != nil {
		return nil, err
	}

	return x, nil
}

func (p *parser) parseIf() (ast.Stmt, error) {
	tok := p.advance()

	cond, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}

	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{At: tok.Pos, Cond: cond, Then: then}

	if p.accept(token.KwElse) {
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		stmt.Else = els
	}

	return stmt, nil
}

func (p *parser) parseWhile() (ast.Stmt, error) {
	tok := p.advance()

	cond, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return &ast.While{At: tok.Pos, Cond: cond, Body: body}, nil
}

func (p *parser) parseFor() (ast.Stmt, error) {
	tok := p.advance()
	stmt := &ast.For{At: tok.Pos}

	if _, err := p.expect(token.LParen, token.LParen.String()); err != nil {
		return nil, err
	}

	if !p.at(token.Semicolon) {
		var (
			init ast.Stmt
			err  error
		)

		if isTypeStart(p.peek().Kind) {
			start := p.peek().Pos

			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}

			name, err := p.expect(token.Ident, "identifier")
			if err != nil {
				return nil, err
			}

			init, err = p.parseVarRest(start, typ, name)
			if err != nil {
				return nil, err
			}
		} else {
			init, err = p.parseSimpleStmt()
			if err != nil {
				return nil, err
			}
		}

		stmt.Init = init
	}

	if _, err := p.expect(token.Semicolon, token.Semicolon.String()); err != nil {
		return nil, err
	}

	if !p.at(token.Semicolon) {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		stmt.Cond = cond
	}

	if _, err := p.expect(token.Semicolon, token.Semicolon.String()); err != nil {
		return nil, err
	}

	if !p.at(token.RParen) {
		post, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}

		stmt.Post = post
	}

	if _, err := p.expect(token.RParen, token.RParen.String()); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	stmt.Body = body

	return stmt, nil
}

func (p *parser) parsePrint() (ast.Stmt, error) {
	tok := p.advance()
	stmt := &ast.Print{At: tok.Pos}

	if _, err := p.expect(token.Shl, token.Shl.String()); err != nil {
		return nil, err
	}

	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		stmt.Args = append(stmt.Args, arg)

		if !p.accept(token.Shl) {
			break
		}
	}

	return p.terminate(stmt)
}

func (p *parser) parseTie() (ast.Stmt, error) {
	tok := p.advance()
	stmt := &ast.Tie{At: tok.Pos}

	if _, err := p.expect(token.LParen, token.LParen.String()); err != nil {
		return nil, err
	}

	for {
		name, err := p.expect(token.Ident, "variable name")
		if err != nil {
			return nil, err
		}

		stmt.Targets = append(stmt.Targets, &ast.Ident{At: name.Pos, Name: name.Text})

		if !p.accept(token.Comma) {
			break
		}
	}

	if _, err := p.expect(token.RParen, token.RParen.String()); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Assign, token.Assign.String()); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	stmt.Value = value

	return p.terminate(stmt)
}

// binaryLevels lists binary operators from loosest to tightest binding.
var binaryLevels = [][]token.Kind{
	{token.OrOr},
	{token.AndAnd},
	{token.Eq, token.NotEq},
	{token.Less, token.LessEq, token.Greater, token.GreaterEq},
	{token.Plus, token.Minus},
	{token.Star, token.Slash, token.Percent},
}

// Precedence returns the binding strength of a binary operator, from 1 for
// || to 6 for multiplicative operators, or 0 if op is not binary.
func Precedence(op token.Kind) int {
	for i, level := range binaryLevels {
		for _, k := range level {
			if k == op {
				return i + 1
			}
		}
	}

	return 0
}

func (p *parser) parseExpr() (ast.Expr, error) { return p.parseBinary(1) }

func (p *parser) parseBinary(prec int) (ast.Expr, error) {
	if prec > len(binaryLevels) {
		return p.parseUnary()
	}

	x, err := p.parseBinary(prec + 1)
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		if Precedence(op.Kind) != prec {
			return x, nil
		}

		p.advance()

		y, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		x = &ast.Binary{At: op.Pos, Op: op.Kind, X: x, Y: y}
	}
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if op := p.peek(); op.Kind == token.Not || op.Kind == token.Minus {
		p.advance()

		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &ast.Unary{At: op.Pos, Op: op.Kind, X: x}, nil
	}

	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.at(token.Arrow) {
		arrow := p.advance()

		name, err := p.expect(token.Ident, "container operation")
		if err != nil {
			return nil, err
		}

		args, err := p.parseArgs(token.LParen, token.RParen)
		if err != nil {
			return nil, err
		}

		x = &ast.Method{At: arrow.Pos, Recv: x, Name: name.Text, Args: args}
	}

	return x, nil
}

// parseArgs parses a possibly empty comma-separated expression list between
// the given delimiters.
func (p *parser) parseArgs(open, closing token.Kind) ([]ast.Expr, error) {
	if _, err := p.expect(open, open.String()); err != nil {
		return nil, err
	}

	var args []ast.Expr

	if !p.at(closing) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if !p.accept(token.Comma) {
				break
			}
		}
	}

	if _, err := p.expect(closing, closing.String()); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.Int:
		p.advance()

		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, diag.ErrParse.At(tok.Pos).Wrap(err).Errorf("invalid integer %s", tok.Text)
		}

		return &ast.IntLit{At: tok.Pos, Value: n}, nil

	case token.String:
		p.advance()

		return &ast.StringLit{At: tok.Pos, Value: tok.Text}, nil

	case token.KwTrue, token.KwFalse:
		p.advance()

		return &ast.BoolLit{At: tok.Pos, Value: tok.Kind == token.KwTrue}, nil

	case token.Ident:
		p.advance()

		id := &ast.Ident{At: tok.Pos, Name: tok.Text}

		if !p.at(token.LParen) {
			return id, nil
		}

		args, err := p.parseArgs(token.LParen, token.RParen)
		if err != nil {
			return nil, err
		}

		return &ast.Call{At: tok.Pos, Func: id, Args: args}, nil

	case token.KwMakeTuple:
		p.advance()

		elems, err := p.parseArgs(token.LParen, token.RParen)
		if err != nil {
			return nil, err
		}

		if len(elems) < 2 {
			return nil, diag.ErrParse.At(tok.Pos).
				With(slog.Int("args", len(elems))).
				Errorf("make_tuple needs at least 2 arguments, found %d", len(elems))
		}

		return &ast.TupleLit{At: tok.Pos, Elems: elems}, nil

	case token.KwGet:
		p.advance()

		if _, err := p.expect(token.Less, token.Less.String()); err != nil {
			return nil, err
		}

		idx, err := p.expect(token.Int, "tuple index")
		if err != nil {
			return nil, err
		}

		n, err := strconv.Atoi(idx.Text)
		if err != nil {
			return nil, diag.ErrParse.At(idx.Pos).Wrap(err).Errorf("invalid tuple index %s", idx.Text)
		}

		if _, err := p.expect(token.Greater, token.Greater.String()); err != nil {
			return nil, err
		}

		x, err := p.parseParenExpr()
		if err != nil {
			return nil, err
		}

		return &ast.Get{At: tok.Pos, Index: n, X: x}, nil

	case token.KwList:
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}

		elems, err := p.parseArgs(token.LBrace, token.RBrace)
		if err != nil {
			return nil, err
		}

		return &ast.ListLit{At: tok.Pos, Elem: typ.(*types.List).Elem, Elems: elems}, nil

	case token.LParen:
		return p.parseParenExpr()
	}

	return nil, p.errorExpected("expression")
}
