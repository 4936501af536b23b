// Package ast declares the syntax tree of tuplet programs.
//
// The parser builds the tree; the checker resolves every [Ident] to the
// [Symbol] it refers to, and the evaluator executes the annotated tree.
package ast

import (
	"github.com/ardnew/tuplet/lang/token"
	"github.com/ardnew/tuplet/lang/types"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() token.Position
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node. Declarations are statements.
type Stmt interface {
	Node
	stmtNode()
}

// Program is a whole compilation unit. Decls holds only [*FuncDecl] and
// [*VarDecl] nodes.
type Program struct {
	Decls []Stmt
}

// Pos returns the position of the first declaration.
func (p *Program) Pos() token.Position {
	if len(p.Decls) == 0 {
		return token.Position{}
	}

	return p.Decls[0].Pos()
}

// Funcs returns the top-level function declarations of p.
func (p *Program) Funcs() []*FuncDecl {
	var fns []*FuncDecl

	for _, d := range p.Decls {
		if fn, ok := d.(*FuncDecl); ok {
			fns = append(fns, fn)
		}
	}

	return fns
}

// Declarations.
type (
	// FuncDecl declares a function, or a procedure when Result is
	// [types.Void].
	FuncDecl struct {
		At     token.Position
		Name   string
		Params []*Param
		Result types.Type
		Body   *Block
		Sym    *Symbol
	}

	// Param is one formal parameter. Ref parameters alias the caller's
	// variable.
	Param struct {
		At   token.Position
		Name string
		Type types.Type
		Ref  bool
		Sym  *Symbol
	}

	// VarDecl declares one or more variables of the same type.
	VarDecl struct {
		At    token.Position
		Type  types.Type
		Specs []*VarSpec
	}

	// VarSpec is one declarator of a [VarDecl]. A nil Init means the
	// variable starts with the default value of its type.
	VarSpec struct {
		At   token.Position
		Name string
		Init Expr
		Sym  *Symbol
	}
)

// Signature returns the function type declared by d.
func (d *FuncDecl) Signature() *types.Func {
	sig := &types.Func{Result: d.Result, Params: make([]types.Param, len(d.Params))}
	for i, p := range d.Params {
		sig.Params[i] = types.Param{Type: p.Type, Ref: p.Ref}
	}

	return sig
}

// Statements.
type (
	Block struct {
		At    token.Position
		Stmts []Stmt
	}

	If struct {
		At   token.Position
		Cond Expr
		Then Stmt
		Else Stmt // nil if absent
	}

	While struct {
		At   token.Position
		Cond Expr
		Body Stmt
	}

	// For is a C-style loop. Each clause may be nil; a nil Cond loops
	// forever.
	For struct {
		At   token.Position
		Init Stmt
		Cond Expr
		Post Stmt
		Body Stmt
	}

	Return struct {
		At    token.Position
		Value Expr // nil in procedures
	}

	Break struct {
		At token.Position
	}

	Continue struct {
		At token.Position
	}

	// Print writes each argument to the output stream in order.
	Print struct {
		At   token.Position
		Args []Expr
	}

	// Tie destructures a tuple into existing variables, one per position.
	Tie struct {
		At      token.Position
		Targets []*Ident
		Value   Expr
	}

	// Assign stores Value into Target. Op is [token.Assign] or a compound
	// assignment kind such as [token.PlusEq], in which case the statement
	// means Target = Target op Value.
	Assign struct {
		At     token.Position
		Target *Ident
		Op     token.Kind
		Value  Expr
	}

	// IncDec is Target++ or Target--.
	IncDec struct {
		At     token.Position
		Target *Ident
		Op     token.Kind
	}

	ExprStmt struct {
		X Expr
	}

	Empty struct {
		At token.Position
	}
)

// Expressions.
type (
	Ident struct {
		At   token.Position
		Name string
		Sym  *Symbol
	}

	IntLit struct {
		At    token.Position
		Value int64
	}

	BoolLit struct {
		At    token.Position
		Value bool
	}

	StringLit struct {
		At    token.Position
		Value string
	}

	Binary struct {
		At   token.Position
		Op   token.Kind
		X, Y Expr
	}

	Unary struct {
		At token.Position
		Op token.Kind
		X  Expr
	}

	// Call invokes a named function or procedure.
	Call struct {
		At   token.Position
		Func *Ident
		Args []Expr
	}

	// Method applies a container operation through the arrow operator,
	// as in l->push_back(x).
	Method struct {
		At   token.Position
		Recv Expr
		Name string
		Args []Expr
	}

	// TupleLit is make_tuple(elems...).
	TupleLit struct {
		At    token.Position
		Elems []Expr
	}

	// ListLit is list<Elem> { elems... }.
	ListLit struct {
		At    token.Position
		Elem  types.Type
		Elems []Expr
	}

	// Get is get<Index>(X).
	Get struct {
		At    token.Position
		Index int
		X     Expr
	}
)

func (d *FuncDecl) Pos() token.Position  { return d.At }
func (p *Param) Pos() token.Position     { return p.At }
func (d *VarDecl) Pos() token.Position   { return d.At }
func (s *VarSpec) Pos() token.Position   { return s.At }
func (s *Block) Pos() token.Position     { return s.At }
func (s *If) Pos() token.Position        { return s.At }
func (s *While) Pos() token.Position     { return s.At }
func (s *For) Pos() token.Position       { return s.At }
func (s *Return) Pos() token.Position    { return s.At }
func (s *Break) Pos() token.Position     { return s.At }
func (s *Continue) Pos() token.Position  { return s.At }
func (s *Print) Pos() token.Position     { return s.At }
func (s *Tie) Pos() token.Position       { return s.At }
func (s *Assign) Pos() token.Position    { return s.At }
func (s *IncDec) Pos() token.Position    { return s.At }
func (s *ExprStmt) Pos() token.Position  { return s.X.Pos() }
func (s *Empty) Pos() token.Position     { return s.At }
func (x *Ident) Pos() token.Position     { return x.At }
func (x *IntLit) Pos() token.Position    { return x.At }
func (x *BoolLit) Pos() token.Position   { return x.At }
func (x *StringLit) Pos() token.Position { return x.At }
func (x *Binary) Pos() token.Position    { return x.At }
func (x *Unary) Pos() token.Position     { return x.At }
func (x *Call) Pos() token.Position      { return x.At }
func (x *Method) Pos() token.Position    { return x.At }
func (x *TupleLit) Pos() token.Position  { return x.At }
func (x *ListLit) Pos() token.Position   { return x.At }
func (x *Get) Pos() token.Position       { return x.At }

func (*FuncDecl) stmtNode() {}
func (*VarDecl) stmtNode()  {}
func (*Block) stmtNode()    {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*For) stmtNode()      {}
func (*Return) stmtNode()   {}
func (*Break) stmtNode()    {}
func (*Continue) stmtNode() {}
func (*Print) stmtNode()    {}
func (*Tie) stmtNode()      {}
func (*Assign) stmtNode()   {}
func (*IncDec) stmtNode()   {}
func (*ExprStmt) stmtNode() {}
func (*Empty) stmtNode()    {}

func (*Ident) exprNode()     {}
func (*IntLit) exprNode()    {}
func (*BoolLit) exprNode()   {}
func (*StringLit) exprNode() {}
func (*Binary) exprNode()    {}
func (*Unary) exprNode()     {}
func (*Call) exprNode()      {}
func (*Method) exprNode()    {}
func (*TupleLit) exprNode()  {}
func (*ListLit) exprNode()   {}
func (*Get) exprNode()       {}
