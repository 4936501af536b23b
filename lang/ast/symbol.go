package ast

import (
	"log/slog"

	"github.com/ardnew/tuplet/lang/types"
)

// SymbolKind classifies a declared name.
type SymbolKind int

const (
	SymVar SymbolKind = iota
	SymParam
	SymFunc
)

func (k SymbolKind) String() string {
	switch k {
	case SymVar:
		return "var"
	case SymParam:
		return "param"
	case SymFunc:
		return "func"
	default:
		return "unknown"
	}
}

// Symbol is the unique identity of one declaration. Every use of a name
// resolves to exactly one Symbol, so two declarations that share a name in
// different scopes never collide at run time.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type types.Type
	Ref  bool // reference parameter
	Decl Node
	// Global is set for top-level variables and functions.
	Global bool
}

// Func returns the declaration of a function symbol, or nil.
func (s *Symbol) Func() *FuncDecl {
	fn, _ := s.Decl.(*FuncDecl)

	return fn
}

// LogValue implements [slog.LogValuer].
func (s *Symbol) LogValue() slog.Value {
	if s == nil {
		return slog.StringValue("<unresolved>")
	}

	return slog.GroupValue(
		slog.String("name", s.Name),
		slog.String("kind", s.Kind.String()),
		slog.String("type", s.Type.String()),
		slog.Any("pos", s.Decl.Pos()),
	)
}
