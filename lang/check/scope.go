package check

import "github.com/ardnew/tuplet/lang/ast"

// scope is one lexical level of name bindings.
type scope struct {
	parent *scope
	names  map[string]*ast.Symbol
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]*ast.Symbol)}
}

// insert binds sym in s and returns the symbol it collides with, if any.
func (s *scope) insert(sym *ast.Symbol) *ast.Symbol {
	if prev, ok := s.names[sym.Name]; ok {
		return prev
	}

	s.names[sym.Name] = sym

	return nil
}

// lookup finds the innermost binding of name.
func (s *scope) lookup(name string) *ast.Symbol {
	for ; s != nil; s = s.parent {
		if sym, ok := s.names[name]; ok {
			return sym
		}
	}

	return nil
}
