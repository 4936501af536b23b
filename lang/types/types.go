// Package types models the static types of tuplet programs.
//
// Types are structural: two list types are identical when their element types
// are, and two tuple types are identical when they have the same arity and
// identical element types position by position.
package types

import "strings"

// Type is a static type.
type Type interface {
	String() string
	typ()
}

// Basic is a primitive type.
type Basic int

const (
	// Invalid marks an expression whose type could not be determined. It is
	// identical to every type so one mistake does not cascade.
	Invalid Basic = iota
	Int
	Bool
	String
	// Void is the result type of a procedure.
	Void
)

func (Basic) typ() {}

func (b Basic) String() string {
	switch b {
	case Int:
		return "int"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Void:
		return "void"
	default:
		return "invalid"
	}
}

// List is the shared, double-ended container type list<Elem>.
type List struct {
	Elem Type
}

func (*List) typ() {}

func (l *List) String() string { return "list<" + l.Elem.String() + ">" }

// Tuple is the immutable product type tuple<Elems...>.
type Tuple struct {
	Elems []Type
}

func (*Tuple) typ() {}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}

	return "tuple<" + strings.Join(parts, ", ") + ">"
}

// Param is one formal parameter of a [Func].
type Param struct {
	Type Type
	Ref  bool
}

// Func is the signature of a function or procedure.
type Func struct {
	Params []Param
	Result Type
}

func (*Func) typ() {}

func (f *Func) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Type.String()
		if p.Ref {
			parts[i] += " &"
		}
	}

	return f.Result.String() + "(" + strings.Join(parts, ", ") + ")"
}

// IsProcedure reports whether f returns no value.
func (f *Func) IsProcedure() bool { return f.Result == Void }

// NewList returns list<elem>.
func NewList(elem Type) *List { return &List{Elem: elem} }

// NewTuple returns tuple<elems...>.
func NewTuple(elems ...Type) *Tuple { return &Tuple{Elems: elems} }

// Identical reports whether x and y denote the same type. [Invalid] is
// identical to everything.
func Identical(x, y Type) bool {
	if x == Invalid || y == Invalid {
		return true
	}

	switch x := x.(type) {
	case Basic:
		y, ok := y.(Basic)

		return ok && x == y

	case *List:
		y, ok := y.(*List)

		return ok && Identical(x.Elem, y.Elem)

	case *Tuple:
		y, ok := y.(*Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}

		for i := range x.Elems {
			if !Identical(x.Elems[i], y.Elems[i]) {
				return false
			}
		}

		return true

	case *Func:
		y, ok := y.(*Func)
		if !ok || len(x.Params) != len(y.Params) || !Identical(x.Result, y.Result) {
			return false
		}

		for i := range x.Params {
			if x.Params[i].Ref != y.Params[i].Ref ||
				!Identical(x.Params[i].Type, y.Params[i].Type) {
				return false
			}
		}

		return true
	}

	return false
}

// Comparable reports whether values of t support == and !=.
func Comparable(t Type) bool {
	switch t := t.(type) {
	case Basic:
		return t != Void
	case *List:
		return Comparable(t.Elem)
	case *Tuple:
		for _, e := range t.Elems {
			if !Comparable(e) {
				return false
			}
		}

		return true
	}

	return false
}

// IsValue reports whether t can be stored in a variable.
func IsValue(t Type) bool {
	switch t := t.(type) {
	case Basic:
		return t != Void
	case *List, *Tuple:
		return true
	}

	return false
}
