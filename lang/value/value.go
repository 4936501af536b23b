// Package value defines the runtime values of tuplet programs.
//
// Primitive values and tuples have value semantics. A [*List] is a handle to
// shared storage: copying the handle aliases the storage, and every mutation
// is visible through all handles. Equality is always structural.
package value

import (
	"github.com/emirpasic/gods/lists/doublylinkedlist"

	"github.com/ardnew/tuplet/lang/types"
)

// Value is a runtime value: [Int], [Bool], [String], [*List] or [Tuple].
type Value interface {
	value()
}

type (
	Int    int64
	Bool   bool
	String string

	// Tuple is an immutable fixed-length sequence of values.
	Tuple []Value
)

func (Int) value()    {}
func (Bool) value()   {}
func (String) value() {}
func (Tuple) value()  {}
func (*List) value()  {}

// List is a handle to a shared double-ended sequence. The storage is released
// when the last handle becomes unreachable.
type List struct {
	elems *doublylinkedlist.List
}

// NewList allocates fresh storage holding elems.
func NewList(elems ...Value) *List {
	l := &List{elems: doublylinkedlist.New()}
	for _, e := range elems {
		l.elems.Add(e)
	}

	return l
}

// Len returns the number of elements.
func (l *List) Len() int { return l.elems.Size() }

// Empty reports whether l has no elements.
func (l *List) Empty() bool { return l.elems.Empty() }

// PushBack appends v.
func (l *List) PushBack(v Value) { l.elems.Append(v) }

// PushFront prepends v.
func (l *List) PushFront(v Value) { l.elems.Prepend(v) }

// Front returns the first element, and false if l is empty.
func (l *List) Front() (Value, bool) { return l.at(0) }

// Back returns the last element, and false if l is empty.
func (l *List) Back() (Value, bool) { return l.at(l.elems.Size() - 1) }

// PopFront removes the first element, and reports false if l is empty.
func (l *List) PopFront() bool {
	if l.elems.Empty() {
		return false
	}

	l.elems.Remove(0)

	return true
}

// PopBack removes the last element, and reports false if l is empty.
func (l *List) PopBack() bool {
	if l.elems.Empty() {
		return false
	}

	l.elems.Remove(l.elems.Size() - 1)

	return true
}

func (l *List) at(i int) (Value, bool) {
	v, ok := l.elems.Get(i)
	if !ok {
		return nil, false
	}

	return v.(Value), true
}

// All returns the elements in order. The slice is a snapshot.
func (l *List) All() []Value {
	raw := l.elems.Values()

	out := make([]Value, len(raw))
	for i, v := range raw {
		out[i] = v.(Value)
	}

	return out
}

// Zero returns the default value of t: 0, false, "", a fresh empty list, or a
// tuple of element defaults.
func Zero(t types.Type) Value {
	switch t := t.(type) {
	case types.Basic:
		switch t {
		case types.Int:
			return Int(0)
		case types.Bool:
			return Bool(false)
		case types.String:
			return String("")
		}

	case *types.List:
		return NewList()

	case *types.Tuple:
		tup := make(Tuple, len(t.Elems))
		for i, e := range t.Elems {
			tup[i] = Zero(e)
		}

		return tup
	}

	return nil
}

// Equal reports whether a and b are structurally equal. List handles compare
// by contents, never by identity.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Int:
		b, ok := b.(Int)

		return ok && a == b

	case Bool:
		b, ok := b.(Bool)

		return ok && a == b

	case String:
		b, ok := b.(String)

		return ok && a == b

	case Tuple:
		b, ok := b.(Tuple)

		return ok && equalSeq(a, b)

	case *List:
		b, ok := b.(*List)
		if !ok {
			return false
		}

		if a == b {
			return true
		}

		if a.Len() != b.Len() {
			return false
		}

		ia, ib := a.elems.Iterator(), b.elems.Iterator()
		for ia.Next() && ib.Next() {
			if !Equal(ia.Value().(Value), ib.Value().(Value)) {
				return false
			}
		}

		return true
	}

	return false
}

func equalSeq(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}
