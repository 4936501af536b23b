package value

import (
	"bytes"
	"testing"

	"github.com/ardnew/tuplet/lang/types"
)

func TestList_Operations(t *testing.T) {
	l := NewList()

	if !l.Empty() || l.Len() != 0 {
		t.Fatalf("NewList() = %s, want empty", Format(l))
	}

	if _, ok := l.Front(); ok {
		t.Error("Front() on empty list reported ok")
	}

	if _, ok := l.Back(); ok {
		t.Error("Back() on empty list reported ok")
	}

	if l.PopFront() || l.PopBack() {
		t.Error("pop on empty list reported ok")
	}

	l.PushBack(Int(2))
	l.PushBack(Int(3))
	l.PushFront(Int(1))

	if got := Format(l); got != "[1, 2, 3]" {
		t.Errorf("after pushes = %s, want [1, 2, 3]", got)
	}

	if v, ok := l.Front(); !ok || v != Int(1) {
		t.Errorf("Front() = %v, %t; want 1, true", v, ok)
	}

	if v, ok := l.Back(); !ok || v != Int(3) {
		t.Errorf("Back() = %v, %t; want 3, true", v, ok)
	}

	if !l.PopFront() || !l.PopBack() {
		t.Fatal("pop on non-empty list reported false")
	}

	if got := Format(l); got != "[2]" || l.Len() != 1 {
		t.Errorf("after pops = %s (len %d), want [2]", got, l.Len())
	}
}

func TestList_HandlesAlias(t *testing.T) {
	a := NewList(Int(1))
	b := a

	b.PushBack(Int(2))

	if a.Len() != 2 {
		t.Errorf("mutation through alias not visible: %s", Format(a))
	}

	snap := a.All()
	a.PushBack(Int(3))

	if len(snap) != 2 {
		t.Errorf("All() snapshot changed length to %d", len(snap))
	}
}

func TestEqual(t *testing.T) {
	shared := NewList(Int(1))

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int", Int(4), Int(4), true},
		{"int_differs", Int(4), Int(5), false},
		{"bool", Bool(true), Bool(true), true},
		{"string", String("a"), String("a"), true},
		{"mixed_kinds", Int(1), Bool(true), false},
		{"same_handle", shared, shared, true},
		{"distinct_equal_lists", NewList(Int(1), Int(2)), NewList(Int(1), Int(2)), true},
		{"list_lengths", NewList(Int(1)), NewList(Int(1), Int(2)), false},
		{"list_contents", NewList(Int(1), Int(2)), NewList(Int(1), Int(3)), false},
		{"empty_lists", NewList(), NewList(), true},
		{"tuples", Tuple{Int(1), String("x")}, Tuple{Int(1), String("x")}, true},
		{"tuple_arity", Tuple{Int(1), Int(2)}, Tuple{Int(1), Int(2), Int(3)}, false},
		{
			"nested",
			Tuple{NewList(Tuple{Int(1), Bool(true)}), Tuple{Int(2), String("y")}},
			Tuple{NewList(Tuple{Int(1), Bool(true)}), Tuple{Int(2), String("y")}},
			true,
		},
		{
			"nested_differs",
			NewList(Tuple{Int(1), Bool(true)}),
			NewList(Tuple{Int(1), Bool(false)}),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %t, want %t", Format(tt.a), Format(tt.b), got, tt.want)
			}

			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal(%s, %s) = %t, want %t", Format(tt.b), Format(tt.a), got, tt.want)
			}
		})
	}
}

func TestZero(t *testing.T) {
	tests := []struct {
		typ  types.Type
		want string
	}{
		{types.Int, "0"},
		{types.Bool, "false"},
		{types.String, ""},
		{types.NewList(types.Int), "[]"},
		{types.NewTuple(types.Int, types.NewList(types.Bool), types.String), "(0, [], )"},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := Format(Zero(tt.typ)); got != tt.want {
				t.Errorf("Format(Zero(%s)) = %q, want %q", tt.typ, got, tt.want)
			}
		})
	}

	typ := types.NewList(types.Int)

	a, b := Zero(typ).(*List), Zero(typ).(*List)
	a.PushBack(Int(1))

	if b.Len() != 0 {
		t.Error("Zero() lists share storage")
	}

	if Zero(types.Void) != nil {
		t.Error("Zero(void) != nil")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"negative", Int(-42), "-42"},
		{"bool", Bool(false), "false"},
		{"string_verbatim", String("a \"b\"\n"), "a \"b\"\n"},
		{"list", NewList(Int(0), Int(1)), "[0, 1]"},
		{"tuple", Tuple{Bool(true), String("sumy"), NewList(Int(42))}, "(true, sumy, [42])"},
		{"nested_tuple", Tuple{Int(0), Tuple{Int(1), Int(2)}}, "(0, (1, 2))"},
		{"list_of_tuples", NewList(Tuple{Int(1), Bool(false)}), "[(1, false)]"},
		{"nil", nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.v); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}

			var buf bytes.Buffer

			n, err := Fprint(&buf, tt.v)
			if err != nil || n != len(tt.want) || buf.String() != tt.want {
				t.Errorf("Fprint() = %d, %v, %q; want %d, nil, %q", n, err, buf.String(), len(tt.want), tt.want)
			}
		})
	}
}
