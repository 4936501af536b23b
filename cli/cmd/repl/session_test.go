package repl

import (
	"io"
	"slices"
	"testing"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/log"
)

func testSession(t *testing.T) *Session {
	t.Helper()

	return NewSession(log.Make(io.Discard))
}

func submit(t *testing.T, s *Session, input string) Reply {
	t.Helper()

	reply, err := s.Submit(t.Context(), input)
	if err != nil {
		t.Fatalf("Submit(%q) error = %v", input, err)
	}

	return reply
}

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"1 + 2", KindExpr},
		{"l->empty()", KindExpr},
		{"make_tuple(1, true)", KindExpr},
		{"x = 1;", KindStmt},
		{"cout << 1;", KindStmt},
		{"if (true) { }", KindStmt},
		{"for (;;) { break; }", KindStmt},
		{"int x = 1;", KindDecl},
		{"int a; bool b;", KindDecl},
		{"int f() { return 1; }", KindDecl},
		{"int x = 1; x++;", KindStmt},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := classify(tt.input); got != tt.want {
				t.Errorf("classify(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestSession_Submit(t *testing.T) {
	s := testSession(t)

	steps := []struct {
		input  string
		kind   Kind
		output string
	}{
		{"int x = 1;", KindDecl, ""},
		{"x += 2;", KindStmt, ""},
		{"x", KindExpr, "3\n"},
		{"cout << x;", KindStmt, "3"},
		{"cout << 4;", KindStmt, "4"},
		{"int sq(int n) { return n * n; }", KindDecl, ""},
		{"sq(5)", KindExpr, "25\n"},
		{"make_tuple(x, list<int> {x})", KindExpr, "(3, [3])\n"},
	}

	for _, step := range steps {
		reply := submit(t, s, step.input)

		if reply.Kind != step.kind {
			t.Errorf("Submit(%q) kind = %s, want %s", step.input, reply.Kind, step.kind)
		}

		if reply.Output != step.output {
			t.Errorf("Submit(%q) output = %q, want %q", step.input, reply.Output, step.output)
		}
	}

	want := []string{
		"int x = 1;",
		"int sq(int n) { return n * n; }",
		"x += 2;",
		"cout << x;",
		"cout << 4;",
	}

	if got := s.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %q, want %q", got, want)
	}
}

func TestSession_RejectedInputIsDiscarded(t *testing.T) {
	s := testSession(t)
	submit(t, s, "cout << 1;")

	_, err := s.Submit(t.Context(), "cout << y;")
	if !lang.IsStatic(err) {
		t.Errorf("Submit(undeclared) error = %v, want a static error", err)
	}

	reply, err := s.Submit(t.Context(), "cout << 2; list<int> l; l->pop_front();")
	if !lang.IsRuntime(err) {
		t.Errorf("Submit(pop empty) error = %v, want a runtime error", err)
	}

	if reply.Output != "2" {
		t.Errorf("output before the fault = %q, want %q", reply.Output, "2")
	}

	if got := s.Entries(); !slices.Equal(got, []string{"cout << 1;"}) {
		t.Errorf("Entries() = %q, want only the accepted statement", got)
	}

	if reply := submit(t, s, "cout << 3;"); reply.Output != "3" {
		t.Errorf("output after rejection = %q, want %q", reply.Output, "3")
	}
}

func TestSession_NamesAndReset(t *testing.T) {
	s := testSession(t)

	if s.Names() != nil {
		t.Errorf("Names() of empty session = %q, want nil", s.Names())
	}

	submit(t, s, "int total = 0;")
	submit(t, s, "void add(int &acc, int n) { acc += n; }")
	submit(t, s, "add(total, 5);")

	if got, want := s.Names(), []string{"acc", "add", "n", "total"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %q, want %q", got, want)
	}

	fn, ok := s.Func("add")
	if !ok || len(fn.Params) != 2 || !fn.Params[0].Ref {
		t.Errorf("Func(add) = %v, %t; want the declaration", fn, ok)
	}

	if reply := submit(t, s, "total"); reply.Output != "5\n" {
		t.Errorf("total = %q, want %q", reply.Output, "5\n")
	}

	s.Reset()

	if len(s.Entries()) != 0 || s.Names() != nil {
		t.Error("Reset() kept entries")
	}

	if _, ok := s.Func("add"); ok {
		t.Error("Func(add) found after Reset()")
	}
}

func TestSession_Load(t *testing.T) {
	s := testSession(t)
	submit(t, s, "cout << 0;")

	src := "int g = 2;\nint main() {\n  cout << g;\n  return 0;\n}\n"

	reply, err := s.Load(t.Context(), src)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if reply.Output != "2" {
		t.Errorf("Load() output = %q, want %q", reply.Output, "2")
	}

	if got, want := s.Entries(), []string{"int g = 2;", "cout << g;"}; !slices.Equal(got, want) {
		t.Errorf("Entries() = %q, want %q", got, want)
	}

	if reply := submit(t, s, "cout << 3;"); reply.Output != "3" {
		t.Errorf("output after Load() = %q, want %q", reply.Output, "3")
	}

	if got, want := s.Source(), "int g = 2;\n\nint main() {\n  cout << g;\n  cout << 3;\n  return 0;\n}\n"; got != want {
		t.Errorf("Source() =\n%s\nwant\n%s", got, want)
	}
}

func TestSession_LoadFailureKeepsSession(t *testing.T) {
	s := testSession(t)
	submit(t, s, "int kept = 1;")

	if _, err := s.Load(t.Context(), "int main() { return"); !lang.IsStatic(err) {
		t.Errorf("Load(invalid) error = %v, want a static error", err)
	}

	if _, err := s.Load(t.Context(), "int main() { list<int> l; return l->front(); }"); !lang.IsRuntime(err) {
		t.Errorf("Load(faulting) error = %v, want a runtime error", err)
	}

	if got := s.Entries(); !slices.Equal(got, []string{"int kept = 1;"}) {
		t.Errorf("Entries() = %q, want the session before Load()", got)
	}
}
