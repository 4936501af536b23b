package lang_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardnew/tuplet/fixture"
	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/lang/diag"
)

func TestFixtures(t *testing.T) {
	manifests, err := fixture.Discover("testdata")
	if err != nil {
		t.Fatal(err)
	}

	if len(manifests) == 0 {
		t.Fatal("no manifests found in testdata")
	}

	for _, path := range manifests {
		fixtures, err := fixture.Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", path, err)
		}

		for _, f := range fixtures {
			t.Run(f.Name, func(t *testing.T) {
				ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
				defer cancel()

				if err := f.Verify(f.Run(ctx, lang.WithoutCache())); err != nil {
					t.Error(err)
				}
			})
		}
	}
}

func TestStatusOf(t *testing.T) {
	ctx := t.Context()

	tests := []struct {
		name   string
		src    string
		status int
		class  string
	}{
		{"ok", "int main() { return 0; }", lang.StatusOK, lang.ClassNone},
		{"lex", "int main() { return $; }", lang.StatusStatic, lang.ClassStatic},
		{"parse", "int main() { return 0 }", lang.StatusStatic, lang.ClassStatic},
		{"type", "int main() { return true; }", lang.StatusStatic, lang.ClassStatic},
		{"no_main", "int f() { return 0; }", lang.StatusStatic, lang.ClassStatic},
		{"runtime", "int main() { list<int> l; l->pop_back(); return 0; }", lang.StatusRuntime, lang.ClassRuntime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lang.Run(ctx, tt.src, &bytes.Buffer{}, lang.WithoutCache())

			if got := lang.StatusOf(err); got != tt.status {
				t.Errorf("StatusOf(%v) = %d, want %d", err, got, tt.status)
			}

			if got := lang.ClassOf(err); got != tt.class {
				t.Errorf("ClassOf(%v) = %q, want %q", err, got, tt.class)
			}
		})
	}

	if got := lang.StatusOf(errors.New("io")); got != lang.StatusFailure {
		t.Errorf("StatusOf(other) = %d, want %d", got, lang.StatusFailure)
	}
}

func TestDiagnostics_ReportsEveryTypeError(t *testing.T) {
	src := `int main() {
  int a = "x";
  bool b = 1;
  return 0;
}`

	_, err := lang.Compile(t.Context(), src, lang.WithoutCache())
	if !errors.Is(err, diag.ErrType) {
		t.Fatalf("Compile() error = %v, want a type error", err)
	}

	diags := lang.Diagnostics(err)
	if len(diags) != 2 {
		t.Fatalf("Diagnostics() returned %d errors, want 2: %v", len(diags), err)
	}

	for i, line := range []int{2, 3} {
		if got := diags[i].Pos().Line; got != line {
			t.Errorf("diagnostic %d on line %d, want %d", i, got, line)
		}
	}

	if lang.Diagnostics(errors.New("plain")) != nil {
		t.Error("Diagnostics(plain error) != nil")
	}
}

func TestRun_MainReturn(t *testing.T) {
	var out bytes.Buffer

	res, err := lang.Run(t.Context(), `int main() { cout << "hi" << 1 << true; return 42; }`, &out, lang.WithoutCache())
	if err != nil {
		t.Fatal(err)
	}

	if res.Return != 42 {
		t.Errorf("Return = %d, want 42", res.Return)
	}

	if out.String() != "hi1true" {
		t.Errorf("output = %q, want %q", out.String(), "hi1true")
	}
}

func TestRun_Cancelled(t *testing.T) {
	p, err := lang.Compile(t.Context(), "int main() { while (true) { } return 0; }", lang.WithoutCache())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err = p.Run(ctx, &bytes.Buffer{})
	if !lang.IsRuntime(err) || !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want a runtime error", err)
	}
}

func TestRun_MaxDepth(t *testing.T) {
	src := `int down(int n) { if (n == 0) { return 0; } return down(n - 1); }
int main() { return down(100); }`

	if _, err := lang.Run(t.Context(), src, &bytes.Buffer{}, lang.WithMaxDepth(1000)); err != nil {
		t.Errorf("Run(depth 1000) error = %v", err)
	}

	_, err := lang.Run(t.Context(), src, &bytes.Buffer{}, lang.WithMaxDepth(10))
	if !lang.IsRuntime(err) {
		t.Errorf("Run(depth 10) error = %v, want a runtime error", err)
	}
}

func TestCompile_CachedConcurrently(t *testing.T) {
	lang.ClearCache()
	t.Cleanup(lang.ClearCache)

	src := "int main() { return 3; }"

	var wg sync.WaitGroup

	progs := make([]*lang.Program, 8)

	for i := range progs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			p, err := lang.Compile(context.Background(), src)
			if err != nil {
				t.Error(err)
			}

			progs[i] = p
		}()
	}

	wg.Wait()

	for i, p := range progs {
		if p != progs[0] {
			t.Errorf("program %d is not the cached instance", i)
		}
	}

	fresh, err := lang.Compile(t.Context(), src, lang.WithoutCache())
	if err != nil {
		t.Fatal(err)
	}

	if fresh == progs[0] {
		t.Error("WithoutCache() returned the cached instance")
	}
}

func TestCompileReader(t *testing.T) {
	p, err := lang.CompileReader(t.Context(), strings.NewReader("void main() { cout << 1; }"), lang.WithoutCache())
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	res, err := p.Run(t.Context(), &out)
	if err != nil {
		t.Fatal(err)
	}

	if res.Return != 0 || out.String() != "1" {
		t.Errorf("Run() = %d, %q; want 0, %q", res.Return, out.String(), "1")
	}
}

func TestCompile_WithoutEntryPoint(t *testing.T) {
	src := "int twice(int x) { return 2 * x; }"

	if _, err := lang.Compile(t.Context(), src, lang.WithoutCache()); err == nil {
		t.Error("Compile() accepted a program without main")
	}

	if _, err := lang.Compile(t.Context(), src, lang.WithoutEntryPoint()); err != nil {
		t.Errorf("Compile(WithoutEntryPoint) error = %v", err)
	}
}
