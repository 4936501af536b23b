package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/log"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestResolve(t *testing.T) {
	lib := t.TempDir()
	local := t.TempDir()

	writeFile(t, lib, "sort.tpl", "int main() { return 0; }")
	direct := writeFile(t, local, "direct.tpl", "int main() { return 0; }")

	ctx := WithSearchPath(t.Context(), []string{filepath.Join(lib, "missing"), lib})

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"stdin", "-", "-", false},
		{"existing_file", direct, direct, false},
		{"extension_added", filepath.Join(local, "direct"), direct, false},
		{"search_path", "sort.tpl", filepath.Join(lib, "sort.tpl"), false},
		{"search_path_without_extension", "sort", filepath.Join(lib, "sort.tpl"), false},
		{"absolute_not_searched", "/sort.tpl", "", true},
		{"not_found", "nothing", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve(ctx, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolve(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}

			if err != nil && !errors.Is(err, ErrSourceNotFound) {
				t.Errorf("resolve(%q) error = %v, want ErrSourceNotFound", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUniqueSources(t *testing.T) {
	dir := t.TempDir()

	a := writeFile(t, dir, "a.tpl", "")
	b := writeFile(t, dir, "b.tpl", "")

	link := filepath.Join(dir, "link.tpl")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := uniqueSources(t.Context(), []string{a, "-", b, link, "-", a})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{a, "-", b}

	if len(got) != len(want) {
		t.Fatalf("uniqueSources() = %q, want %q", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("uniqueSources()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExitCode(t *testing.T) {
	ctx := t.Context()

	_, staticErr := lang.Compile(ctx, "int main() { return x; }", lang.WithoutCache())
	_, runtimeErr := lang.Run(ctx, "int main() { return 1 / 0; }", io.Discard, lang.WithoutCache())

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"status", Status(7), 7},
		{"wrapped_status", errors.Join(Status(4)), 4},
		{"static", staticErr, lang.StatusStatic},
		{"runtime", runtimeErr, lang.StatusRuntime},
		{"other", ErrSourceNotFound, lang.StatusFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	logger := log.Make(io.Discard)

	_, err := lang.Compile(t.Context(), "int main() { int a = true; string b = 1; return 0; }", lang.WithoutCache())
	if err == nil {
		t.Fatal("Compile() succeeded, want type errors")
	}

	got := report(logger, "bad.tpl", err)

	var status Status
	if !errors.As(got, &status) || int(status) != lang.StatusStatic {
		t.Errorf("report() = %v, want Status(%d)", got, lang.StatusStatic)
	}

	if report(logger, "ok.tpl", nil) != nil {
		t.Error("report(nil) != nil")
	}

	if got := report(logger, "x", ErrFileExists); !errors.Is(got, ErrFileExists) {
		t.Errorf("report() = %v, want the error unchanged", got)
	}
}

func TestCheck_Run(t *testing.T) {
	dir := t.TempDir()

	good := writeFile(t, dir, "good.tpl", "int main() { cout << 1; return 0; }")
	bad := writeFile(t, dir, "bad.tpl", "int main() { return \"s\"; }")

	ctx := WithOptions(context.Background(), lang.WithoutCache())

	if err := (&Check{Sources: []string{good}, Quiet: true}).Run(ctx); err != nil {
		t.Errorf("Check(good) error = %v", err)
	}

	err := (&Check{Sources: []string{good, bad}, Quiet: true}).Run(ctx)
	if got := ExitCode(err); got != lang.StatusStatic {
		t.Errorf("Check(good, bad) exit code = %d (%v), want %d", got, err, lang.StatusStatic)
	}
}

func TestRun_Run_ExitStatus(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		src  string
		want int
	}{
		{"zero", "int main() { return 0; }", 0},
		{"main_value", "int main() { return 5; }", lang.StatusOK},
		{"returns_static_status", "int main() { return 2; }", lang.StatusOK},
		{"returns_runtime_status", "int main() { return 3; }", lang.StatusOK},
		{"void_main", "void main() { }", 0},
		{"static", "int main() { return y; }", lang.StatusStatic},
		{"runtime", "int main() { list<int> l; return l->front(); }", lang.StatusRuntime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".tpl", tt.src)

			err := (&Run{Source: path}).Run(t.Context())
			if got := ExitCode(err); got != tt.want {
				t.Errorf("exit code = %d (%v), want %d", got, err, tt.want)
			}
		})
	}
}

func TestFmt_Run_Write(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "messy.tpl", "int main(){int x=1;if(x==1){cout<<x;}return 0;}")

	if err := (&Fmt{Indent: 2, Write: true, Source: path}).Run(t.Context()); err != nil {
		t.Fatalf("Fmt.Run() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "int main() {\n  int x = 1;\n  if (x == 1) {\n    cout << x;\n  }\n  return 0;\n}\n"
	if string(data) != want {
		t.Errorf("formatted =\n%s\nwant\n%s", data, want)
	}
}
