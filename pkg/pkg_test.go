package pkg

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "tuplet"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestDescription(t *testing.T) {
	expected := "Interpreter for the tuplet teaching language"
	if Description != expected {
		t.Errorf("Expected Description to be %q, got %q", expected, Description)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from VERSION file, so it should not be empty.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}

	// Test if a known author is present
	if len(Author) > 0 {
		expectedName := "ardnew"
		expectedEmail := "andrew@ardnew.com"

		if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
			return a.Name == expectedName && a.Email == expectedEmail
		}) {
			t.Errorf("Expected Author to contain %q, %q", expectedName, expectedEmail)
		}
	}
}

func TestAuthorStruct(t *testing.T) {
	// Test that Author slice has the expected structure
	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestError_IsMatchesSentinel(t *testing.T) {
	base := NewError("base")
	other := NewError("other")

	derived := base.With(slog.String("k", "v")).Wrap(io.EOF)

	if !errors.Is(derived, base) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(derived, other) {
		t.Error("derived error matches an unrelated sentinel")
	}

	if !errors.Is(derived, io.EOF) {
		t.Error("derived error does not match the wrapped cause")
	}

	if got, want := derived.Error(), "base: EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrInvalidFormat.With(slog.String("format", "toml"))

	attrs := err.LogValue().Group()

	got := make(map[string]string, len(attrs))
	for _, a := range attrs {
		got[a.Key] = a.Value.String()
	}

	if got["error"] != "invalid format" || got["format"] != "toml" {
		t.Errorf("LogValue() = %v", got)
	}
}

func TestPrefix_NotEmpty(t *testing.T) {
	if Prefix() == "" {
		t.Error("Prefix() is empty")
	}

	if !strings.HasSuffix(ConfigDir(), Prefix()) {
		t.Errorf("ConfigDir() = %q does not end with %q", ConfigDir(), Prefix())
	}
}

func TestEnvVar(t *testing.T) {
	want := strings.ToUpper(Prefix()) + "_PATH"
	if got := EnvVar("path"); got != want {
		t.Errorf("EnvVar(path) = %q, want %q", got, want)
	}
}

func TestUserDir(t *testing.T) {
	failing := func() (string, error) { return "", errors.New("unset") }

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got, want := userDir(failing, ".cache"), filepath.Join(home, ".cache", Prefix()); got != want {
		t.Errorf("userDir(failing) = %q, want %q", got, want)
	}

	dir := t.TempDir()
	ok := func() (string, error) { return dir, nil }

	if got, want := userDir(ok, ".cache"), filepath.Join(dir, Prefix()); got != want {
		t.Errorf("userDir() = %q, want %q", got, want)
	}
}
