package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type testLevel string

type initTestCLI struct {
	Level    testLevel `default:"info"  name:"log-level"`
	MaxDepth int       `default:"100"   name:"max-depth"`
	Pretty   bool      `default:"true"  name:"log-pretty"`
	Path     []string  `                name:"path"`
	Empty    string    `                name:"empty"`
	Mode     string    `default:"cpu"   name:"pprof-mode"`
	Secret   string    `default:"x"     name:"secret"     hidden:""`
}

func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initTestCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

func TestInit_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			err := (&Init{Force: tt.force}).Run(initContext(t, confPath))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, data)
			}

			if _, ok := got["existing"]; ok {
				t.Error("existing config was not replaced")
			}
		})
	}
}

func TestInit_Settings(t *testing.T) {
	t.Parallel()

	ctx := initContext(t, "unused", "--log-level=debug", "--path=a", "--path=b")

	items := (&Init{}).settings(kongContextFrom(ctx))

	got := make(map[string]any, len(items))
	keys := make([]string, 0, len(items))

	for _, item := range items {
		key, _ := item.Key.(string)
		keys = append(keys, key)
		got[key] = item.Value
	}

	want := []string{"log_level", "max_depth", "log_pretty", "path"}
	if len(keys) != len(want) {
		t.Fatalf("settings keys = %q, want %q", keys, want)
	}

	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("settings key %d = %q, want %q", i, keys[i], want[i])
		}
	}

	if got["log_level"] != "debug" {
		t.Errorf("log_level = %#v, want plain string \"debug\"", got["log_level"])
	}

	if got["max_depth"] != 100 {
		t.Errorf("max_depth = %#v, want 100", got["max_depth"])
	}

	if got["log_pretty"] != true {
		t.Errorf("log_pretty = %#v, want true", got["log_pretty"])
	}
}
