// Package fixture runs tuplet programs against recorded expectations.
//
// A manifest is a YAML file holding one or more fixture documents:
//
//	name: find position
//	source: find.tpl          # relative to the manifest
//	stdout: "found at 2\n"    # exact output, optional
//	status: 0                 # expected exit status, 0 for a completed run
//	result: 2                 # value returned by main, optional
//	error: ""                 # expected failure class: static, runtime or ""
//	assert:                   # expr-lang conditions, optional
//	  - 'stdout contains "2"'
//
// A fixture may give its program inline with program: instead of source:.
// Assertions see the variables stdout, status, result, error and class, where
// error is the message of the failure, if any.
package fixture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/pkg"
)

var (
	ErrManifest  = pkg.NewError("invalid manifest")
	ErrNoProgram = pkg.NewError("fixture has no program")
	ErrMismatch  = pkg.NewError("fixture mismatch")
	ErrAssert    = pkg.NewError("assertion failed")
)

// Exts are the file extensions of manifests.
var Exts = []string{".yaml", ".yml"}

// Fixture is one program with its expected outcome.
type Fixture struct {
	Name    string   `yaml:"name"`
	Source  string   `yaml:"source"`
	Program string   `yaml:"program"`
	Stdout  *string  `yaml:"stdout"`
	Status  int      `yaml:"status"`
	Result  *int     `yaml:"result"`
	Error   string   `yaml:"error"`
	Assert  []string `yaml:"assert"`

	// Manifest is the path of the file the fixture was read from.
	Manifest string `yaml:"-"`
}

// Outcome is the observed result of running a fixture.
type Outcome struct {
	Stdout string
	Status int // process exit status
	Return int // value returned by main
	Class  string
	Err    error
}

// Load reads every fixture in the manifest at path.
func Load(path string) ([]*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrManifest.Wrap(err).With(slog.String("manifest", path))
	}
	defer file.Close()

	fixtures, err := Decode(file)
	if err != nil {
		return nil, ErrManifest.Wrap(err).With(slog.String("manifest", path))
	}

	for i, f := range fixtures {
		f.Manifest = path

		if f.Name == "" {
			f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if len(fixtures) > 1 {
				f.Name += "#" + strconv.Itoa(i+1)
			}
		}
	}

	return fixtures, nil
}

// Decode reads the fixture documents from r. Unknown fields are errors.
func Decode(r io.Reader) ([]*Fixture, error) {
	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())

	var fixtures []*Fixture

	for {
		var f Fixture

		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return fixtures, nil
		}

		if err != nil {
			return nil, err
		}

		fixtures = append(fixtures, &f)
	}
}

// Discover returns the manifests found under root in lexical order. A root
// that is a file is returned as it is.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && slices.Contains(Exts, filepath.Ext(path)) {
			paths = append(paths, path)
		}

		return nil
	})

	return paths, err
}

// Text returns the program of f.
func (f *Fixture) Text() (string, error) {
	if f.Program != "" {
		return f.Program, nil
	}

	if f.Source == "" {
		return "", ErrNoProgram.With(slog.String("fixture", f.Name))
	}

	path := f.Source
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(f.Manifest), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Run compiles and runs the program of f.
func (f *Fixture) Run(ctx context.Context, opts ...lang.Option) Outcome {
	src, err := f.Text()
	if err != nil {
		return Outcome{Status: lang.StatusFailure, Class: lang.ClassError, Err: err}
	}

	var buf bytes.Buffer

	res, err := lang.Run(ctx, src, &buf, opts...)

	o := Outcome{Stdout: buf.String(), Return: res.Return, Err: err}
	if err != nil {
		o.Status = lang.StatusOf(err)
		o.Class = lang.ClassOf(err)
	}

	return o
}

// Verify compares o with the expectations of f.
func (f *Fixture) Verify(o Outcome) error {
	var errs []error

	mismatch := func(field string, want, got any) {
		errs = append(errs, ErrMismatch.With(
			slog.String("fixture", f.Name),
			slog.String("field", field),
			slog.Any("want", want),
			slog.Any("got", got),
		).Wrapf("%s: want %#v, got %#v", field, want, got))
	}

	if f.Stdout != nil && *f.Stdout != o.Stdout {
		mismatch("stdout", *f.Stdout, o.Stdout)
	}

	if f.Status != o.Status {
		mismatch("status", f.Status, o.Status)
	}

	if f.Result != nil && *f.Result != o.Return {
		mismatch("result", *f.Result, o.Return)
	}

	if f.Error != o.Class {
		mismatch("error", f.Error, o.Class)
	}

	env := o.env()

	for _, a := range f.Assert {
		if err := assert(a, env); err != nil {
			errs = append(errs, err.With(slog.String("fixture", f.Name)))
		}
	}

	return errors.Join(errs...)
}

func (o Outcome) env() map[string]any {
	var msg string
	if o.Err != nil {
		msg = o.Err.Error()
	}

	return map[string]any{
		"stdout": o.Stdout,
		"status": o.Status,
		"result": o.Return,
		"error":  msg,
		"class":  o.Class,
	}
}

func assert(source string, env map[string]any) *pkg.Error {
	program, err := expr.Compile(source, expr.Env(env), expr.AsBool())
	if err != nil {
		return ErrAssert.Wrap(err).With(slog.String("assert", source))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return ErrAssert.Wrap(err).With(slog.String("assert", source))
	}

	if ok, _ := out.(bool); !ok {
		return ErrAssert.Wrapf("%s", source).With(slog.String("assert", source))
	}

	return nil
}
