package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/lang/format"
	"github.com/ardnew/tuplet/log"
	"github.com/ardnew/tuplet/pkg"
)

// AST prints the syntax tree of a program as YAML or JSON.
type AST struct {
	Format string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})" short:"F"`
	Indent int    `default:"2"                     help:"Indent width, or 0 for compact output" short:"i"`
	Source string `arg:""         default:"-"      help:"Program file or '-' for stdin" name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	src, path, err := readSource(ctx, a.Source, optionsFrom(ctx, logger)...)
	if err != nil {
		return err
	}

	tree, err := lang.Parse(src)
	if err != nil {
		return report(logger, path, err)
	}

	switch a.Format {
	case "json":
		if err := format.JSON(ctx, os.Stdout, tree, a.Indent); err != nil {
			return pkg.ErrJSONMarshal.Wrap(err).With(slog.String("file", path))
		}

	case "yaml":
		if err := format.YAML(ctx, os.Stdout, tree, a.Indent); err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err).With(slog.String("file", path))
		}

	default:
		return pkg.ErrInvalidFormat.With(slog.String("format", a.Format))
	}

	return nil
}
