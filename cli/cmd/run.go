package cmd

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/log"
)

// Run compiles and runs a program. A program that runs to completion exits
// with [lang.StatusOK] whatever main returns, so the static and runtime
// failure statuses stay unambiguous.
type Run struct {
	Source string `arg:"" default:"-" help:"Program file or '-' for stdin" name:"source"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()
	opts := optionsFrom(ctx, logger)

	src, path, err := readSource(ctx, r.Source, opts...)
	if err != nil {
		return err
	}

	prog, err := lang.Compile(ctx, src, opts...)
	if err != nil {
		return report(logger, path, err)
	}

	out := bufio.NewWriter(os.Stdout)

	res, err := prog.Run(ctx, out, opts...)

	if ferr := out.Flush(); ferr != nil && err == nil {
		return ferr
	}

	if err != nil {
		return report(logger, path, err)
	}

	logger.DebugContext(ctx, "program completed",
		slog.String("file", path),
		slog.Int("return", res.Return),
	)

	return nil
}
