package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/log"
)

// Check compiles programs without running them and reports every
// diagnostic.
type Check struct {
	Sources []string `arg:"" default:"-" help:"Program files or '-' for stdin" name:"sources"`
	Quiet   bool     `                   help:"Do not print a line per valid file"           short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()
	opts := optionsFrom(ctx, logger)

	paths, err := uniqueSources(ctx, c.Sources)
	if err != nil {
		return err
	}

	var failed error

	for _, name := range paths {
		src, path, err := readSource(ctx, name, opts...)
		if err != nil {
			return err
		}

		_, err = lang.Compile(ctx, src, opts...)
		if err != nil {
			failed = report(logger, path, err)

			continue
		}

		logger.DebugContext(ctx, "check passed", slog.String("file", path))

		if !c.Quiet {
			fmt.Fprintf(os.Stdout, "%s: ok\n", path)
		}
	}

	return failed
}
