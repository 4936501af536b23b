package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ardnew/tuplet/fixture"
	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/log"
)

// Test runs the fixtures of every manifest found under the given paths.
type Test struct {
	Paths   []string      `arg:"" default:"."   help:"Manifest files or directories to search" name:"paths" type:"path"`
	Verbose bool          `                     help:"Print a line per passing fixture"                      short:"v"`
	Timeout time.Duration `       default:"10s" help:"Time limit per fixture, or 0 for none"`
}

// Run executes the test command.
func (t *Test) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()
	opts := optionsFrom(ctx, logger)

	var manifests []string

	for _, root := range t.Paths {
		found, err := fixture.Discover(root)
		if err != nil {
			return err
		}

		manifests = append(manifests, found...)
	}

	var passed, failed int

	for _, path := range manifests {
		fixtures, err := fixture.Load(path)
		if err != nil {
			return err
		}

		for _, f := range fixtures {
			if err := t.run(ctx, f, opts); err != nil {
				failed++

				fmt.Fprintf(os.Stdout, "FAIL %s (%s)\n", f.Name, path)
				logger.ErrorContext(ctx, "fixture failed",
					slog.String("fixture", f.Name),
					slog.String("manifest", path),
					slog.Any("error", err),
				)

				continue
			}

			passed++

			if t.Verbose {
				fmt.Fprintf(os.Stdout, "ok   %s\n", f.Name)
			}
		}
	}

	fmt.Fprintf(os.Stdout, "%d passed, %d failed\n", passed, failed)

	if failed > 0 {
		return ErrFixtureFailed.With(slog.Int("failed", failed))
	}

	return nil
}

func (t *Test) run(ctx context.Context, f *fixture.Fixture, opts []lang.Option) error {
	if t.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	return f.Verify(f.Run(ctx, opts...))
}
