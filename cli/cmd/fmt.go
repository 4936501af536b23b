package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/lang/format"
	"github.com/ardnew/tuplet/log"
)

// Fmt prints a program in canonical form.
type Fmt struct {
	Indent int    `       default:"2" help:"Indent width, or 0 to indent with tabs"   short:"i"`
	Write  bool   `                   help:"Write the result back to the source file" short:"w"`
	Source string `arg:"" default:"-" help:"Program file or '-' for stdin"            name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	src, path, err := readSource(ctx, f.Source, optionsFrom(ctx, logger)...)
	if err != nil {
		return err
	}

	tree, err := lang.Parse(src)
	if err != nil {
		return report(logger, path, err)
	}

	var buf bytes.Buffer
	if err := format.Source(ctx, &buf, tree, f.Indent); err != nil {
		return err
	}

	if !f.Write || f.Source == stdinSource {
		_, err = buf.WriteTo(os.Stdout)

		return err
	}

	if buf.String() == src {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "rewrite source", slog.String("file", path))

	return os.WriteFile(path, buf.Bytes(), info.Mode().Perm())
}
