package cmd

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/log"
	"github.com/ardnew/tuplet/pkg"
)

var (
	ErrWriteConfig    = pkg.NewError("write configuration file")
	ErrFileExists     = pkg.NewError("file exists (use --force to overwrite)")
	ErrSourceNotFound = pkg.NewError("source not found")
	ErrFixtureFailed  = pkg.NewError("fixture failed")
)

// Status is an error that only carries a process exit status. The failure it
// stands for has already been reported.
type Status int

func (s Status) Error() string { return "exit status " + strconv.Itoa(int(s)) }

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	var s Status
	if errors.As(err, &s) {
		return int(s)
	}

	return lang.StatusOf(err)
}

// report logs err, one record per diagnostic, and returns the [Status] that
// replaces it. Errors that are not program failures are returned as they are.
func report(logger log.Logger, file string, err error) error {
	if err == nil {
		return nil
	}

	diags := lang.Diagnostics(err)
	if len(diags) == 0 {
		return err
	}

	for _, d := range diags {
		attrs := []slog.Attr{slog.String("file", file), slog.String("class", lang.ClassOf(d))}
		if pos := d.Pos(); pos.IsValid() {
			attrs = append(attrs, slog.Int("line", pos.Line), slog.Int("column", pos.Column))
		}

		attrs = append(attrs, slog.String("error", d.Error()))

		logger.Error(d.Class().Error(), attrs...)
	}

	return Status(lang.StatusOf(err))
}
