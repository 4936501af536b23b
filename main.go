package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ardnew/tuplet/cli"
	"github.com/ardnew/tuplet/cli/cmd"
	"github.com/ardnew/tuplet/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	var status cmd.Status
	if err != nil && !errors.As(err, &status) {
		log.Error(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
	}

	os.Exit(cmd.ExitCode(err))
}
