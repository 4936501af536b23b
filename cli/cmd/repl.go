package cmd

import (
	"context"

	"github.com/ardnew/tuplet/cli/cmd/repl"
	"github.com/ardnew/tuplet/log"
)

// Repl starts an interactive session.
type Repl struct {
	Source string `arg:"" help:"Program to load into the session" name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	logger := log.Default()
	opts := optionsFrom(ctx, logger)

	if r.Source == "" {
		return repl.Run(ctx, nil, cacheDir, logger, opts...)
	}

	rc, path, err := open(ctx, r.Source)
	if err != nil {
		return err
	}
	defer rc.Close()

	return report(logger, path, repl.Run(ctx, rc, cacheDir, logger, opts...))
}
