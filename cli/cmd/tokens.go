package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/lang/token"
	"github.com/ardnew/tuplet/log"
)

// Tokens prints the token stream of a program, one token per line.
type Tokens struct {
	Source string `arg:"" default:"-" help:"Program file or '-' for stdin" name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	src, path, err := readSource(ctx, t.Source, optionsFrom(ctx, logger)...)
	if err != nil {
		return err
	}

	toks, err := lang.Tokens(src)
	if err != nil {
		return report(logger, path, err)
	}

	out := bufio.NewWriter(os.Stdout)

	for _, tok := range toks {
		fmt.Fprintf(out, "%d:%d\t%s", tok.Pos.Line, tok.Pos.Column, tok.Kind)

		switch tok.Kind {
		case token.Ident, token.Int:
			fmt.Fprintf(out, "\t%s", tok.Text)
		case token.String:
			fmt.Fprintf(out, "\t%s", strconv.Quote(tok.Text))
		}

		out.WriteByte('\n')
	}

	return out.Flush()
}
