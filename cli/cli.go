package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tuplet/cli/cmd"
	"github.com/ardnew/tuplet/lang"
	"github.com/ardnew/tuplet/lang/eval"
	"github.com/ardnew/tuplet/log"
	"github.com/ardnew/tuplet/pkg"
)

// CLI is the top-level command-line interface for tuplet.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	MaxDepth int      `default:"${maxDepth}" help:"Maximum depth of nested function calls"                  name:"max-depth"`
	Path     []string `                      help:"Directories searched for programs, before ${pathEnv}" name:"path"      placeholder:"DIR" type:"path"`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Compile and run a program"`
	Check  cmd.Check  `cmd:""                    help:"Compile programs and report diagnostics"`
	Tokens cmd.Tokens `cmd:""                    help:"Print the token stream of a program"`
	AST    cmd.AST    `cmd:""                    help:"Print the syntax tree of a program"      name:"ast"`
	Fmt    cmd.Fmt    `cmd:""                    help:"Print a program in canonical form"`
	Test   cmd.Test   `cmd:""                    help:"Run fixture manifests"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the tuplet CLI with the given context and arguments.
// The exit function is called by kong for help and usage errors.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"maxDepth":           strconv.Itoa(eval.DefaultMaxDepth),
		"pathEnv":            pathEnv(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		// The provider reads ctx when a command runs, after the command
		// values below are added to it.
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadYAML, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	dirs := searchPath(cli.Path)

	log.DebugContext(ctx, "interpreter configured",
		slog.Int("max_depth", cli.MaxDepth),
		slog.Any("search_path", dirs),
	)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, dirs)
	ctx = cmd.WithOptions(ctx, lang.WithMaxDepth(cli.MaxDepth))

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
