// Package cmd implements the tuplet subcommands.
//
// Every command is a kong command struct with a Run(context.Context) error
// method. Commands read program text through the search path stored in the
// context by [WithSearchPath] and run programs with the interpreter options
// stored by [WithOptions]. A failed program is reported through the logger,
// one record per diagnostic, and the command returns a [Status] carrying the
// process exit status.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
