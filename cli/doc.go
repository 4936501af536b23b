// Package cli contains the command line interface for tuplet.
//
// # Usage
//
//	tuplet [flags] [run] FILE     compile and run a program
//	tuplet check FILE...          report diagnostics without running
//	tuplet tokens FILE            print the token stream
//	tuplet ast [-F json] FILE     print the syntax tree
//	tuplet fmt [-w] FILE          print a program in canonical form
//	tuplet test [PATH...]         run fixture manifests
//	tuplet repl [FILE]            start an interactive session
//	tuplet init [--force]         write the configuration file
//
// A program that runs to completion exits with status 0; the value main
// returns is logged at debug level. Compile errors exit with status 2,
// runtime errors with status 3, and other failures with status 1.
//
// # Program Search Path
//
// A program name that is not an existing file is looked up in the
// directories given with --path, then in those listed in TUPLET_PATH. The
// extension .tpl may be omitted.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (see [os.UserConfigDir]). Keys are flag names, with underscores
// allowed in place of hyphens:
//
//	log_level: debug
//	max_depth: 500
//
// Command-line flags override config file values. tuplet init writes the
// current values of all flags.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tuplet .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/tuplet/pprof)
package cli
