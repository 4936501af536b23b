// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("program loaded", slog.String("file", name))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stdout,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Adding Attributes
//
// Attributes can be added to the logger to be included in all subsequent
// log messages using the [Logger.With] method:
//
//	logger = logger.With(slog.String("file", "sort.tpl"))
//	logger.Info("checked") // includes file=sort.tpl
//
// # Interpreter Stages
//
// [Logger.Stage] tags records with the stage that emitted them, and
// [Logger.Span] times a stage, logging at Trace level once it completes:
//
//	logger = logger.Stage("check")
//	done := logger.Span(ctx, "check complete")
//	errs := check(prog)
//	done(slog.Int("errors", errs))
//
// # Context-Aware Logging
//
// The package provides context-aware logging functions and methods.
// Each logging level has both a context-aware and context-unaware variant:
//
//	logger.InfoContext(ctx, "running program")
//	logger.Info("message without context") // uses DefaultContextProvider
//
// Context-unaware functions internally call their context-aware counterparts
// using [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn] and [LevelError]. Messages below the configured
// level are discarded. The interpreter pipeline logs each phase at Trace.
//
// # Time Formatting
//
// Time formatting is configurable using [WithTimeLayout]. You can
// specify any named layout supported by the [time] package (such as
// "RFC3339" or "RFC3339Nano") or provide a custom layout string.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and
// [FormatJSON]. With [WithPretty] enabled, both are styled for a terminal
// using lipgloss; writers that are not terminals receive plain text.
//
// The package-level functions such as [Info] and [TraceContext] log through
// the logger returned by [Default], which [Config] reconfigures.
package log
