// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured with functional options at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// Attributes are typed [slog.Attr] values:
//
//	logger = logger.With(slog.String("component", "parser"))
//	logger.Info("parsed", slog.Int("statements", 3))
//
// Each level has a context-aware and a context-unaware variant. The latter
// use [DefaultContextProvider], which returns [context.TODO].
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is used by the interpreter to report
// individual tokens and evaluation steps.
//
// [FormatText] output is colorized unless [WithPretty] disables it.
// [FormatJSON] output is always one object per line.
//
// The zero [Logger] discards everything.
package log
