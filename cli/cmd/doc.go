// Package cmd implements the quill subcommands: run, repl, fmt and init.
//
// Commands receive a [context.Context] carrying the [kong.Context] of the
// parsed command line (see [WithContext]) and, optionally, the writers they
// print to (see [WithOutput]). Every command reads its sources through
// [lang.ReadSource]; the name "-" selects standard input.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default nesting and recursion limit of the interpreter.
	MaxDepthIdentifier = "maxDepth"
)
