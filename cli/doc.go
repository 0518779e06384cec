// Package cli contains the command line interface for quill.
//
// # Usage
//
//	quill [flags] [run] [SOURCE ...]        # evaluate files ("-" for stdin)
//	quill repl [SOURCE ...]                 # interactive session
//	quill fmt ast|tokens [flags] [SOURCE]   # dump syntax tree or tokens
//	quill fmt source [flags] [SOURCE]       # rewrite in canonical syntax
//	quill init [--force]                    # write configuration file
//
// Global flags configure logging and, when built with the pprof tag,
// profiling:
//
//	quill --log-level=trace --log-format=json run program.ql
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory, for example $XDG_CONFIG_HOME/quill. Keys are flag
// names, with underscores accepted in place of hyphens:
//
//	log-level: debug
//	log_pretty: false
//	max-depth: 128
//
// Command-line flags override configuration file values. The init command
// writes the effective global flag values to config.yaml.
package cli
