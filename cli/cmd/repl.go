package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/quill/cli/cmd/repl"
	"github.com/ardnew/quill/log"
)

// Repl starts an interactive session over one persistent environment.
type Repl struct {
	MaxDepth  int      `default:"${maxDepth}" help:"Maximum nesting and recursion depth"`
	NoHistory bool     `help:"Do not load or save input history"`
	Sources   []string `arg:""                help:"Source files to evaluate before the first prompt, or '-' for stdin" name:"source" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cfg repl.Config

	if len(r.Sources) > 0 {
		cfg.Preload, err = readSources(ctx, r.Sources)
		if err != nil {
			return err
		}
	}

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			cfg.HistoryPath = filepath.Join(dir, repl.HistoryFile)
		}
	}

	out := outputFrom(ctx)

	cfg.Input = out.stdin
	cfg.Output = out.stdout
	cfg.Logger = log.Default()
	cfg.MaxDepth = r.MaxDepth

	log.DebugContext(ctx, "repl start",
		slog.String("history", cfg.HistoryPath),
		slog.Int("preload_bytes", len(cfg.Preload)),
	)

	return repl.Run(ctx, cfg)
}
