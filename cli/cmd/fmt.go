package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

// Fmt dumps the token stream or syntax tree of source input, or rewrites the
// input in canonical syntax.
type Fmt struct {
	Tokens Tokens `cmd:""                    help:"Dump the token stream."`
	AST    AST    `cmd:"" default:"withargs" help:"Dump the syntax tree (default)."`
	Source Source `cmd:""                    help:"Rewrite source in canonical syntax."`
}

// dump holds the flags shared by the fmt subcommands.
type dump struct {
	Format   string   `default:"json"        enum:"json,yaml"                        help:"Output format."                     short:"F"`
	Indent   int      `default:"2"           help:"Indent width, 0 for compact output" short:"i"`
	Output   string   `help:"Write to file instead of stdout" short:"o" type:"path"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum nesting depth"`
	Sources  []string `arg:""                help:"Source files or '-' for stdin"     name:"source" optional:"" type:"existingfile"`
}

// Tokens writes the token stream of source input.
type Tokens struct {
	Dump dump `embed:""`
}

// Run executes the fmt tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSources(ctx, t.Dump.Sources)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(ctx, src, interpreterOptions(ctx, t.Dump.MaxDepth)...)
	if err != nil {
		return ErrCompile.With(slog.String("command", "fmt tokens")).Wrap(err)
	}

	return t.Dump.write(ctx, lang.ExportTokens(tokens))
}

// AST writes the syntax tree of source input.
type AST struct {
	Dump dump `embed:""`
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSources(ctx, a.Dump.Sources)
	if err != nil {
		return err
	}

	program, err := lang.Compile(ctx, src, interpreterOptions(ctx, a.Dump.MaxDepth)...)
	if err != nil {
		printDiagnostics(outputFrom(ctx).stderr, err)

		return ErrCompile.With(slog.String("command", "fmt ast")).Wrap(err)
	}

	return a.Dump.write(ctx, lang.ExportAST(program))
}

// Source writes source input reformatted in canonical syntax.
type Source struct {
	Indent   int      `default:"2"           help:"Block indent width, 0 for single-line blocks" short:"i"`
	Output   string   `help:"Write to file instead of stdout" short:"o" type:"path"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum nesting depth"`
	Sources  []string `arg:""                help:"Source files or '-' for stdin"     name:"source" optional:"" type:"existingfile"`
}

// Run executes the fmt source command.
func (s *Source) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSources(ctx, s.Sources)
	if err != nil {
		return err
	}

	program, err := lang.Compile(ctx, src, interpreterOptions(ctx, s.MaxDepth)...)
	if err != nil {
		printDiagnostics(outputFrom(ctx).stderr, err)

		return ErrCompile.With(slog.String("command", "fmt source")).Wrap(err)
	}

	w, err := createOutput(ctx, s.Output)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := lang.Format(ctx, w, program, s.Indent); err != nil {
		return ErrWriteOutput.With(slog.String("file", s.Output)).Wrap(err)
	}

	return w.Close()
}

// write encodes v in the selected format to the selected destination.
func (d *dump) write(ctx context.Context, v any) error {
	w, err := createOutput(ctx, d.Output)
	if err != nil {
		return err
	}
	defer w.Close()

	switch d.Format {
	case "yaml":
		err = lang.WriteYAML(ctx, w, v, d.Indent)
	default:
		err = lang.WriteJSON(w, v, d.Indent)
	}

	if err != nil {
		return ErrEncode.With(slog.String("format", d.Format)).Wrap(err)
	}

	log.DebugContext(ctx, "dump written",
		slog.String("format", d.Format),
		slog.String("output", d.Output),
	)

	return w.Close()
}

// createOutput opens the named file for writing, or stdout if name is empty.
// Closing stdout is a no-op, and closing twice is safe.
func createOutput(ctx context.Context, name string) (io.WriteCloser, error) {
	if name == "" {
		return nopCloser{outputFrom(ctx).stdout}, nil
	}

	file, err := os.Create(name)
	if err != nil {
		return nil, ErrWriteOutput.With(slog.String("file", name)).Wrap(err)
	}

	return &onceCloser{file: file}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

type onceCloser struct {
	file   *os.File
	err    error
	closed bool
}

func (c *onceCloser) Write(p []byte) (int, error) { return c.file.Write(p) }

func (c *onceCloser) Close() error {
	if !c.closed {
		c.closed = true
		c.err = c.file.Close()
	}

	return c.err
}
