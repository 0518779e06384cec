package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

// Run evaluates source files against a fresh environment.
type Run struct {
	Quiet    bool     `help:"Do not print the final value"                   short:"q"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum nesting and recursion depth"`
	Sources  []string `arg:""                help:"Source files or '-' for stdin" name:"source" optional:"" type:"existingfile"`
}

// Run executes the run command.
//
// Every parse error is printed to standard error and nothing is evaluated.
// A runtime error is printed and returned. Otherwise the value of the last
// statement is printed unless it is null or --quiet is set.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := outputFrom(ctx)

	src, err := readSources(ctx, r.Sources)
	if err != nil {
		return err
	}

	opts := interpreterOptions(ctx, r.MaxDepth)

	program, err := lang.Compile(ctx, src, opts...)
	if err != nil {
		printDiagnostics(out.stderr, err)

		return ErrCompile.With(slog.String("command", "run")).Wrap(err)
	}

	env := lang.NewEnv(opts...)

	value, err := lang.Evaluate(ctx, program, env, opts...)
	if err != nil {
		printDiagnostics(out.stderr, err)

		return ErrEvaluate.With(slog.String("command", "run")).Wrap(err)
	}

	log.DebugContext(ctx, "program evaluated",
		slog.Int("statements", len(program.Body)),
		slog.Int("bindings", env.Len()),
		slog.String("type", value.TypeName()),
	)

	if _, isNull := value.(lang.Null); r.Quiet || isNull {
		return nil
	}

	if _, err := fmt.Fprintln(out.stdout, value); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// printDiagnostics writes each error held by err on its own line.
// A parse error is expanded into its individual errors.
func printDiagnostics(w io.Writer, err error) {
	var pe *lang.ParseError
	if errors.As(err, &pe) {
		for _, e := range pe.Errors() {
			fmt.Fprintln(w, e)
		}

		return
	}

	fmt.Fprintln(w, err)
}
