package lang

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// Run tokenizes, parses and evaluates src against env.
//
// A lexical error is returned as an [*Error]. Parse errors are returned
// together as a [*ParseError] and nothing is evaluated. Otherwise the result
// is that of [Evaluate].
func Run(ctx context.Context, src string, env *Env, opts ...Option) (Value, error) {
	program, err := compile(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	return Evaluate(ctx, program, env, opts...)
}

// compiled is a parse cache entry.
type compiled struct {
	program *Scope
	source  string
}

// compileCache maps a hash of the source and parser options to *compiled.
// Trees are never mutated after parsing, so cached programs are shared.
//
//nolint:gochecknoglobals
var compileCache sync.Map

// Compile tokenizes and parses src like [Run] without evaluating it.
//
// Successfully parsed programs are cached for the life of the process, keyed
// by the content of src and the nesting limit.
func Compile(ctx context.Context, src string, opts ...Option) (*Scope, error) {
	o := makeOptions(opts...)
	key := xxh3.HashStringSeed(src, uint64(o.maxDepth))

	if e, ok := compileCache.Load(key); ok {
		if c, ok := e.(*compiled); ok && c.source == src {
			o.logger.TraceContext(ctx, "compile cache hit",
				slog.Uint64("key", key))

			return c.program, nil
		}
	}

	program, err := compile(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	compileCache.Store(key, &compiled{program: program, source: src})

	return program, nil
}

// ResetCache discards every program cached by [Compile].
func ResetCache() {
	compileCache.Clear()
}

func compile(ctx context.Context, src string, opts ...Option) (*Scope, error) {
	tokens, err := Tokenize(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	program, errs := Parse(ctx, tokens, opts...)
	if len(errs) > 0 {
		return nil, NewParseError(errs, src)
	}

	return program, nil
}

// ReadSource reads all of r, prefetching asynchronously while earlier chunks
// are consumed.
func ReadSource(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadSource.Wrap(err)
	}

	return string(data), nil
}
