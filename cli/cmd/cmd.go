package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	outputKey struct{}
	output    struct {
		stdin          io.Reader
		stdout, stderr io.Writer
	}
)

// WithOutput returns a new context.Context whose commands read standard input
// from stdin and print results and diagnostics to stdout and stderr.
// A nil argument keeps the corresponding process stream.
func WithOutput(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
) context.Context {
	return context.WithValue(ctx, outputKey{}, output{stdin, stdout, stderr})
}

func outputFrom(ctx context.Context) output {
	o, _ := ctx.Value(outputKey{}).(output)

	if o.stdin == nil {
		o.stdin = os.Stdin
	}

	if o.stdout == nil {
		o.stdout = os.Stdout
	}

	if o.stderr == nil {
		o.stderr = os.Stderr
	}

	return o
}

// interpreterOptions returns the options shared by every command that
// tokenizes, parses or evaluates source.
func interpreterOptions(ctx context.Context, maxDepth int) []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(maxDepth),
		lang.WithOutput(outputFrom(ctx).stdout),
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks and relative/absolute paths.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readSources reads and concatenates the named sources in order.
//
// Each file is read once even when named repeatedly or through different
// paths. Every occurrence of "-" is replaced with a single read of standard
// input placed after all regular files. No names at all means standard input.
// Sources are joined with a newline so that a statement never continues across
// files.
func readSources(ctx context.Context, names []string) (string, error) {
	stdin := outputFrom(ctx).stdin

	if len(names) == 0 {
		names = []string{stdinSource}
	}

	var (
		parts    = make([]string, 0, len(names))
		seen     = make(map[fileKey]struct{})
		hasStdin bool
	)

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		src, ok, err := readUniqueFile(name, seen)
		if err != nil {
			return "", ErrReadSource.With(slog.String("file", name)).Wrap(err)
		}

		if ok {
			parts = append(parts, src)
		}
	}

	if hasStdin {
		src, err := lang.ReadSource(stdin)
		if err != nil {
			return "", ErrReadSource.With(slog.String("file", stdinSource)).Wrap(err)
		}

		parts = append(parts, src)
	}

	log.TraceContext(ctx, "sources read",
		slog.Int("count", len(parts)),
		slog.Bool("stdin", hasStdin),
	)

	return strings.Join(parts, "\n"), nil
}

// readUniqueFile reads the file at path unless it was already read.
// It resolves symlinks and uses device/inode to detect duplicates.
func readUniqueFile(path string, seen map[fileKey]struct{}) (string, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return "", false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	src, err := lang.ReadSource(file)
	if err != nil {
		return "", false, err
	}

	return src, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
