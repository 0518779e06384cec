package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testIO returns a context whose commands read stdin and write to the
// returned buffers.
func testIO(t *testing.T, stdin string) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	ctx := WithOutput(t.Context(), strings.NewReader(stdin), &stdout, &stderr)

	return ctx, &stdout, &stderr
}

// writeFile writes content to name in dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestReadSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.ql", "let a = 1")
	b := writeFile(t, dir, "b.ql", "let b = 2\n")

	link := filepath.Join(dir, "link.ql")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		names []string
		stdin string
		want  string
	}{
		{"stdin by default", nil, "let s = 0", "let s = 0"},
		{"files in order", []string{b, a}, "", "let b = 2\n\nlet a = 1"},
		{"duplicates read once", []string{a, link, a}, "", "let a = 1"},
		{"stdin last", []string{"-", a, "-"}, "let s = 0", "let a = 1\nlet s = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, _, _ := testIO(t, tt.stdin)

			got, err := readSources(ctx, tt.names)
			if err != nil {
				t.Fatalf("readSources error: %v", err)
			}

			if got != tt.want {
				t.Errorf("readSources = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadSources_Missing(t *testing.T) {
	t.Parallel()

	ctx, _, _ := testIO(t, "")

	_, err := readSources(ctx, []string{filepath.Join(t.TempDir(), "missing.ql")})
	if !errors.Is(err, ErrReadSource) {
		t.Errorf("error = %v, want ErrReadSource", err)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v does not wrap os.ErrNotExist", err)
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := ErrWriteOutput.With(slog.String("file", "out.json")).Wrap(cause)

	if got := err.Error(); got != "write output: disk full" {
		t.Errorf("Error() = %q", got)
	}

	if !errors.Is(err, ErrWriteOutput) || !errors.Is(err, cause) {
		t.Error("errors.Is failed on derived error")
	}

	if errors.Is(err, ErrEncode) {
		t.Error("derived error matches unrelated sentinel")
	}

	if len(ErrWriteOutput.attrs) != 0 {
		t.Error("With modified the sentinel")
	}

	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Error("failed", slog.Any("error", err))

	var rec struct {
		Error map[string]string `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid log record %q: %v", buf.String(), err)
	}

	want := map[string]string{
		"error": "write output",
		"cause": "disk full",
		"file":  "out.json",
	}
	for k, v := range want {
		if rec.Error[k] != v {
			t.Errorf("log %s = %q, want %q", k, rec.Error[k], v)
		}
	}

	if got := NewError("").Wrap(cause).Error(); got != "disk full" {
		t.Errorf("cause-only Error() = %q", got)
	}
}
