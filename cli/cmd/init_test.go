package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Level    string          `default:"info"`
	MaxDepth int             `default:"512"`
	Pretty   bool
	Tags     []string
	PprofDir string          `default:"/tmp"`
	Version  kong.VersionFlag
	Init     Init            `cmd:""`
}

// parseInit parses args against a minimal model whose config variable
// names a file in a temporary directory.
func parseInit(t *testing.T, args ...string) (*kong.Context, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")

	parser, err := kong.New(&initCLI{},
		kong.Vars{ConfigIdentifier: path},
		kong.Exit(func(code int) { t.Fatalf("exit %d", code) }),
	)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	return ktx, path
}

func readConfig(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}

	return config
}

func TestInit(t *testing.T) {
	t.Parallel()

	ktx, path := parseInit(t, "--max-depth=64", "--pretty")

	if err := (&Init{}).Run(WithContext(t.Context(), ktx)); err != nil {
		t.Fatalf("run error: %v", err)
	}

	config := readConfig(t, path)

	want := map[string]string{
		"level":     "info",
		"max-depth": "64",
		"pretty":    "true",
	}
	for key, val := range want {
		if got := fmt.Sprint(config[key]); got != val {
			t.Errorf("%s = %s, want %s", key, got, val)
		}
	}

	for _, key := range []string{"tags", "help", "version", "pprof-dir"} {
		if _, ok := config[key]; ok {
			t.Errorf("unexpected key %q", key)
		}
	}
}

func TestInit_Exists(t *testing.T) {
	t.Parallel()

	ktx, path := parseInit(t, "--level=debug")

	if err := os.WriteFile(path, []byte("level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(t.Context(), ktx)

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Fatalf("error = %v, want ErrWriteConfig wrapping ErrFileExists", err)
	}

	if got := readConfig(t, path)["level"]; got != "warn" {
		t.Errorf("level = %v, file should be unchanged", got)
	}

	if err := (&Init{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced run error: %v", err)
	}

	if got := readConfig(t, path)["level"]; got != "debug" {
		t.Errorf("level = %v, want debug", got)
	}
}

func TestInit_NoContext(t *testing.T) {
	t.Parallel()

	if err := (&Init{}).Run(t.Context()); !errors.Is(err, ErrNoContext) {
		t.Errorf("error = %v, want ErrNoContext", err)
	}
}
