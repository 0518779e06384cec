package cli

import (
	"strconv"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quill/cli/cmd"
	"github.com/ardnew/quill/lang"
)

func newTestParser(t *testing.T, cli *CLI, opts ...kong.Option) *kong.Kong {
	t.Helper()

	dir := t.TempDir()

	vars := kong.Vars{
		cmd.ConfigIdentifier:   dir + "/config.yaml",
		cmd.CacheIdentifier:    dir,
		cmd.MaxDepthIdentifier: strconv.Itoa(lang.DefaultMaxDepth),
		"version":              "test",
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	opts = append([]kong.Option{
		kong.Exit(func(code int) { t.Fatalf("exit %d", code) }),
		vars,
	}, opts...)

	parser, err := kong.New(cli, opts...)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	return parser
}

func TestCLI_Commands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-"}, "run <source>"},
		{[]string{"run", "-q", "-"}, "run <source>"},
		{[]string{"repl"}, "repl"},
		{[]string{"fmt", "-"}, "fmt ast <source>"},
		{[]string{"fmt", "tokens", "-F", "yaml", "-"}, "fmt tokens <source>"},
		{[]string{"fmt", "source", "-i", "4", "-"}, "fmt source <source>"},
		{[]string{"init", "--force"}, "init"},
	}

	for _, tt := range tests {
		var cli CLI

		parser := newTestParser(t, &cli)

		ktx, err := parser.Parse(tt.args)
		if err != nil {
			t.Errorf("parse %v: %v", tt.args, err)

			continue
		}

		if got := ktx.Command(); got != tt.want {
			t.Errorf("parse %v command = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestCLI_Defaults(t *testing.T) {
	var cli CLI

	parser := newTestParser(t, &cli)
	if _, err := parser.Parse([]string{"fmt", "tokens", "-"}); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if cli.Fmt.Tokens.Dump.Format != "json" || cli.Fmt.Tokens.Dump.Indent != 2 {
		t.Errorf("dump flags = %+v", cli.Fmt.Tokens.Dump)
	}

	if cli.Fmt.Tokens.Dump.MaxDepth != lang.DefaultMaxDepth {
		t.Errorf("max depth = %d", cli.Fmt.Tokens.Dump.MaxDepth)
	}

	if cli.Log.Level != "info" || cli.Log.Format != "text" || !cli.Log.Pretty {
		t.Errorf("log flags = %+v", cli.Log)
	}
}
