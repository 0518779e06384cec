package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/quill/lang"
)

func TestFmtAST(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		indent int
		decode func([]byte, any) error
	}{
		{"json compact", "json", 0, json.Unmarshal},
		{"json indented", "json", 4, json.Unmarshal},
		{"yaml block", "yaml", 2, yaml.Unmarshal},
		{"yaml flow", "yaml", 0, yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, stdout, _ := testIO(t, "let a = 12")

			a := &AST{Dump: dump{
				Format:   tt.format,
				Indent:   tt.indent,
				MaxDepth: lang.DefaultMaxDepth,
			}}
			if err := a.Run(ctx); err != nil {
				t.Fatalf("run error: %v", err)
			}

			var tree map[string]any
			if err := tt.decode(stdout.Bytes(), &tree); err != nil {
				t.Fatalf("decode %q: %v", stdout.String(), err)
			}

			if tree["kind"] != "scope" {
				t.Errorf("root kind = %v", tree["kind"])
			}

			body, _ := tree["body"].([]any)
			if len(body) != 1 {
				t.Fatalf("body = %#v", tree["body"])
			}

			decl, _ := body[0].(map[string]any)
			if decl["kind"] != "variable declaration" {
				t.Errorf("statement kind = %v", decl["kind"])
			}
		})
	}
}

func TestFmtAST_ParseError(t *testing.T) {
	t.Parallel()

	ctx, stdout, stderr := testIO(t, "let = )")

	err := (&AST{Dump: dump{Format: "json", MaxDepth: lang.DefaultMaxDepth}}).Run(ctx)
	if !errors.Is(err, ErrCompile) {
		t.Errorf("error = %v, want ErrCompile", err)
	}

	if stdout.Len() != 0 || !strings.Contains(stderr.String(), "SyntaxError") {
		t.Errorf("stdout = %q, stderr = %q", stdout.String(), stderr.String())
	}
}

func TestFmtTokens_Output(t *testing.T) {
	t.Parallel()

	ctx, stdout, _ := testIO(t, "a += 2.5")
	path := filepath.Join(t.TempDir(), "tokens.json")

	tok := &Tokens{Dump: dump{Format: "json", Output: path}}
	if err := tok.Run(ctx); err != nil {
		t.Fatalf("run error: %v", err)
	}

	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want output in file", stdout.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var tokens []map[string]any
	if err := json.Unmarshal(data, &tokens); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}

	kinds := make([]string, len(tokens))
	for i, tok := range tokens {
		kinds[i], _ = tok["kind"].(string)
	}

	want := []string{"identifier", "assignment operator", "float", "end of input"}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
}

func TestFmtTokens_LexError(t *testing.T) {
	t.Parallel()

	ctx, _, _ := testIO(t, "1.2.3")

	err := (&Tokens{Dump: dump{Format: "yaml"}}).Run(ctx)
	if !errors.Is(err, lang.ErrMultipleDecimals) {
		t.Errorf("error = %v", err)
	}
}

func TestFmtSource(t *testing.T) {
	t.Parallel()

	ctx, stdout, _ := testIO(t, "let a=(1+2)\n#unused! let b = {a*2 a}\nprint( a,b )")

	if err := (&Source{Indent: 2, MaxDepth: lang.DefaultMaxDepth}).Run(ctx); err != nil {
		t.Fatalf("run error: %v", err)
	}

	want := "let a = 1 + 2\nlet b = {\n  a * 2\n  a\n}\nprint(a, b)\n"
	if got := stdout.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestFmtSource_Output(t *testing.T) {
	t.Parallel()

	ctx, stdout, _ := testIO(t, "let x = { 1 }")
	path := filepath.Join(t.TempDir(), "out.ql")

	src := &Source{Output: path, MaxDepth: lang.DefaultMaxDepth}
	if err := src.Run(ctx); err != nil {
		t.Fatalf("run error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "let x = { 1 }\n" || stdout.Len() != 0 {
		t.Errorf("file = %q, stdout = %q", data, stdout.String())
	}
}

func TestFmtSource_ParseError(t *testing.T) {
	t.Parallel()

	ctx, stdout, stderr := testIO(t, "let a =\n)")

	err := (&Source{Indent: 2, MaxDepth: lang.DefaultMaxDepth}).Run(ctx)
	if !errors.Is(err, ErrCompile) || !errors.Is(err, lang.ErrUnexpectedToken) {
		t.Errorf("error = %v", err)
	}

	if stdout.Len() != 0 || strings.Count(stderr.String(), "SyntaxError") != 1 {
		t.Errorf("stdout = %q, stderr = %q", stdout.String(), stderr.String())
	}
}
