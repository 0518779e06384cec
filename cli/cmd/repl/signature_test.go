package repl

import (
	"io"
	"strings"
	"testing"

	"github.com/ardnew/quill/lang"
)

func TestDetectFunctionCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no call", "greeting", 8, "", 0, false},
		{"open paren", "print(", 6, "print", 0, true},
		{"first arg", "print(1", 7, "print", 0, true},
		{"second arg", "print(1, 2", 10, "print", 1, true},
		{"nested group", "print(a, (1 + 2), ", 18, "print", 2, true},
		{"closed call", "print(1)", 8, "", 0, false},
		{"inner call", "f(print(1", 9, "print", 0, true},
		{"outer after inner", "f(print(1), 2", 13, "f", 1, true},
		{"group only", "(1 + 2", 6, "", 0, false},
		{"number callee", "12(", 3, "", 0, false},
		{"cursor mid input", "print(1, 2)", 7, "print", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := detectFunctionCall(tt.input, tt.cursor)
			if got.inCall != tt.wantInCall {
				t.Fatalf("inCall = %v, want %v", got.inCall, tt.wantInCall)
			}

			if !tt.wantInCall {
				return
			}

			if got.name != tt.wantName || got.argIndex != tt.wantIndex {
				t.Errorf("detectFunctionCall(%q, %d) = (%q, %d), want (%q, %d)",
					tt.input, tt.cursor, got.name, got.argIndex,
					tt.wantName, tt.wantIndex)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	t.Parallel()

	env := lang.NewEnv(lang.WithOutput(io.Discard))
	if _, err := lang.Run(t.Context(), "let n = 1", env); err != nil {
		t.Fatalf("run error: %v", err)
	}

	params, ok := signature(env, "print")
	if !ok || len(params) != 1 || params[0] != "...values" {
		t.Errorf("signature(print) = %v, %v", params, ok)
	}

	if _, ok := signature(env, "n"); ok {
		t.Error("integer binding reported as callable")
	}

	if _, ok := signature(env, "missing"); ok {
		t.Error("unbound name reported as callable")
	}
}

func TestRenderSignatureHint(t *testing.T) {
	t.Parallel()

	got := renderSignatureHint("f", []string{"a", "...rest"}, 3)
	for _, want := range []string{"f", "(", "a", ", ", "...rest", ")"} {
		if !strings.Contains(got, want) {
			t.Errorf("hint %q missing %q", got, want)
		}
	}
}
