package lang

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Builders(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := ErrUndefinedName.
		At(Pos{3, 7}).
		Detailf("'%s' is undefined", "x").
		Wrap(cause).
		With(slog.String("scope", "global"))

	if !errors.Is(err, ErrUndefinedName) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(err, ErrAlreadyDeclared) {
		t.Error("derived error matches an unrelated sentinel")
	}

	if !errors.Is(err, cause) {
		t.Error("derived error does not wrap its cause")
	}

	want := "NameError: 'x' is undefined at line 3, column 7: disk full"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if ErrUndefinedName.Pos.IsValid() || ErrUndefinedName.detail != "" {
		t.Error("sentinel was modified by a builder")
	}

	if got := ErrModuloByZero.Error(); got != "Error: integer modulo by zero" {
		t.Errorf("sentinel Error() = %q", got)
	}
}

func TestError_LogValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("failed", slog.Any("error",
		ErrIntegerOverflow.At(Pos{1, 5}).With(slog.String("op", "+"))))

	var rec struct {
		Error map[string]any `json:"error"`
	}

	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	for key, want := range map[string]any{
		"kind":   "Error",
		"error":  "integer overflow",
		"line":   float64(1),
		"column": float64(5),
		"op":     "+",
	} {
		if rec.Error[key] != want {
			t.Errorf("%s = %v, want %v", key, rec.Error[key], want)
		}
	}
}

func TestParseError_Snippet(t *testing.T) {
	t.Parallel()

	src := "let a = 1\nlet b = )"

	_, err := Run(t.Context(), src, NewEnv(WithOutput(io.Discard)))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %T is not *ParseError", err)
	}

	if len(pe.Errors()) != 1 {
		t.Fatalf("Errors() = %v", pe.Errors())
	}

	want := "SyntaxError: unexpected close parenthesis \")\" at line 2, column 9\n" +
		"  2 | let b = )\n" +
		"              ^"
	if got := pe.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}

	if !errors.Is(err, ErrUnexpectedToken) {
		t.Error("ParseError does not expose its errors to errors.Is")
	}
}

func TestParseError_Count(t *testing.T) {
	t.Parallel()

	_, err := Run(t.Context(), ")\n)\n)", NewEnv(WithOutput(io.Discard)))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %T is not *ParseError", err)
	}

	if len(pe.Errors()) != 3 {
		t.Errorf("got %d errors, want 3", len(pe.Errors()))
	}

	if first := strings.SplitN(pe.Error(), "\n", 2)[0]; !strings.HasSuffix(first, "(and 2 more)") {
		t.Errorf("summary line = %q", first)
	}

	if got := NewParseError(nil, "").Error(); got != "parse error" {
		t.Errorf("empty ParseError = %q", got)
	}
}

func TestPos_String(t *testing.T) {
	t.Parallel()

	if got := (Pos{2, 3}).String(); got != "line 2, column 3" {
		t.Errorf("String() = %s", got)
	}

	if got := (Pos{}).String(); got != "unknown position" {
		t.Errorf("zero String() = %s", got)
	}
}
