package lang

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/expr-lang/expr"
)

// TestArithmetic_MatchesExpr checks the promotion rules against expr-lang,
// whose integer and float semantics coincide with ours for values that fit
// in 64 bits: int op int is int, "/" is always float, "%" rejects floats.
func TestArithmetic_MatchesExpr(t *testing.T) {
	t.Parallel()

	operands := []string{
		"0", "1", "2", "3", "7", "10", "255", "1024", "65535", "1048576",
		"0.5", "1.25", "2.0", "3.75", "100.125",
	}

	for _, op := range []string{"+", "-", "*", "/", "%", "^"} {
		t.Run(op, func(t *testing.T) {
			t.Parallel()

			for _, a := range operands {
				for _, b := range operands {
					if op == "%" && b == "0" {
						continue // covered by the modulo-by-zero tests
					}

					checkOracle(t, a+" "+op+" "+b, op == "^")
				}
			}
		})
	}
}

func checkOracle(t *testing.T, src string, pow bool) {
	t.Helper()

	want, wantErr := expr.Eval(src, nil)
	got, _, gotErr := runString(t, src)

	switch {
	case wantErr != nil:
		if gotErr == nil {
			t.Errorf("%s = %v, expr-lang failed with %v", src, got, wantErr)
		}

		return

	case errors.Is(gotErr, ErrIntegerOverflow):
		if f, ok := want.(float64); !pow || !ok || math.Abs(f) < 1.7e38 {
			t.Errorf("%s overflowed, expr-lang = %v", src, want)
		}

		return

	case gotErr != nil:
		t.Errorf("%s error: %v (expr-lang = %v)", src, gotErr, want)

		return
	}

	switch w := want.(type) {
	case int:
		i, ok := got.(Integer)
		if v, fits := i.Int64(); !ok || !fits || v != int64(w) {
			t.Errorf("%s = %v (%s), want integer %d", src, got, got.TypeName(), w)
		}

	case float64:
		var f float64

		switch g := got.(type) {
		case Float:
			f = float64(g)
		case Integer:
			if !pow {
				t.Errorf("%s = integer %v, want float %v", src, g, w)

				return
			}

			f = g.Float64()
		default:
			t.Errorf("%s = %s, want float", src, got.TypeName())

			return
		}

		if !sameFloat(f, w, pow) {
			t.Errorf("%s = %s, want %s", src,
				strconv.FormatFloat(f, 'g', -1, 64),
				strconv.FormatFloat(w, 'g', -1, 64))
		}

	default:
		t.Fatalf("%s: unexpected expr-lang result %T", src, want)
	}
}

func sameFloat(a, b float64, approx bool) bool {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return math.IsNaN(a) && math.IsNaN(b)
	case a == b:
		return true
	case approx:
		return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
	default:
		return false
	}
}
