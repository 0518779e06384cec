package lang

import (
	"math"
	"math/big"
	"strings"

	"lukechampine.com/uint128"
)

// Int128 is a signed two's-complement 128-bit integer.
//
// Arithmetic methods report overflow instead of wrapping.
type Int128 struct {
	u uint128.Uint128
}

const signBit = uint64(1) << 63

//nolint:gochecknoglobals
var (
	// MaxInt128 is the largest representable Int128.
	MaxInt128 = Int128{uint128.New(math.MaxUint64, math.MaxInt64)}
	// MinInt128 is the smallest representable Int128.
	MinInt128 = Int128{uint128.New(0, signBit)}

	bigMaxInt128 = MaxInt128.Big()
	bigMinInt128 = MinInt128.Big()
)

// NewInt128 returns v as an Int128.
func NewInt128(v int64) Int128 {
	if v < 0 {
		return Int128{uint128.New(uint64(v), math.MaxUint64)}
	}

	return Int128{uint128.From64(uint64(v))}
}

// ParseInt128 parses a decimal integer with an optional leading sign.
func ParseInt128(s string) (Int128, bool) {
	s = strings.TrimPrefix(s, "+")

	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int128{}, false
	}

	return Int128FromBig(b)
}

// Int128FromBig converts b, reporting false if it is out of range.
func Int128FromBig(b *big.Int) (Int128, bool) {
	if b.Cmp(bigMaxInt128) > 0 || b.Cmp(bigMinInt128) < 0 {
		return Int128{}, false
	}

	if b.Sign() >= 0 {
		// uint128.FromBig shifts its argument in place.
		return Int128{uint128.FromBig(new(big.Int).Set(b))}, true
	}

	abs := uint128.FromBig(new(big.Int).Neg(b))

	return Int128{uint128.Zero.SubWrap(abs)}, true
}

// Big returns x as a *big.Int.
func (x Int128) Big() *big.Int {
	if x.negative() {
		return new(big.Int).Neg(x.neg().u.Big())
	}

	return x.u.Big()
}

func (x Int128) negative() bool { return x.u.Hi&signBit != 0 }

// neg returns -x with wraparound; -MinInt128 is MinInt128.
func (x Int128) neg() Int128 { return Int128{uint128.Zero.SubWrap(x.u)} }

// Sign returns -1, 0 or +1.
func (x Int128) Sign() int {
	switch {
	case x.negative():
		return -1
	case x.u.IsZero():
		return 0
	default:
		return 1
	}
}

// Cmp returns -1, 0 or +1 as x is less than, equal to or greater than y.
func (x Int128) Cmp(y Int128) int {
	flip := uint128.New(0, signBit)

	return x.u.Xor(flip).Cmp(y.u.Xor(flip))
}

// Int64 returns x as an int64 and whether it fits.
func (x Int128) Int64() (int64, bool) {
	v := int64(x.u.Lo)

	if v < 0 {
		return v, x.u.Hi == math.MaxUint64
	}

	return v, x.u.Hi == 0
}

// Float64 returns the float64 nearest to x.
func (x Int128) Float64() float64 {
	if v, ok := x.Int64(); ok {
		return float64(v)
	}

	f, _ := new(big.Float).SetInt(x.Big()).Float64()

	return f
}

// Add returns x+y and false on overflow.
func (x Int128) Add(y Int128) (Int128, bool) {
	z := Int128{x.u.AddWrap(y.u)}

	if x.negative() == y.negative() && z.negative() != x.negative() {
		return Int128{}, false
	}

	return z, true
}

// Sub returns x-y and false on overflow.
func (x Int128) Sub(y Int128) (Int128, bool) {
	z := Int128{x.u.SubWrap(y.u)}

	if x.negative() != y.negative() && z.negative() != x.negative() {
		return Int128{}, false
	}

	return z, true
}

// Mul returns x*y and false on overflow.
func (x Int128) Mul(y Int128) (Int128, bool) {
	if a, ok := x.Int64(); ok {
		if b, ok := y.Int64(); ok {
			if v, ok := mul64(a, b); ok {
				return NewInt128(v), true
			}
		}
	}

	return Int128FromBig(new(big.Int).Mul(x.Big(), y.Big()))
}

// mul64 returns a*b and whether it fit in an int64.
func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	c := a * b
	if c/b != a || (b == -1 && a == math.MinInt64) {
		return 0, false
	}

	return c, true
}

// Rem returns the remainder of x/y truncated toward zero, so the result has
// the sign of x. It reports false if y is zero.
func (x Int128) Rem(y Int128) (Int128, bool) {
	if y.u.IsZero() {
		return Int128{}, false
	}

	z, _ := Int128FromBig(new(big.Int).Rem(x.Big(), y.Big()))

	return z, true
}

// Pow returns x raised to the non-negative power e and false on overflow.
func (x Int128) Pow(e Int128) (Int128, bool) {
	if e.negative() {
		return Int128{}, false
	}

	one := NewInt128(1)

	switch {
	case e.u.IsZero():
		return one, true
	case x.u.IsZero(), x.Cmp(one) == 0:
		return x, true
	case x.Cmp(NewInt128(-1)) == 0:
		if e.u.Lo&1 == 0 {
			return one, true
		}

		return x, true
	}

	// |x| >= 2, so any exponent of 128 or more overflows.
	if e.u.Hi != 0 || e.u.Lo >= 128 {
		return Int128{}, false
	}

	result, base := one, x

	for n := e.u.Lo; ; {
		var ok bool

		if n&1 != 0 {
			if result, ok = result.Mul(base); !ok {
				return Int128{}, false
			}
		}

		if n >>= 1; n == 0 {
			return result, true
		}

		if base, ok = base.Mul(base); !ok {
			return Int128{}, false
		}
	}
}

// String returns the decimal representation of x.
func (x Int128) String() string {
	if x.negative() {
		return "-" + x.neg().u.String()
	}

	return x.u.String()
}
