// Package fixedpoint implements overflow-checked unsigned fixed-point
// arithmetic for pool amounts.
//
// A Fixed carries 128 integer bits and 64 fractional bits in a 256-bit word,
// so the product of any two uint64 quantities is representable without loss.
// Operations never wrap or saturate: anything that leaves the representable
// range, or divides by zero, returns ErrOverflow.
package fixedpoint

import (
	"errors"
	"math"

	"github.com/holiman/uint256"
)

const fracBits = 64

// ErrOverflow reports an arithmetic result outside the representable range
// or a division by zero.
var ErrOverflow = errors.New("math overflow")

var (
	// raw values must stay strictly below 2^192
	rawLimit = new(uint256.Int).Lsh(uint256.NewInt(1), 128+fracBits)
	fracMask = uint256.NewInt(math.MaxUint64)
	intMask  = new(uint256.Int).Not(fracMask)
)

// Fixed is an unsigned 128.64 fixed-point number. The zero value is 0.
type Fixed struct {
	raw uint256.Int
}

// FromUint64 converts an integer quantity to Fixed. It cannot fail.
func FromUint64(v uint64) Fixed {
	var f Fixed
	f.raw.SetUint64(v)
	f.raw.Lsh(&f.raw, fracBits)
	return f
}

func fromRaw(raw *uint256.Int) (Fixed, error) {
	if !raw.Lt(rawLimit) {
		return Fixed{}, ErrOverflow
	}
	return Fixed{raw: *raw}, nil
}

// IsZero reports whether f == 0.
func (f Fixed) IsZero() bool {
	return f.raw.IsZero()
}

// Cmp compares f and g and returns -1, 0 or +1.
func (f Fixed) Cmp(g Fixed) int {
	return f.raw.Cmp(&g.raw)
}

// Add returns f + g.
func (f Fixed) Add(g Fixed) (Fixed, error) {
	var z uint256.Int
	if _, overflow := z.AddOverflow(&f.raw, &g.raw); overflow {
		return Fixed{}, ErrOverflow
	}
	return fromRaw(&z)
}

// Sub returns f - g. A negative result is an overflow.
func (f Fixed) Sub(g Fixed) (Fixed, error) {
	var z uint256.Int
	if _, underflow := z.SubOverflow(&f.raw, &g.raw); underflow {
		return Fixed{}, ErrOverflow
	}
	return Fixed{raw: z}, nil
}

// Mul returns f * g, truncated at the last fractional bit.
func (f Fixed) Mul(g Fixed) (Fixed, error) {
	var z uint256.Int
	if _, overflow := z.MulOverflow(&f.raw, &g.raw); overflow {
		return Fixed{}, ErrOverflow
	}
	z.Rsh(&z, fracBits)
	return fromRaw(&z)
}

// Div returns f / g, truncated at the last fractional bit.
func (f Fixed) Div(g Fixed) (Fixed, error) {
	if g.raw.IsZero() {
		return Fixed{}, ErrOverflow
	}
	// f.raw < 2^192, so the shift stays inside 256 bits.
	var z uint256.Int
	z.Lsh(&f.raw, fracBits)
	z.Div(&z, &g.raw)
	return fromRaw(&z)
}

// Sqrt returns the square root of f rounded down to the last fractional bit.
// raw < 2^192, so the root's integer part stays below 2^64.
func (f Fixed) Sqrt() Fixed {
	var n, z uint256.Int
	n.Lsh(&f.raw, fracBits)
	z.Sqrt(&n)
	return Fixed{raw: z}
}

// Floor drops the fractional part.
func (f Fixed) Floor() Fixed {
	var z uint256.Int
	z.And(&f.raw, intMask)
	return Fixed{raw: z}
}

// ToUint64 truncates f to an integer quantity. It fails when the integer part
// does not fit in 64 bits.
func (f Fixed) ToUint64() (uint64, error) {
	var z uint256.Int
	z.Rsh(&f.raw, fracBits)
	if !z.IsUint64() {
		return 0, ErrOverflow
	}
	return z.Uint64(), nil
}
