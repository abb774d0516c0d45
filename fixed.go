package wad

import "golang.org/x/exp/constraints"

// Fixed is DOOM's 16.16 fixed point number. All map coordinates and heights are
// held as Fixed so BSP and collision arithmetic matches the original engine.
type Fixed int32

const (
	FracBits = 16
	FracUnit = Fixed(1 << FracBits)
)

// IntToFixed converts whole map units to Fixed.
func IntToFixed[T constraints.Integer](n T) Fixed {
	return Fixed(n) << FracBits
}

// FloatToFixed converts fractional map units to Fixed, truncating.
func FloatToFixed(f float64) Fixed {
	return Fixed(f * float64(FracUnit))
}

// FixedMul multiplies two 16.16 numbers.
func FixedMul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> FracBits)
}

// Int returns the whole map units, rounding towards negative infinity.
func (f Fixed) Int() int {
	return int(f >> FracBits)
}

// Float returns f in map units.
func (f Fixed) Float() float64 {
	return float64(f) / float64(FracUnit)
}

func abs[T constraints.Signed](n T) T {
	if n < 0 {
		return -n
	}
	return n
}
