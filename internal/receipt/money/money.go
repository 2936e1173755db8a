// Package money provides currency-precision arithmetic for receipt math.
//
// All operations take and return float64 (the representation used across the
// API and storage layers) but compute on decimals internally, rounding to two
// decimal places after each operation so binary floating-point error never
// accumulates across a chain of calculations.
package money

import "github.com/shopspring/decimal"

// Round rounds v to currency precision (2 decimal places).
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Add returns a + b at currency precision.
func Add(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// Sub returns a - b at currency precision.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// Mul returns a * b at currency precision.
func Mul(a, b float64) float64 {
	return decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// Div returns a / b at currency precision. Returns 0 when b is 0.
func Div(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return decimal.NewFromFloat(a).Div(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// Distribute splits total into n parts that sum exactly to total, with each
// part within one cent of total/n. Remainder cents go to the first parts, so
// the output is deterministic for a given input. Works for negative totals
// (remainder cents are then subtracted from the first parts). Returns nil
// when n <= 0.
func Distribute(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	cents := decimal.NewFromFloat(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	base := cents / int64(n)
	rem := cents - base*int64(n)

	step := int64(1)
	if rem < 0 {
		step = -1
		rem = -rem
	}

	parts := make([]float64, n)
	for i := range parts {
		c := base
		if int64(i) < rem {
			c += step
		}
		parts[i] = decimal.New(c, -2).InexactFloat64()
	}
	return parts
}
