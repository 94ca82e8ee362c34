package types

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to two decimal places. Core computations keep
// full precision; rounding happens only at output boundaries.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ClampNonNegative floors a monetary amount at zero.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
