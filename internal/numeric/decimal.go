// Package numeric provides the fixed-point decimal helpers used by the
// pricing engine and aggregator. Amounts are exact integers or
// arbitrary-precision decimals; floating point is never used for money.
package numeric

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Pool price ratios span ~10^36 once decimal-adjusted; the library default
	// of 16 digits loses small prices entirely.
	if decimal.DivisionPrecision < 38 {
		decimal.DivisionPrecision = 38
	}
}

var (
	Zero = decimal.Zero
	One  = decimal.New(1, 0)
)

// ExponentToBigDecimal returns 10^decimals as an exact decimal. The divisor is
// built from its string form so no binary floating-point error can creep in;
// exact for at least decimals <= 18.
func ExponentToBigDecimal(decimals int32) decimal.Decimal {
	if decimals <= 0 {
		return One
	}
	d, err := decimal.NewFromString("1" + strings.Repeat("0", int(decimals)))
	if err != nil {
		// Unreachable for non-negative counts; keep the function total.
		return One
	}
	return d
}

// SafeDiv returns a / b, or zero when b is exactly zero. Division by zero must
// not propagate into aggregate state, so this is a total function.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// ConvertTokenToDecimal scales a raw integer token amount to a human-scale
// decimal using the token's declared decimal count. A zero decimal count
// returns the raw amount unscaled.
func ConvertTokenToDecimal(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	amount := decimal.NewFromBigInt(raw, 0)
	if decimals == 0 {
		return amount
	}
	return SafeDiv(amount, ExponentToBigDecimal(decimals))
}
