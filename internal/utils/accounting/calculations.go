package accounting

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultExponent returns the ISO minor-unit digits for a currency code as known to go-money.
func DefaultExponent(code string) (int32, bool) {
	c := money.GetCurrency(strings.ToUpper(code))
	if c == nil {
		return 0, false
	}
	return int32(c.Fraction), true
}

// IsMinorUnitPrecise reports whether amount carries no digits below the currency's minor unit.
func IsMinorUnitPrecise(amount decimal.Decimal, exponent int32) bool {
	return amount.Equal(amount.Round(exponent))
}

// RoundToMinor rounds half away from zero to the currency's minor unit.
func RoundToMinor(amount decimal.Decimal, exponent int32) decimal.Decimal {
	return amount.Round(exponent)
}

// SignedSum adds up signed line amounts.
func SignedSum(amounts []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum
}

// IsBalanced reports whether signed amounts cancel out exactly.
// Amounts are expected to be minor-unit precise already, so any residue is a real imbalance.
func IsBalanced(amounts []decimal.Decimal) bool {
	return SignedSum(amounts).IsZero()
}

// Format renders an amount with its currency for log lines, e.g. "€1,234.50".
func Format(amount decimal.Decimal, code string, exponent int32) string {
	if c := money.GetCurrency(strings.ToUpper(code)); c != nil && int32(c.Fraction) == exponent {
		minor := amount.Shift(exponent).Round(0).IntPart()
		return money.New(minor, c.Code).Display()
	}
	return amount.StringFixed(exponent) + " " + code
}
