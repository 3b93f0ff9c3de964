// Package types provides shared numeric types for money and percentages.
package types

import (
	"github.com/shopspring/decimal"
)

// Money is a monetary amount with full decimal precision.
// All arithmetic happens at full precision; rounding is applied only
// at the output boundary via RoundMoney.
type Money = decimal.Decimal

// Percent is a percentage value (e.g. 33.33 for 33.33%).
type Percent = decimal.Decimal

const (
	moneyPlaces   = 2
	percentPlaces = 2
)

var hundred = decimal.NewFromInt(100)

// NewMoney creates Money from a float. Prefer NewMoneyFromString where the
// value originates as text (form input, config).
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString parses Money from its canonical string form.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney parses Money from a string, panicking on error. Constants and
// tests only.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns the zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Hundred returns the constant 100, used in percentage conversions.
func Hundred() decimal.Decimal {
	return hundred
}

// RoundMoney rounds a monetary amount to 2 decimal places (half up).
func RoundMoney(d Money) Money {
	return d.Round(moneyPlaces)
}

// RoundPercent rounds a percentage to 2 decimal places (half up).
func RoundPercent(d Percent) Percent {
	return d.Round(percentPlaces)
}

// FromPercent converts a percentage into its fractional multiplier,
// e.g. 50 -> 0.5.
func FromPercent(p Percent) decimal.Decimal {
	return p.Div(hundred)
}

// ToPercent converts a fraction into a percentage, e.g. 0.5 -> 50.
func ToPercent(frac decimal.Decimal) Percent {
	return frac.Mul(hundred)
}
