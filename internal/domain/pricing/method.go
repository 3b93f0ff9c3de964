package pricing

import (
	"github.com/shopspring/decimal"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/types"
)

// Method selects how a product's sale price is derived from its cost.
type Method string

const (
	// MethodMarkup derives price as cost × (1 + value/100).
	MethodMarkup Method = "markup"

	// MethodPrice uses the value directly as the price.
	MethodPrice Method = "price"

	// MethodProfit derives price as cost + value.
	MethodProfit Method = "profit"

	// MethodMargin derives price as cost / (1 − value/100).
	MethodMargin Method = "margin"
)

// maxMarginValue is the upper bound for the margin method's percentage.
// A margin of 100% or more has no finite price; the engine guards it to a
// zero price rather than dividing by zero.
var maxMarginValue = decimal.NewFromFloat(99.99)

// ParseMethod converts a string to a Method, rejecting unknown values.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", apperror.NewUnsupportedMethod(s)
	}
	return m, nil
}

// Valid reports whether the method is in the enumerated set.
func (m Method) Valid() bool {
	switch m {
	case MethodMarkup, MethodPrice, MethodProfit, MethodMargin:
		return true
	}
	return false
}

// PriceFromMethod computes the sale price for the chosen method.
//
// value means: markup percentage, absolute price, absolute profit, or margin
// percentage depending on the method. Margin values of 100 or more resolve
// to a zero price; negative margin values are clamped to 0. The result keeps
// full precision so ValueFromMethod can invert it exactly; callers round
// when writing figures out.
func PriceFromMethod(method Method, value, cost types.Money) (types.Money, error) {
	switch method {
	case MethodMarkup:
		return cost.Mul(decimal.NewFromInt(1).Add(types.FromPercent(value))), nil

	case MethodPrice:
		return value, nil

	case MethodProfit:
		return cost.Add(value), nil

	case MethodMargin:
		if value.GreaterThanOrEqual(types.Hundred()) {
			return decimal.Zero, nil
		}
		v := clampMarginValue(value)
		denom := decimal.NewFromInt(1).Sub(types.FromPercent(v))
		return cost.Div(denom), nil

	default:
		return decimal.Zero, apperror.NewUnsupportedMethod(string(method))
	}
}

// ValueFromMethod inverts PriceFromMethod: given the target price and cost,
// it recovers the method's value. For each method and value in its valid
// domain, ValueFromMethod(m, PriceFromMethod(m, v, cost), cost) equals v
// within rounding tolerance. The margin method is not invertible at v ≥ 100.
func ValueFromMethod(method Method, price, cost types.Money) (types.Money, error) {
	switch method {
	case MethodMarkup:
		if !cost.IsPositive() {
			return decimal.Zero, nil
		}
		return types.RoundPercent(types.ToPercent(price.Sub(cost).Div(cost))), nil

	case MethodPrice:
		return types.RoundMoney(price), nil

	case MethodProfit:
		return types.RoundMoney(price.Sub(cost)), nil

	case MethodMargin:
		if !price.IsPositive() {
			return decimal.Zero, nil
		}
		return types.RoundPercent(types.ToPercent(price.Sub(cost).Div(price))), nil

	default:
		return decimal.Zero, apperror.NewUnsupportedMethod(string(method))
	}
}

// Metrics are the three profit figures derived from a price/cost pair.
type Metrics struct {
	// Profit is price − cost.
	Profit types.Money

	// Margin is profit as a percentage of price.
	Margin types.Percent

	// Markup is profit as a percentage of cost.
	Markup types.Percent
}

// MetricsFromPrice computes profit, margin, and markup for a price/cost
// pair. Zero price or cost resolve the corresponding percentage to 0 instead
// of dividing by zero. All outputs are rounded to 2 decimal places.
func MetricsFromPrice(price, cost types.Money) Metrics {
	profit := price.Sub(cost)

	margin := decimal.Zero
	if price.IsPositive() {
		margin = types.ToPercent(profit.Div(price))
	}

	markup := decimal.Zero
	if cost.IsPositive() {
		markup = types.ToPercent(profit.Div(cost))
	}

	return Metrics{
		Profit: types.RoundMoney(profit),
		Margin: types.RoundPercent(margin),
		Markup: types.RoundPercent(markup),
	}
}

// CostRatio returns cost as a percentage of price (the share of the sale
// price eaten by costs), 0 when the price is zero.
func CostRatio(price, cost types.Money) types.Percent {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return types.RoundPercent(types.ToPercent(cost.Div(price)))
}

// clampMarginValue bounds a margin percentage to [0, 99.99].
func clampMarginValue(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(maxMarginValue) {
		return maxMarginValue
	}
	return v
}
