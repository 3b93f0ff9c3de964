package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecraft/internal/core/apperror"
)

func TestPriceFromMethod_Markup(t *testing.T) {
	price, err := PriceFromMethod(MethodMarkup, dec("50"), dec("10"))
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("15")), "price = %s", price)
}

func TestPriceFromMethod_Price(t *testing.T) {
	price, err := PriceFromMethod(MethodPrice, dec("24.99"), dec("10"))
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("24.99")))
}

func TestPriceFromMethod_Profit(t *testing.T) {
	price, err := PriceFromMethod(MethodProfit, dec("5"), dec("10"))
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("15")))
}

func TestPriceFromMethod_Margin(t *testing.T) {
	// 20% margin on cost 80 -> price 100.
	price, err := PriceFromMethod(MethodMargin, dec("20"), dec("80"))
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("100")), "price = %s", price)
}

func TestPriceFromMethod_MarginBoundary(t *testing.T) {
	for _, v := range []string{"100", "150", "100.01"} {
		price, err := PriceFromMethod(MethodMargin, dec(v), dec("80"))
		require.NoError(t, err)
		assert.True(t, price.IsZero(), "margin %s: price = %s", v, price)
	}
}

func TestPriceFromMethod_NegativeMarginClampedToZero(t *testing.T) {
	price, err := PriceFromMethod(MethodMargin, dec("-10"), dec("80"))
	require.NoError(t, err)
	// Clamped to 0% margin: price equals cost.
	assert.True(t, price.Equal(dec("80")), "price = %s", price)
}

func TestPriceFromMethod_UnknownMethod(t *testing.T) {
	_, err := PriceFromMethod(Method("discount"), dec("10"), dec("5"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnsupportedMethod, appErr.Code)
}

func TestValueFromMethod_ZeroGuards(t *testing.T) {
	// markup inverse with zero cost -> 0
	v, err := ValueFromMethod(MethodMarkup, dec("15"), dec("0"))
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	// margin inverse with zero price -> 0
	v, err = ValueFromMethod(MethodMargin, dec("0"), dec("10"))
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestValueFromMethod_Margin(t *testing.T) {
	v, err := ValueFromMethod(MethodMargin, dec("100"), dec("80"))
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("20")), "value = %s", v)
}

func TestRoundTripLaw(t *testing.T) {
	tolerance := dec("0.01")
	costs := []string{"0.5", "1", "10", "33.33", "80", "1250"}

	domains := map[Method][]string{
		MethodMarkup: {"0", "10", "25", "50", "100", "250"},
		MethodPrice:  {"0.99", "5", "19.95", "100"},
		MethodProfit: {"0", "1.5", "5", "40"},
		MethodMargin: {"0", "10", "20", "33.33", "50", "75", "99"},
	}

	for method, values := range domains {
		for _, c := range costs {
			for _, v := range values {
				cost, value := dec(c), dec(v)

				price, err := PriceFromMethod(method, value, cost)
				require.NoError(t, err)

				back, err := ValueFromMethod(method, price, cost)
				require.NoError(t, err)

				diff := back.Sub(value).Abs()
				assert.True(t, diff.LessThanOrEqual(tolerance),
					"%s cost=%s value=%s price=%s back=%s", method, c, v, price, back)
			}
		}
	}
}

func TestMetricsFromPrice(t *testing.T) {
	m := MetricsFromPrice(dec("15"), dec("10"))

	assert.True(t, m.Profit.Equal(dec("5")), "profit = %s", m.Profit)
	assert.True(t, m.Margin.Equal(dec("33.33")), "margin = %s", m.Margin)
	assert.True(t, m.Markup.Equal(dec("50")), "markup = %s", m.Markup)
}

func TestMetricsFromPrice_ZeroGuards(t *testing.T) {
	m := MetricsFromPrice(dec("0"), dec("0"))
	assert.True(t, m.Profit.IsZero())
	assert.True(t, m.Margin.IsZero())
	assert.True(t, m.Markup.IsZero())

	// Free product with a cost: profit negative, margin guarded to 0.
	m = MetricsFromPrice(dec("0"), dec("4"))
	assert.True(t, m.Profit.Equal(dec("-4")))
	assert.True(t, m.Margin.IsZero())
	assert.True(t, m.Markup.Equal(dec("-100")))
}

func TestCostRatio(t *testing.T) {
	assert.True(t, CostRatio(dec("20"), dec("5")).Equal(dec("25")))
	assert.True(t, CostRatio(dec("0"), dec("5")).IsZero())
}

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"markup", "price", "profit", "margin"} {
		m, err := ParseMethod(s)
		require.NoError(t, err)
		assert.True(t, m.Valid())
	}

	_, err := ParseMethod("fixed")
	require.Error(t, err)
}

func TestPriceFromMethod_KeepsFullPrecision(t *testing.T) {
	// Sub-cent results stay exact; rounding to money happens only when
	// the figures are written onto a product or quote.
	price, err := PriceFromMethod(MethodMargin, dec("20"), dec("0.5"))
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("0.625")), "price = %s", price)
}

func TestValueFromMethod_ExactOnSmallCosts(t *testing.T) {
	// Percentage methods on sub-dollar costs recover the original value
	// exactly: a half-cent of price rounding would already be a full
	// percentage point at cost 0.5.
	for _, tc := range []struct {
		method Method
		value  string
	}{
		{MethodMarkup, "25"},
		{MethodMargin, "10"},
		{MethodMargin, "20"},
	} {
		price, err := PriceFromMethod(tc.method, dec(tc.value), dec("0.5"))
		require.NoError(t, err)

		back, err := ValueFromMethod(tc.method, price, dec("0.5"))
		require.NoError(t, err)
		assert.True(t, back.Equal(dec(tc.value)),
			"%s value=%s back=%s", tc.method, tc.value, back)
	}
}

func TestPriceFromMethod_Deterministic(t *testing.T) {
	a, err := PriceFromMethod(MethodMargin, dec("37.5"), dec("12.34"))
	require.NoError(t, err)
	b, err := PriceFromMethod(MethodMargin, dec("37.5"), dec("12.34"))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}
