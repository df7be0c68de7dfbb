package currency

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount int64
		cur    Currency
		want   string
	}{
		{name: "inr thousands", amount: 45000, cur: INR, want: "₹45,000"},
		{name: "inr small", amount: 999, cur: INR, want: "₹999"},
		{name: "inr zero", amount: 0, cur: INR, want: "₹0"},
		{name: "inr lakh", amount: 123456, cur: INR, want: "₹1,23,456"},
		{name: "inr ten lakh", amount: 1234567, cur: INR, want: "₹12,34,567"},
		{name: "inr crore", amount: 100000000, cur: INR, want: "₹10,00,00,000"},
		{name: "inr negative", amount: -1500, cur: INR, want: "-₹1,500"},
		{name: "default currency is inr", amount: 2360, cur: "", want: "₹2,360"},
		{name: "usd small", amount: 45, cur: USD, want: "$45.00"},
		{name: "usd thousands", amount: 1234567, cur: USD, want: "$1,234,567.00"},
		{name: "usd negative", amount: -2, cur: USD, want: "-$2.00"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatPrice(tt.amount, tt.cur))
		})
	}
}

func TestFormatDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount string
		cur    Currency
		want   string
	}{
		{name: "usd cents", amount: "1234.5", cur: USD, want: "$1,234.50"},
		{name: "usd rounds half away from zero", amount: "0.125", cur: USD, want: "$0.13"},
		{name: "inr rounds to whole rupees", amount: "44999.5", cur: INR, want: "₹45,000"},
		{name: "inr rounds down", amount: "1000.49", cur: INR, want: "₹1,000"},
		{name: "negative rounding to zero has no sign", amount: "-0.4", cur: INR, want: "₹0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatDecimal(d, tt.cur))
		})
	}
}

func TestConvertUSDToINR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		usd  float64
		want int64
	}{
		{usd: 50, want: 4150},
		{usd: 0, want: 0},
		{usd: 1.5, want: 125},
		{usd: 19.99, want: 1659},
		{usd: -0.5, want: -41},
		{usd: -1.5, want: -124},
		{usd: -2, want: -166},
		{usd: math.NaN(), want: 0},
		{usd: math.Inf(1), want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ConvertUSDToINR(tt.usd), "usd=%v", tt.usd)
	}
}

func TestParseCurrency(t *testing.T) {
	t.Parallel()

	cur, err := ParseCurrency("usd")
	require.NoError(t, err)
	assert.Equal(t, USD, cur)

	cur, err = ParseCurrency("")
	require.NoError(t, err)
	assert.Equal(t, INR, cur)

	_, err = ParseCurrency("EUR")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestPriceRanges(t *testing.T) {
	t.Parallel()

	under, ok := RangeByValue(ProductPriceRanges, "under-2000")
	require.True(t, ok)
	assert.True(t, under.Contains(1999))
	assert.False(t, under.Contains(2000))

	over, ok := RangeByValue(ProductPriceRanges, "over-8000")
	require.True(t, ok)
	assert.True(t, over.Contains(8000))
	assert.True(t, over.Contains(math.MaxInt64))

	_, ok = RangeByValue(CoursePriceRanges, "2000-4000")
	assert.False(t, ok)

	for _, amount := range []int64{0, 1999, 2000, 4000, 7999, 8000, 50000} {
		hits := 0
		for _, r := range ProductPriceRanges {
			if r.Contains(amount) {
				hits++
			}
		}
		assert.Equal(t, 1, hits, "amount %d must land in exactly one bucket", amount)
	}
}
