package currency

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

type Currency string

const (
	INR Currency = "INR"
	USD Currency = "USD"
)

// Fixed storefront rate. Not an exchange rate.
const usdToINR = 83

var ErrUnknownCurrency = errors.New("unknown currency")

func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(INR):
		return INR, nil
	case string(USD):
		return USD, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownCurrency)
	}
}

func (c Currency) Symbol() string {
	if c == USD {
		return "$"
	}
	return "₹"
}

// FormatPrice renders a whole amount the way the storefront displays it:
// rupees without fraction digits and en-IN grouping, dollars with two
// fraction digits. Negative amounts get a leading minus before the symbol.
func FormatPrice(amount int64, cur Currency) string {
	return FormatDecimal(decimal.NewFromInt(amount), cur)
}

func FormatDecimal(amount decimal.Decimal, cur Currency) string {
	if cur == USD {
		return formatUSD(amount)
	}
	return formatINR(amount)
}

func formatINR(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + INR.Symbol() + groupIndian(rounded.Abs().String())
}

func formatUSD(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	abs := rounded.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s%s%s.%02d", sign, USD.Symbol(), humanize.BigComma(whole.BigInt()), cents)
}

// groupIndian groups a plain digit string as en-IN does: the last three
// digits, then pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var b strings.Builder
	lead := len(head) % 2
	if lead > 0 {
		b.WriteString(head[:lead])
	}
	for i := lead; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}

// ConvertUSDToINR applies the fixed storefront rate and rounds halves up,
// toward positive infinity (-41.5 becomes -41). Non-finite input converts
// to 0.
func ConvertUSDToINR(usd float64) int64 {
	if math.IsNaN(usd) || math.IsInf(usd, 0) {
		return 0
	}
	return decimal.NewFromFloat(usd).
		Mul(decimal.NewFromInt(usdToINR)).
		Add(decimal.New(5, -1)).
		Floor().
		IntPart()
}
