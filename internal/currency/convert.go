package currency

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFinite is returned when an amount is NaN or infinite.
var ErrNotFinite = errors.New("amount is not a finite number")

// notFinite is what Format prints for amounts it cannot convert.
const notFinite = "n/a"

// Converter converts Base amounts into display currencies.
type Converter struct {
	rates Rates
}

// NewConverter wraps a rate table.
func NewConverter(rates Rates) *Converter {
	if rates.Values == nil {
		rates = DefaultRates()
	}
	return &Converter{rates: rates}
}

// Rates returns the rate table in use.
func (c *Converter) Rates() Rates {
	return c.rates
}

// Convert multiplies amount by the rate for code.
func (c *Converter) Convert(amount float64, code string) (decimal.Decimal, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero, ErrNotFinite
	}
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(c.rates.Rate(code))), nil
}

// Format converts amount and renders it with the currency symbol and two
// decimals. Amounts that are not finite render as "n/a".
func (c *Converter) Format(amount float64, code string) string {
	converted, err := c.Convert(amount, code)
	if err != nil {
		return notFinite
	}
	value := converted.Round(2)
	sign := ""
	if value.IsNegative() {
		sign = "-"
		value = value.Abs()
	}
	return sign + Symbol(code) + value.StringFixed(2)
}

// FormatList formats each amount and joins them with ", ".
func (c *Converter) FormatList(amounts []float64, code string) string {
	parts := make([]string, len(amounts))
	for i, a := range amounts {
		parts[i] = c.Format(a, code)
	}
	return strings.Join(parts, ", ")
}
