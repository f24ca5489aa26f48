// Package currency fetches exchange rates and formats converted amounts.
package currency

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// Base is the currency all amounts are entered in.
const Base = "USD"

// DefaultEndpoint serves the latest USD-based rates.
const DefaultEndpoint = "https://api.exchangerate-api.com/v4/latest/USD"

// Supported lists the display currencies.
var Supported = []string{"USD", "EUR", "MXN"}

// Rates maps currency codes to units per one unit of Base.
type Rates struct {
	Base      string             `json:"base"`
	Values    map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
	Live      bool               `json:"live"`
}

// DefaultRates returns identity rates used when no live rates are available.
func DefaultRates() Rates {
	return Rates{
		Base:   Base,
		Values: map[string]float64{"USD": 1, "EUR": 1, "MXN": 1},
	}
}

// Rate returns the rate for code. Missing, non-positive or non-finite rates count as 1.
func (r Rates) Rate(code string) float64 {
	v, ok := r.Values[strings.ToUpper(code)]
	if !ok || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	return v
}

// Provider returns exchange rates.
type Provider interface {
	Rates(ctx context.Context) (Rates, error)
}

// ValidateCode checks that code is a supported display currency.
func ValidateCode(code string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Supported {
		if c == upper {
			return upper, nil
		}
	}
	return "", fmt.Errorf("unsupported currency %q (want one of %s)", code, strings.Join(Supported, ", "))
}

// Symbol returns the display symbol for code.
func Symbol(code string) string {
	switch strings.ToUpper(code) {
	case "EUR":
		return "€"
	case "USD", "MXN":
		return "$"
	default:
		return "$"
	}
}
