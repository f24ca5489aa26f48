package currency

import (
	"context"

	"github.com/sirupsen/logrus"
)

// FallbackProvider returns DefaultRates whenever Source fails, so callers
// always get usable rates.
type FallbackProvider struct {
	Source Provider
	Log    logrus.FieldLogger
}

// Rates never returns an error.
func (p *FallbackProvider) Rates(ctx context.Context) (Rates, error) {
	if p.Source == nil {
		return DefaultRates(), nil
	}
	rates, err := p.Source.Rates(ctx)
	if err != nil {
		log := p.Log
		if log == nil {
			log = logrus.StandardLogger()
		}
		log.WithError(err).Warn("exchange rates unavailable, using 1:1 rates")
		return DefaultRates(), nil
	}
	return rates, nil
}

// StaticProvider always returns the same rates.
type StaticProvider struct {
	Value Rates
}

// Rates returns the fixed rates.
func (p StaticProvider) Rates(context.Context) (Rates, error) {
	return p.Value, nil
}
