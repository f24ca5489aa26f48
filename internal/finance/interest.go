package finance

import (
	"fmt"
	"math"
)

// InterestResult holds the interest earned and the resulting total.
type InterestResult struct {
	Interest float64
	Total    float64
}

// SimpleInterest returns principal*rate*time and the total with principal.
func SimpleInterest(principal, rate, time float64) (InterestResult, error) {
	if err := requireAllFinite(named{"principal", principal}, named{"rate", rate}, named{"time", time}); err != nil {
		return InterestResult{}, err
	}
	interest := principal * rate * time
	if err := requireFiniteResult(interest, principal+interest); err != nil {
		return InterestResult{}, err
	}
	return InterestResult{Interest: interest, Total: principal + interest}, nil
}

// CompoundInterest compounds rate compoundsPerPeriod times per period over time periods.
func CompoundInterest(principal, rate float64, compoundsPerPeriod int, time float64) (InterestResult, error) {
	if err := requireAllFinite(named{"principal", principal}, named{"rate", rate}, named{"time", time}); err != nil {
		return InterestResult{}, err
	}
	if compoundsPerPeriod <= 0 {
		return InterestResult{}, invalidf("compounds per period must be > 0")
	}
	n := float64(compoundsPerPeriod)
	total := principal * math.Pow(1+rate/n, n*time)
	if err := requireFiniteResult(total, total-principal); err != nil {
		return InterestResult{}, err
	}
	return InterestResult{Interest: total - principal, Total: total}, nil
}

// InvestmentTotal returns the value of principal growing at rate for time periods.
// It may overflow to +Inf; CompareInvestments rejects such totals.
func InvestmentTotal(principal, rate, time float64) float64 {
	return principal * math.Pow(1+rate, time)
}

// Scenario is one investment alternative.
type Scenario struct {
	Name      string
	Principal float64
	Rate      float64
	Time      float64
}

// ScenarioResult is the projected outcome of a Scenario.
type ScenarioResult struct {
	Scenario Scenario
	Total    float64
	Gain     float64
}

// CompareInvestments projects each scenario independently.
func CompareInvestments(scenarios []Scenario) ([]ScenarioResult, error) {
	if len(scenarios) == 0 {
		return nil, invalidf("at least one scenario is required")
	}
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		if err := requireAllFinite(named{"principal", sc.Principal}, named{"rate", sc.Rate}, named{"time", sc.Time}); err != nil {
			return nil, err
		}
		total := InvestmentTotal(sc.Principal, sc.Rate, sc.Time)
		if err := requireFiniteResult(total, total-sc.Principal); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		results = append(results, ScenarioResult{Scenario: sc, Total: total, Gain: total - sc.Principal})
	}
	return results, nil
}
