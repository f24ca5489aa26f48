package finance

import "math"

const (
	irrLowerBound    = -0.99
	irrUpperBound    = 1.99
	irrMaxIterations = 100
	irrTolerance     = 1e-4
	irrBracketWidth  = 1e-12

	sensitivitySteps = 10
)

// ValidateCashFlows checks that a series is non-empty and fully finite.
func ValidateCashFlows(cashFlows []float64) error {
	if len(cashFlows) == 0 {
		return invalidf("cash flows must not be empty")
	}
	for i, cf := range cashFlows {
		if !isFinite(cf) {
			return invalidf("cash flow %d is not a finite number", i+1)
		}
	}
	return nil
}

// NPV discounts cashFlows[i-1] by (1+rate)^i for i = 1..n and sums them.
// A term that is not finite contributes zero. The sum itself can still
// overflow; callers that display it must check it.
func NPV(rate float64, cashFlows []float64) float64 {
	total := 0.0
	for i, cf := range cashFlows {
		term := cf / math.Pow(1+rate, float64(i+1))
		if !isFinite(term) {
			continue
		}
		total += term
	}
	return total
}

// IRR finds the rate at which NPV is zero by bisection over [-99%, 199%].
// It stops once |NPV| is below 1e-4 or the bracket collapses, and returns
// the rate in percent. ok is false when the series does not have
// both a negative and a positive flow, when NPV does not change sign over the
// bracket or when the iteration budget runs out. Series with several sign
// changes can have several roots; the one inside the converging half is
// returned.
func IRR(cashFlows []float64) (percent float64, ok bool) {
	if ValidateCashFlows(cashFlows) != nil {
		return 0, false
	}
	hasNegative, hasPositive := false, false
	for _, cf := range cashFlows {
		if cf < 0 {
			hasNegative = true
		}
		if cf > 0 {
			hasPositive = true
		}
	}
	if !hasNegative || !hasPositive {
		return 0, false
	}

	low, high := irrLowerBound, irrUpperBound
	npvLow := NPV(low, cashFlows)
	npvHigh := NPV(high, cashFlows)
	if math.Abs(npvLow) < irrTolerance {
		return low * 100, true
	}
	if math.Abs(npvHigh) < irrTolerance {
		return high * 100, true
	}
	if (npvLow < 0) == (npvHigh < 0) {
		return 0, false
	}

	for i := 0; i < irrMaxIterations; i++ {
		mid := (low + high) / 2
		npvMid := NPV(mid, cashFlows)
		if math.Abs(npvMid) < irrTolerance || high-low < irrBracketWidth {
			return mid * 100, true
		}
		if (npvMid < 0) == (npvLow < 0) {
			low, npvLow = mid, npvMid
		} else {
			high = mid
		}
	}
	return 0, false
}

// SensitivityResult pairs sampled rates (percent) with their NPVs.
type SensitivityResult struct {
	Rates []float64
	NPVs  []float64
}

// Sensitivity samples NPV at 11 evenly spaced rates from rateMinPct to
// rateMaxPct inclusive. Rates are given in percent.
func Sensitivity(cashFlows []float64, rateMinPct, rateMaxPct float64) (SensitivityResult, error) {
	if err := ValidateCashFlows(cashFlows); err != nil {
		return SensitivityResult{}, err
	}
	if err := requireAllFinite(named{"minimum rate", rateMinPct}, named{"maximum rate", rateMaxPct}); err != nil {
		return SensitivityResult{}, err
	}
	if rateMinPct >= rateMaxPct {
		return SensitivityResult{}, invalidf("minimum rate must be below maximum rate")
	}
	step := (rateMaxPct - rateMinPct) / sensitivitySteps
	result := SensitivityResult{
		Rates: make([]float64, 0, sensitivitySteps+1),
		NPVs:  make([]float64, 0, sensitivitySteps+1),
	}
	for i := 0; i <= sensitivitySteps; i++ {
		rate := rateMinPct + float64(i)*step
		if i == sensitivitySteps {
			rate = rateMaxPct
		}
		npv := NPV(rate/100, cashFlows)
		if err := requireFiniteResult(npv); err != nil {
			return SensitivityResult{}, err
		}
		result.Rates = append(result.Rates, rate)
		result.NPVs = append(result.NPVs, npv)
	}
	return result, nil
}
