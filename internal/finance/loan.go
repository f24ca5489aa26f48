package finance

import "math"

// LoanTerms describes a level-payment loan.
type LoanTerms struct {
	Principal    float64
	PeriodicRate float64
	NumPeriods   int
}

// Validate checks principal > 0, rate >= 0 and at least one period.
func (t LoanTerms) Validate() error {
	if err := requireAllFinite(named{"principal", t.Principal}, named{"rate", t.PeriodicRate}); err != nil {
		return err
	}
	if t.Principal <= 0 {
		return invalidf("principal must be > 0")
	}
	if t.PeriodicRate < 0 {
		return invalidf("rate must be >= 0")
	}
	if t.NumPeriods < 1 {
		return invalidf("number of periods must be >= 1")
	}
	return nil
}

// Payment returns the level payment for the terms.
func (t LoanTerms) Payment() (float64, error) {
	return LevelPayment(t.Principal, t.PeriodicRate, t.NumPeriods)
}

// Schedule returns the full amortization schedule at the level payment.
func (t LoanTerms) Schedule() (Schedule, error) {
	payment, err := t.Payment()
	if err != nil {
		return Schedule{}, err
	}
	return AmortizationSchedule(t.Principal, t.PeriodicRate, t.NumPeriods, payment)
}

// LevelPayment returns the constant per-period payment that retires principal.
func LevelPayment(principal, periodicRate float64, numPeriods int) (float64, error) {
	terms := LoanTerms{Principal: principal, PeriodicRate: periodicRate, NumPeriods: numPeriods}
	if err := terms.Validate(); err != nil {
		return 0, err
	}
	n := float64(numPeriods)
	if periodicRate == 0 {
		return principal / n, nil
	}
	growth := math.Pow(1+periodicRate, n)
	payment := principal * periodicRate * growth / (growth - 1)
	if !isFinite(payment) {
		return 0, invalidf("payment is not a finite number")
	}
	return payment, nil
}

// AmortizationRow is one period of a schedule.
type AmortizationRow struct {
	Period           int
	Payment          float64
	Interest         float64
	Principal        float64
	RemainingBalance float64
}

// Schedule is an amortization table plus the unclamped final balance.
type Schedule struct {
	Rows     []AmortizationRow
	Residual float64
}

// TotalPaid sums the payments of every row.
func (s Schedule) TotalPaid() float64 {
	total := 0.0
	for _, row := range s.Rows {
		total += row.Payment
	}
	return total
}

// TotalInterest sums the interest of every row.
func (s Schedule) TotalInterest() float64 {
	total := 0.0
	for _, row := range s.Rows {
		total += row.Interest
	}
	return total
}

// AmortizationSchedule splits each payment into interest and principal.
// Reported balances never go below zero; the running balance is not clamped.
func AmortizationSchedule(principal, periodicRate float64, numPeriods int, payment float64) (Schedule, error) {
	terms := LoanTerms{Principal: principal, PeriodicRate: periodicRate, NumPeriods: numPeriods}
	if err := terms.Validate(); err != nil {
		return Schedule{}, err
	}
	if err := requireFinite("payment", payment); err != nil {
		return Schedule{}, err
	}
	rows := make([]AmortizationRow, 0, numPeriods)
	balance := principal
	for i := 1; i <= numPeriods; i++ {
		interest := balance * periodicRate
		principalPaid := payment - interest
		balance -= principalPaid
		rows = append(rows, AmortizationRow{
			Period:           i,
			Payment:          payment,
			Interest:         interest,
			Principal:        principalPaid,
			RemainingBalance: math.Max(0, balance),
		})
	}
	return Schedule{Rows: rows, Residual: balance}, nil
}

// Affordability is the outcome of a mortgage affordability check.
type Affordability struct {
	MonthlyPayment float64
	MaxPayment     float64
	Affordable     bool
	Months         int
	TotalPaid      float64
	TotalInterest  float64
}

// MortgageAffordability compares the monthly payment on a mortgage with the
// share of monthly income allowed for housing. maxFraction is a fraction of
// income (0.28 for 28%).
func MortgageAffordability(principal, annualRate, termYears, monthlyIncome, maxFraction float64) (Affordability, error) {
	if err := requireAllFinite(named{"term", termYears}, named{"income", monthlyIncome}, named{"max payment share", maxFraction}); err != nil {
		return Affordability{}, err
	}
	if monthlyIncome < 0 {
		return Affordability{}, invalidf("income must be >= 0")
	}
	if maxFraction < 0 || maxFraction > 1 {
		return Affordability{}, invalidf("max payment share must be between 0 and 1")
	}
	months := int(math.Round(termYears * 12))
	payment, err := LevelPayment(principal, annualRate/12, months)
	if err != nil {
		return Affordability{}, err
	}
	maxPayment := monthlyIncome * maxFraction
	total := payment * float64(months)
	if err := requireFiniteResult(maxPayment, total, total-principal); err != nil {
		return Affordability{}, err
	}
	return Affordability{
		MonthlyPayment: payment,
		MaxPayment:     maxPayment,
		Affordable:     payment <= maxPayment,
		Months:         months,
		TotalPaid:      total,
		TotalInterest:  total - principal,
	}, nil
}
