package calc

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fincalc/internal/currency"
	"github.com/verte-zerg/fincalc/internal/finance"
	"github.com/verte-zerg/fincalc/internal/model"
)

var fixedTime = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestCalculator(rates currency.Rates) *Calculator {
	c := New(currency.NewConverter(rates), model.Config{})
	c.now = func() time.Time { return fixedTime }
	c.newID = func() string { return "rec-1" }
	return c
}

func identity() *Calculator {
	return newTestCalculator(currency.DefaultRates())
}

func lineValue(t *testing.T, res model.Result, label string) string {
	t.Helper()
	for _, line := range res.Lines {
		if line.Label == label {
			return line.Value
		}
	}
	t.Fatalf("line %q not found in %+v", label, res.Lines)
	return ""
}

func TestRunCompoundBuildsRecord(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindCompound, Amount: 1000, Rate: 5, Years: 10})
	require.NoError(t, err)

	assert.Equal(t, "$1628.89", lineValue(t, res, "Total"))
	assert.Equal(t, "$628.89", lineValue(t, res, "Interest"))
	assert.Equal(t, model.CalculationRecord{
		ID:        "rec-1",
		Kind:      model.KindCompound,
		Summary:   "Compound Interest: Amount=$1000.00, Rate=5.00%, Time=10 years, Total=$1628.89",
		Currency:  "USD",
		CreatedAt: fixedTime,
	}, res.Record)
	require.NotNil(t, res.Table)
	assert.Len(t, res.Table.Rows, 10)
	assert.Equal(t, []string{"10", "$1628.89", "$628.89"}, res.Table.Rows[9])
	require.NotNil(t, res.Chart)
	assert.Equal(t, model.ChartBar, res.Chart.Type)
}

func TestRunSimpleConvertsCurrency(t *testing.T) {
	c := newTestCalculator(currency.Rates{Base: "USD", Values: map[string]float64{"USD": 1, "EUR": 0.5}})
	res, err := c.Run(Input{Kind: model.KindSimple, Currency: "eur", Amount: 1000, Rate: 5, Years: 2})
	require.NoError(t, err)

	assert.Equal(t, "€550.00", lineValue(t, res, "Total"))
	assert.Equal(t, "EUR", res.Currency)
	assert.Equal(t, "Simple Interest: Amount=€500.00, Rate=5.00%, Time=2 years, Total=€550.00", res.Record.Summary)
}

func TestRunAmortizationZeroRate(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindAmortization, Amount: 12000, Rate: 0, Years: 1})
	require.NoError(t, err)

	assert.Equal(t, "$1000.00", lineValue(t, res, "Monthly Payment"))
	assert.Equal(t, "$0.00", lineValue(t, res, "Total Interest"))
	require.Len(t, res.Table.Rows, 12)
	assert.Equal(t, []string{"12", "$1000.00", "$0.00", "$1000.00", "$0.00"}, res.Table.Rows[11])
	require.Equal(t, model.ChartLine, res.Chart.Type)
	balances := res.Chart.Series[0].Values
	assert.Len(t, balances, 12)
	assert.Equal(t, 0.0, balances[11])
	assert.Equal(t, "Month 12", res.Chart.Labels[11])
}

func TestRunAmortizationMonthlyRate(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindAmortization, Amount: 200000, Rate: 5, Years: 30})
	require.NoError(t, err)
	assert.Equal(t, "$1073.64", lineValue(t, res, "Monthly Payment"))
	assert.Equal(t, "360", lineValue(t, res, "Months"))
	assert.True(t, strings.HasSuffix(res.Record.Summary, "Monthly Payment=$1073.64"))
}

func TestRunMortgageUsesDefaultCap(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindMortgage, Amount: 200000, Rate: 5, Years: 30, Income: 6000})
	require.NoError(t, err)
	assert.Equal(t, "$1073.64", lineValue(t, res, "Monthly Payment"))
	assert.Equal(t, "$1680.00", lineValue(t, res, "Max Payment (28.00% of income)"))
	assert.Equal(t, "yes", lineValue(t, res, "Affordable"))
}

func TestRunNPV(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindNPV, Rate: 10, CashFlows: []float64{-1000, 1100}})
	require.NoError(t, err)
	assert.Equal(t, "$0.00", lineValue(t, res, "NPV"))
	assert.Equal(t, "NPV: Flows=[-$1000.00, $1100.00], Rate=10.00%, NPV=$0.00", res.Record.Summary)
	assert.Equal(t, []string{"1", "-$1000.00", "-$909.09"}, res.Table.Rows[0])
	assert.Equal(t, []string{"Period 1", "Period 2"}, res.Chart.Labels)
}

func TestRunIRR(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindIRR, CashFlows: []float64{-1000, 1100}})
	require.NoError(t, err)
	assert.Equal(t, "10.00%", lineValue(t, res, "IRR"))
	assert.Equal(t, "IRR: Flows=[-$1000.00, $1100.00], IRR=10.00%", res.Record.Summary)
}

func TestRunIRRNoResult(t *testing.T) {
	_, err := identity().Run(Input{Kind: model.KindIRR, CashFlows: []float64{100, 200}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoIRR)
	assert.True(t, IsNoResult(err))
}

func TestRunSensitivity(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindSensitivity, CashFlows: []float64{-1000, 500, 600}, RateMin: 2, RateMax: 8})
	require.NoError(t, err)
	assert.Equal(t, "[2.00, 2.60, 3.20, 3.80, 4.40, 5.00, 5.60, 6.20, 6.80, 7.40, 8.00]%", lineValue(t, res, "Rates"))
	require.Len(t, res.Table.Rows, 11)
	assert.Equal(t, "8.00%", res.Table.Rows[10][0])
	assert.Equal(t, model.ChartLine, res.Chart.Type)
	assert.Len(t, res.Chart.Series[0].Values, 11)
	assert.True(t, strings.Contains(res.Record.Summary, "Range=[2,8]%"))
}

func TestRunSavings(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindSavings, Goal: 5000, Saved: 1000, Months: 8})
	require.NoError(t, err)
	assert.Equal(t, "$500.00", lineValue(t, res, "Monthly Savings"))
	values := res.Chart.Series[0].Values
	assert.InDelta(t, 5000, values[len(values)-1], 1e-9)
}

func TestRunBudget(t *testing.T) {
	res, err := identity().Run(Input{
		Kind:     model.KindBudget,
		Income:   1000,
		Expenses: finance.Expenses{Food: 200, Transport: 100, Utilities: 150, Other: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, "$500.00", lineValue(t, res, "Total Expenses"))
	assert.Equal(t, "$500.00", lineValue(t, res, "Savings"))
	assert.Equal(t, []string{"Food", "$200.00", "40.00%"}, res.Table.Rows[0])
	assert.Contains(t, res.Record.Summary, "Food=40.00%")
}

func TestRunBudgetWarnsWhenOverspent(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindBudget, Income: 100, Expenses: finance.Expenses{Food: 150}})
	require.NoError(t, err)
	assert.Equal(t, "expenses exceed income", lineValue(t, res, "Warning"))
	assert.Equal(t, "-$50.00", lineValue(t, res, "Savings"))
}

func TestRunInvest(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindInvest, Scenarios: []Scenario{
		{Name: "bonds", Principal: 1000, Rate: 3, Years: 10},
		{Name: "index", Principal: 1000, Rate: 7, Years: 10},
	}})
	require.NoError(t, err)
	assert.Equal(t, "index ($1967.15)", lineValue(t, res, "Best"))
	assert.Equal(t, "Investment Comparison: bonds=$1343.92, index=$1967.15", res.Record.Summary)
	assert.Equal(t, []string{"bonds", "index"}, res.Chart.Labels)
}

func TestRunEmergencyDefaultsMonths(t *testing.T) {
	res, err := identity().Run(Input{Kind: model.KindEmergency, MonthlyExpenses: 2000, Saved: 5000})
	require.NoError(t, err)
	assert.Equal(t, "$12000.00", lineValue(t, res, "Target"))
	assert.Equal(t, "$7000.00", lineValue(t, res, "Shortfall"))
	assert.Contains(t, res.Record.Summary, "Months=6")
}

func TestRunValidation(t *testing.T) {
	cases := map[string]Input{
		"zero amount":       {Kind: model.KindSimple, Amount: 0, Rate: 5, Years: 1},
		"negative rate":     {Kind: model.KindCompound, Amount: 100, Rate: -1, Years: 1},
		"no time":           {Kind: model.KindAmortization, Amount: 100, Rate: 5},
		"no cash flows":     {Kind: model.KindNPV, Rate: 5},
		"inverted range":    {Kind: model.KindSensitivity, CashFlows: []float64{-1, 2}, RateMin: 8, RateMax: 2},
		"goal below saved":  {Kind: model.KindSavings, Goal: 100, Saved: 200, Months: 2},
		"no income":         {Kind: model.KindBudget},
		"no scenarios":      {Kind: model.KindInvest},
		"bad mortgage cap":  {Kind: model.KindMortgage, Amount: 1, Rate: 1, Years: 1, Income: 1, MaxPaymentPct: 150},
		"unknown currency":  {Kind: model.KindSimple, Currency: "GBP", Amount: 100, Rate: 5, Years: 1},
		"unknown kind":      {Kind: "lottery"},
		"emergency nothing": {Kind: model.KindEmergency},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := identity().Run(in)
			assert.Error(t, err)
		})
	}
}

func TestNewFillsDefaults(t *testing.T) {
	c := New(nil, model.Config{Compounds: 12})
	d := c.Defaults()
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, 12, d.Compounds)
	assert.Equal(t, 28.0, d.MaxPaymentPct)
	assert.Equal(t, 6, d.EmergencyMonths)
	assert.NotNil(t, c.Converter())
}

func TestRunRejectsOverflowingResults(t *testing.T) {
	cases := map[string]Input{
		"simple":      {Kind: model.KindSimple, Amount: 1e308, Rate: 1000, Years: 100},
		"compound":    {Kind: model.KindCompound, Amount: 1000, Rate: 1e6, Years: 100, Compounds: 1},
		"invest":      {Kind: model.KindInvest, Scenarios: []Scenario{{Name: "moon", Principal: 1000, Rate: 1e6, Years: 100}}},
		"npv":         {Kind: model.KindNPV, Rate: 0, CashFlows: []float64{1e308, 1e308}},
		"sensitivity": {Kind: model.KindSensitivity, CashFlows: []float64{1e308, 1e308}, RateMin: 0, RateMax: 1},
		"budget":      {Kind: model.KindBudget, Income: 1, Expenses: finance.Expenses{Food: 1e308, Transport: 1e308}},
		"emergency":   {Kind: model.KindEmergency, MonthlyExpenses: 1e308, Months: 12},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := identity().Run(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, finance.ErrInvalidArgument)
			assert.Contains(t, err.Error(), "result is not a finite number")
		})
	}
}

func TestRunBoundsTimeInputs(t *testing.T) {
	_, err := identity().Run(Input{Kind: model.KindAmortization, Amount: 1000, Rate: 0, Years: 1e6})
	require.Error(t, err)
	assert.Equal(t, "time must be at most 100 years", err.Error())

	_, err = identity().Run(Input{Kind: model.KindSavings, Goal: 1000, Months: MaxMonths + 1})
	require.Error(t, err)
	assert.Equal(t, "months must be at most 1200", err.Error())

	_, err = identity().Run(Input{Kind: model.KindEmergency, MonthlyExpenses: 100, Months: MaxMonths + 1})
	require.Error(t, err)

	res, err := identity().Run(Input{Kind: model.KindAmortization, Amount: 1200, Rate: 0, Years: MaxYears})
	require.NoError(t, err)
	assert.Len(t, res.Table.Rows, MaxMonths)
}
