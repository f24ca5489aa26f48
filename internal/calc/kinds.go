package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/verte-zerg/fincalc/internal/finance"
	"github.com/verte-zerg/fincalc/internal/model"
)

var errNotFinite = fmt.Errorf("%w: result is not a finite number", finance.ErrInvalidArgument)

var moneyCols = map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true}

func principalInterestChart(title string, principal, interest float64) *model.Chart {
	return &model.Chart{
		Type:   model.ChartBar,
		Title:  title,
		Labels: []string{"Principal", "Interest"},
		Series: []model.Series{{Name: title, Values: []float64{principal, interest}}},
	}
}

func simpleResult(in Input, f formatter) (model.Result, string, error) {
	res, err := finance.SimpleInterest(in.Amount, in.Rate/100, in.Years)
	if err != nil {
		return model.Result{}, "", err
	}
	out := model.Result{
		Lines: []model.Line{
			{Label: "Interest", Value: f.money(res.Interest)},
			{Label: "Total", Value: f.money(res.Total)},
		},
		Chart: principalInterestChart("Simple Interest", in.Amount, res.Interest),
	}
	summary := fmt.Sprintf("Simple Interest: Amount=%s, Rate=%s, Time=%s years, Total=%s",
		f.money(in.Amount), percent(in.Rate), number(in.Years), f.money(res.Total))
	return out, summary, nil
}

func compoundResult(in Input, f formatter) (model.Result, string, error) {
	res, err := finance.CompoundInterest(in.Amount, in.Rate/100, in.Compounds, in.Years)
	if err != nil {
		return model.Result{}, "", err
	}
	out := model.Result{
		Lines: []model.Line{
			{Label: "Interest", Value: f.money(res.Interest)},
			{Label: "Total", Value: f.money(res.Total)},
			{Label: "Compounding", Value: fmt.Sprintf("%d times per year", in.Compounds)},
		},
		Chart: principalInterestChart("Compound Interest", in.Amount, res.Interest),
	}
	years := int(math.Floor(in.Years))
	if years >= 1 && years <= 100 {
		table := &model.Table{
			Title:      "Growth by year",
			Headers:    []string{"Year", "Balance", "Interest"},
			RightAlign: moneyCols,
		}
		for y := 1; y <= years; y++ {
			step, err := finance.CompoundInterest(in.Amount, in.Rate/100, in.Compounds, float64(y))
			if err != nil {
				return model.Result{}, "", err
			}
			table.Rows = append(table.Rows, []string{fmt.Sprintf("%d", y), f.money(step.Total), f.money(step.Interest)})
		}
		out.Table = table
	}
	summary := fmt.Sprintf("Compound Interest: Amount=%s, Rate=%s, Time=%s years, Total=%s",
		f.money(in.Amount), percent(in.Rate), number(in.Years), f.money(res.Total))
	return out, summary, nil
}

func amortizationResult(in Input, f formatter) (model.Result, string, error) {
	terms := finance.LoanTerms{
		Principal:    in.Amount,
		PeriodicRate: in.Rate / 100 / 12,
		NumPeriods:   int(math.Round(in.Years * 12)),
	}
	schedule, err := terms.Schedule()
	if err != nil {
		return model.Result{}, "", fmt.Errorf("error in amortization calculation; check the values: %w", err)
	}
	payment := schedule.Rows[0].Payment
	totalPaid := payment * float64(terms.NumPeriods)
	if !validNumber(totalPaid) || !validNumber(schedule.TotalInterest()) {
		return model.Result{}, "", errNotFinite
	}
	table := &model.Table{
		Headers:    []string{"Period", "Payment", "Interest", "Principal", "Balance"},
		RightAlign: moneyCols,
	}
	balances := make([]float64, 0, len(schedule.Rows))
	for _, row := range schedule.Rows {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", row.Period),
			f.money(row.Payment),
			f.money(row.Interest),
			f.money(row.Principal),
			f.money(row.RemainingBalance),
		})
		balances = append(balances, row.RemainingBalance)
	}
	out := model.Result{
		Lines: []model.Line{
			{Label: "Monthly Payment", Value: f.money(payment)},
			{Label: "Total Paid", Value: f.money(totalPaid)},
			{Label: "Total Interest", Value: f.money(schedule.TotalInterest())},
			{Label: "Months", Value: fmt.Sprintf("%d", terms.NumPeriods)},
		},
		Table: table,
		Chart: &model.Chart{
			Type:   model.ChartLine,
			Title:  "Remaining balance",
			Labels: periodLabels("Month", terms.NumPeriods),
			Series: []model.Series{{Name: "Balance", Values: balances}},
		},
	}
	summary := fmt.Sprintf("Amortization: Amount=%s, Rate=%s, Time=%s years, Monthly Payment=%s",
		f.money(in.Amount), percent(in.Rate), number(in.Years), f.money(payment))
	return out, summary, nil
}

func mortgageResult(in Input, f formatter) (model.Result, string, error) {
	res, err := finance.MortgageAffordability(in.Amount, in.Rate/100, in.Years, in.Income, in.MaxPaymentPct/100)
	if err != nil {
		return model.Result{}, "", err
	}
	verdict := "yes"
	if !res.Affordable {
		verdict = "no"
	}
	out := model.Result{
		Lines: []model.Line{
			{Label: "Monthly Payment", Value: f.money(res.MonthlyPayment)},
			{Label: fmt.Sprintf("Max Payment (%s of income)", percent(in.MaxPaymentPct)), Value: f.money(res.MaxPayment)},
			{Label: "Affordable", Value: verdict},
			{Label: "Total Interest", Value: f.money(res.TotalInterest)},
		},
		Chart: &model.Chart{
			Type:   model.ChartBar,
			Title:  "Payment vs limit",
			Labels: []string{"Payment", "Limit"},
			Series: []model.Series{{Name: "Monthly", Values: []float64{res.MonthlyPayment, res.MaxPayment}}},
		},
	}
	summary := fmt.Sprintf("Mortgage Affordability: Amount=%s, Rate=%s, Time=%s years, Payment=%s, Max=%s, Affordable=%s",
		f.money(in.Amount), percent(in.Rate), number(in.Years), f.money(res.MonthlyPayment), f.money(res.MaxPayment), verdict)
	return out, summary, nil
}

func cashFlowChart(flows []float64) *model.Chart {
	return &model.Chart{
		Type:   model.ChartBar,
		Title:  "Cash flows",
		Labels: periodLabels("Period", len(flows)),
		Series: []model.Series{{Name: "Cash flows", Values: flows}},
	}
}

func npvResult(in Input, f formatter) (model.Result, string, error) {
	rate := in.Rate / 100
	npv := finance.NPV(rate, in.CashFlows)
	if !validNumber(npv) {
		return model.Result{}, "", errNotFinite
	}
	table := &model.Table{
		Headers:    []string{"Period", "Cash Flow", "Discounted"},
		RightAlign: moneyCols,
	}
	for i, cf := range in.CashFlows {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", i+1),
			f.money(cf),
			f.money(cf / math.Pow(1+rate, float64(i+1))),
		})
	}
	out := model.Result{
		Title: "NPV (Net Present Value)",
		Lines: []model.Line{
			{Label: "NPV", Value: f.money(npv)},
			{Label: "Rate", Value: percent(in.Rate)},
		},
		Table: table,
		Chart: cashFlowChart(in.CashFlows),
	}
	summary := fmt.Sprintf("NPV: Flows=%s, Rate=%s, NPV=%s", f.moneyList(in.CashFlows), percent(in.Rate), f.money(npv))
	return out, summary, nil
}

func irrResult(in Input, f formatter) (model.Result, string, error) {
	irr, ok := finance.IRR(in.CashFlows)
	if !ok {
		return model.Result{}, "", ErrNoIRR
	}
	out := model.Result{
		Title: "IRR (Internal Rate of Return)",
		Lines: []model.Line{{Label: "IRR", Value: percent(irr)}},
		Chart: cashFlowChart(in.CashFlows),
	}
	summary := fmt.Sprintf("IRR: Flows=%s, IRR=%s", f.moneyList(in.CashFlows), percent(irr))
	return out, summary, nil
}

func sensitivityResult(in Input, f formatter) (model.Result, string, error) {
	res, err := finance.Sensitivity(in.CashFlows, in.RateMin, in.RateMax)
	if err != nil {
		return model.Result{}, "", err
	}
	labels := make([]string, len(res.Rates))
	table := &model.Table{Headers: []string{"Rate", "NPV"}, RightAlign: moneyCols}
	for i, rate := range res.Rates {
		labels[i] = percent(rate)
		table.Rows = append(table.Rows, []string{percent(rate), f.money(res.NPVs[i])})
	}
	out := model.Result{
		Title: "Sensitivity Analysis (NPV)",
		Lines: []model.Line{
			{Label: "Rates", Value: "[" + joinFixed(res.Rates) + "]%"},
			{Label: "NPVs", Value: f.moneyList(res.NPVs)},
		},
		Table: table,
		Chart: &model.Chart{
			Type:   model.ChartLine,
			Title:  "NPV vs rate",
			Labels: labels,
			Series: []model.Series{{Name: "NPV", Values: res.NPVs}},
		},
	}
	summary := fmt.Sprintf("Sensitivity: Flows=%s, Range=[%s,%s]%%, Results=%s",
		f.moneyList(in.CashFlows), number(in.RateMin), number(in.RateMax), f.moneyList(res.NPVs))
	return out, summary, nil
}

func savingsResult(in Input, f formatter) (model.Result, string, error) {
	monthly, err := finance.MonthlySavingsNeeded(in.Goal, in.Saved, in.Months)
	if err != nil {
		return model.Result{}, "", err
	}
	progress := make([]float64, in.Months)
	for i := range progress {
		progress[i] = in.Saved + monthly*float64(i+1)
	}
	out := model.Result{
		Lines: []model.Line{
			{Label: "Monthly Savings", Value: f.money(monthly)},
			{Label: "Remaining", Value: f.money(in.Goal - in.Saved)},
			{Label: "Months", Value: fmt.Sprintf("%d", in.Months)},
		},
		Chart: &model.Chart{
			Type:   model.ChartLine,
			Title:  "Savings progress",
			Labels: periodLabels("Month", in.Months),
			Series: []model.Series{{Name: "Balance", Values: progress}},
		},
	}
	summary := fmt.Sprintf("Savings Goal: Goal=%s, Saved=%s, Months=%d, Monthly=%s",
		f.money(in.Goal), f.money(in.Saved), in.Months, f.money(monthly))
	return out, summary, nil
}

func budgetResult(in Input, f formatter) (model.Result, string, error) {
	b, err := finance.BudgetBreakdown(in.Income, in.Expenses)
	if err != nil {
		return model.Result{}, "", err
	}
	categories := []string{"Food", "Transport", "Utilities", "Other"}
	amounts := []float64{b.Expenses.Food, b.Expenses.Transport, b.Expenses.Utilities, b.Expenses.Other}
	shares := []float64{b.Percentages.Food, b.Percentages.Transport, b.Percentages.Utilities, b.Percentages.Other}
	table := &model.Table{Headers: []string{"Category", "Amount", "Share"}, RightAlign: map[int]bool{1: true, 2: true}}
	for i, name := range categories {
		table.Rows = append(table.Rows, []string{name, f.money(amounts[i]), percent(shares[i])})
	}
	lines := []model.Line{
		{Label: "Total Expenses", Value: f.money(b.TotalExpenses)},
		{Label: "Savings", Value: f.money(b.Savings)},
	}
	if b.OverBudget {
		lines = append(lines, model.Line{Label: "Warning", Value: "expenses exceed income"})
	}
	out := model.Result{
		Lines: lines,
		Table: table,
		Chart: &model.Chart{
			Type:   model.ChartBar,
			Title:  "Expenses",
			Labels: categories,
			Series: []model.Series{{Name: "Expenses", Values: amounts}},
		},
	}
	summary := fmt.Sprintf("Budget: Income=%s, Expenses=%s, Savings=%s, Food=%s, Transport=%s, Utilities=%s, Other=%s",
		f.money(in.Income), f.money(b.TotalExpenses), f.money(b.Savings),
		percent(shares[0]), percent(shares[1]), percent(shares[2]), percent(shares[3]))
	return out, summary, nil
}

func investResult(in Input, f formatter) (model.Result, string, error) {
	scenarios := make([]finance.Scenario, len(in.Scenarios))
	for i, sc := range in.Scenarios {
		name := sc.Name
		if name == "" {
			name = fmt.Sprintf("Scenario %d", i+1)
		}
		scenarios[i] = finance.Scenario{Name: name, Principal: sc.Principal, Rate: sc.Rate / 100, Time: sc.Years}
	}
	results, err := finance.CompareInvestments(scenarios)
	if err != nil {
		return model.Result{}, "", err
	}
	table := &model.Table{
		Headers:    []string{"Scenario", "Principal", "Rate", "Years", "Total", "Gain"},
		RightAlign: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
	}
	labels := make([]string, len(results))
	totals := make([]float64, len(results))
	parts := make([]string, len(results))
	best := 0
	for i, r := range results {
		sc := r.Scenario
		table.Rows = append(table.Rows, []string{
			sc.Name, f.money(sc.Principal), percent(sc.Rate * 100), number(sc.Time), f.money(r.Total), f.money(r.Gain),
		})
		labels[i] = sc.Name
		totals[i] = r.Total
		parts[i] = fmt.Sprintf("%s=%s", sc.Name, f.money(r.Total))
		if r.Total > results[best].Total {
			best = i
		}
	}
	out := model.Result{
		Lines: []model.Line{
			{Label: "Best", Value: fmt.Sprintf("%s (%s)", results[best].Scenario.Name, f.money(results[best].Total))},
			{Label: "Scenarios", Value: fmt.Sprintf("%d", len(results))},
		},
		Table: table,
		Chart: &model.Chart{
			Type:   model.ChartBar,
			Title:  "Final value",
			Labels: labels,
			Series: []model.Series{{Name: "Total", Values: totals}},
		},
	}
	summary := "Investment Comparison: " + strings.Join(parts, ", ")
	return out, summary, nil
}

func emergencyResult(in Input, f formatter) (model.Result, string, error) {
	plan, err := finance.EmergencyFund(in.MonthlyExpenses, in.Months, in.Saved)
	if err != nil {
		return model.Result{}, "", err
	}
	out := model.Result{
		Lines: []model.Line{
			{Label: "Target", Value: f.money(plan.Target)},
			{Label: "Saved", Value: f.money(in.Saved)},
			{Label: "Shortfall", Value: f.money(plan.Shortfall)},
			{Label: "Months Covered", Value: fmt.Sprintf("%.1f", plan.MonthsCovered)},
		},
		Chart: &model.Chart{
			Type:   model.ChartBar,
			Title:  "Fund",
			Labels: []string{"Target", "Saved"},
			Series: []model.Series{{Name: "Fund", Values: []float64{plan.Target, in.Saved}}},
		},
	}
	summary := fmt.Sprintf("Emergency Fund: Expenses=%s, Months=%d, Target=%s, Shortfall=%s",
		f.money(in.MonthlyExpenses), in.Months, f.money(plan.Target), f.money(plan.Shortfall))
	return out, summary, nil
}

// IsNoResult reports whether err means the calculation has no answer rather than bad input.
func IsNoResult(err error) bool {
	return errors.Is(err, ErrNoIRR)
}
