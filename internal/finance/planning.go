package finance

import "math"

// MonthlySavingsNeeded returns the monthly deposit that closes the gap to goal.
func MonthlySavingsNeeded(goal, current float64, months int) (float64, error) {
	if err := requireAllFinite(named{"goal", goal}, named{"current savings", current}); err != nil {
		return 0, err
	}
	if goal < current {
		return 0, invalidf("goal must not be below current savings")
	}
	if months <= 0 {
		return 0, invalidf("months must be > 0")
	}
	return (goal - current) / float64(months), nil
}

// Expenses are the monthly spending categories of a budget.
type Expenses struct {
	Food      float64
	Transport float64
	Utilities float64
	Other     float64
}

// Total sums every category.
func (e Expenses) Total() float64 {
	return e.Food + e.Transport + e.Utilities + e.Other
}

// Shares are each category's percentage of total expenses.
type Shares struct {
	Food      float64
	Transport float64
	Utilities float64
	Other     float64
}

// Budget is a monthly budget breakdown.
type Budget struct {
	Income        float64
	Expenses      Expenses
	TotalExpenses float64
	Savings       float64
	Percentages   Shares
	OverBudget    bool
}

// BudgetBreakdown totals expenses, derives savings and computes each
// category's percentage of total expenses. Savings go negative when expenses
// exceed income; OverBudget flags that case.
func BudgetBreakdown(income float64, expenses Expenses) (Budget, error) {
	if err := requireAllFinite(
		named{"income", income},
		named{"food", expenses.Food},
		named{"transport", expenses.Transport},
		named{"utilities", expenses.Utilities},
		named{"other", expenses.Other},
	); err != nil {
		return Budget{}, err
	}
	if income < 0 || expenses.Food < 0 || expenses.Transport < 0 || expenses.Utilities < 0 || expenses.Other < 0 {
		return Budget{}, invalidf("income and expenses must be >= 0")
	}
	total := expenses.Total()
	if err := requireFiniteResult(total, income-total); err != nil {
		return Budget{}, err
	}
	budget := Budget{
		Income:        income,
		Expenses:      expenses,
		TotalExpenses: total,
		Savings:       income - total,
		OverBudget:    total > income,
	}
	if total > 0 {
		budget.Percentages = Shares{
			Food:      expenses.Food / total * 100,
			Transport: expenses.Transport / total * 100,
			Utilities: expenses.Utilities / total * 100,
			Other:     expenses.Other / total * 100,
		}
	}
	return budget, nil
}

// EmergencyFundPlan sizes an emergency fund.
type EmergencyFundPlan struct {
	Target        float64
	Shortfall     float64
	MonthsCovered float64
}

// EmergencyFund returns the target fund for months of expenses and how much
// of it is still missing given what is already saved.
func EmergencyFund(monthlyExpenses float64, months int, saved float64) (EmergencyFundPlan, error) {
	if err := requireAllFinite(named{"monthly expenses", monthlyExpenses}, named{"saved", saved}); err != nil {
		return EmergencyFundPlan{}, err
	}
	if monthlyExpenses <= 0 {
		return EmergencyFundPlan{}, invalidf("monthly expenses must be > 0")
	}
	if months <= 0 {
		return EmergencyFundPlan{}, invalidf("months must be > 0")
	}
	if saved < 0 {
		return EmergencyFundPlan{}, invalidf("saved amount must be >= 0")
	}
	target := monthlyExpenses * float64(months)
	if err := requireFiniteResult(target); err != nil {
		return EmergencyFundPlan{}, err
	}
	return EmergencyFundPlan{
		Target:        target,
		Shortfall:     math.Max(0, target-saved),
		MonthsCovered: saved / monthlyExpenses,
	}, nil
}
