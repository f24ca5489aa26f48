package calc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/fincalc/internal/model"
)

// Form field keys. They double as CLI flag names.
const (
	FieldAmount          = "amount"
	FieldRate            = "rate"
	FieldYears           = "years"
	FieldCompounds       = "compounds"
	FieldCashFlows       = "cash-flows"
	FieldRange           = "range"
	FieldIncome          = "income"
	FieldMaxPct          = "max-pct"
	FieldGoal            = "goal"
	FieldSaved           = "saved"
	FieldMonths          = "months"
	FieldFood            = "food"
	FieldTransport       = "transport"
	FieldUtilities       = "utilities"
	FieldOther           = "other"
	FieldMonthlyExpenses = "expenses"
	FieldScenarios       = "scenarios"
)

// Field describes one input of a calculation form.
type Field struct {
	Key         string
	Label       string
	Placeholder string
}

var (
	amountField    = Field{Key: FieldAmount, Label: "Amount", Placeholder: "10000"}
	rateField      = Field{Key: FieldRate, Label: "Rate %", Placeholder: "5"}
	yearsField     = Field{Key: FieldYears, Label: "Years", Placeholder: "10"}
	cashFlowsField = Field{Key: FieldCashFlows, Label: "Cash flows", Placeholder: "-1000,300,400,500"}
)

// FieldsFor lists the form fields a kind reads, in display order.
func FieldsFor(kind model.Kind) []Field {
	switch kind {
	case model.KindSimple, model.KindAmortization:
		return []Field{amountField, rateField, yearsField}
	case model.KindCompound:
		return []Field{amountField, rateField, yearsField,
			{Key: FieldCompounds, Label: "Compounds/yr", Placeholder: "12"}}
	case model.KindMortgage:
		return []Field{amountField, rateField, yearsField,
			{Key: FieldIncome, Label: "Monthly income", Placeholder: "6000"},
			{Key: FieldMaxPct, Label: "Max payment %", Placeholder: "28"}}
	case model.KindNPV:
		return []Field{cashFlowsField, {Key: FieldRate, Label: "Discount rate %", Placeholder: "10"}}
	case model.KindIRR:
		return []Field{cashFlowsField}
	case model.KindSensitivity:
		return []Field{cashFlowsField, {Key: FieldRange, Label: "Rate range %", Placeholder: "2,8"}}
	case model.KindSavings:
		return []Field{
			{Key: FieldGoal, Label: "Goal", Placeholder: "5000"},
			{Key: FieldSaved, Label: "Saved", Placeholder: "1000"},
			{Key: FieldMonths, Label: "Months", Placeholder: "8"},
		}
	case model.KindBudget:
		return []Field{
			{Key: FieldIncome, Label: "Monthly income", Placeholder: "1000"},
			{Key: FieldFood, Label: "Food", Placeholder: "200"},
			{Key: FieldTransport, Label: "Transport", Placeholder: "100"},
			{Key: FieldUtilities, Label: "Utilities", Placeholder: "150"},
			{Key: FieldOther, Label: "Other", Placeholder: "50"},
		}
	case model.KindInvest:
		return []Field{{Key: FieldScenarios, Label: "Scenarios", Placeholder: "bonds:1000:3:10; index:1000:7:10"}}
	case model.KindEmergency:
		return []Field{
			{Key: FieldMonthlyExpenses, Label: "Monthly expenses", Placeholder: "2000"},
			{Key: FieldMonths, Label: "Months", Placeholder: "6"},
			{Key: FieldSaved, Label: "Saved", Placeholder: "0"},
		}
	default:
		return nil
	}
}

// InputFromFields parses raw form values into an Input. Blank fields stay zero.
func InputFromFields(kind model.Kind, currencyCode string, values map[string]string) (Input, error) {
	in := Input{Kind: kind, Currency: currencyCode}
	var err error
	floatField := func(key string, dst *float64) {
		if err != nil {
			return
		}
		raw := strings.TrimSpace(values[key])
		if raw == "" {
			return
		}
		v, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			err = fmt.Errorf("%s: %q is not a number", key, raw)
			return
		}
		*dst = v
	}
	intField := func(key string, dst *int) {
		if err != nil {
			return
		}
		raw := strings.TrimSpace(values[key])
		if raw == "" {
			return
		}
		v, perr := strconv.Atoi(raw)
		if perr != nil {
			err = fmt.Errorf("%s: %q is not a whole number", key, raw)
			return
		}
		*dst = v
	}

	for _, field := range FieldsFor(kind) {
		switch field.Key {
		case FieldAmount:
			floatField(FieldAmount, &in.Amount)
		case FieldRate:
			floatField(FieldRate, &in.Rate)
		case FieldYears:
			floatField(FieldYears, &in.Years)
		case FieldCompounds:
			intField(FieldCompounds, &in.Compounds)
		case FieldIncome:
			floatField(FieldIncome, &in.Income)
		case FieldMaxPct:
			floatField(FieldMaxPct, &in.MaxPaymentPct)
		case FieldGoal:
			floatField(FieldGoal, &in.Goal)
		case FieldSaved:
			floatField(FieldSaved, &in.Saved)
		case FieldMonths:
			intField(FieldMonths, &in.Months)
		case FieldFood:
			floatField(FieldFood, &in.Expenses.Food)
		case FieldTransport:
			floatField(FieldTransport, &in.Expenses.Transport)
		case FieldUtilities:
			floatField(FieldUtilities, &in.Expenses.Utilities)
		case FieldOther:
			floatField(FieldOther, &in.Expenses.Other)
		case FieldMonthlyExpenses:
			floatField(FieldMonthlyExpenses, &in.MonthlyExpenses)
		case FieldCashFlows:
			in.CashFlows = ParseCashFlows(values[FieldCashFlows])
		case FieldRange:
			if err == nil {
				in.RateMin, in.RateMax, err = ParseRateRange(values[FieldRange])
			}
		case FieldScenarios:
			if err == nil {
				in.Scenarios, err = ParseScenarios(values[FieldScenarios])
			}
		}
	}
	if err != nil {
		return Input{}, err
	}
	return in, nil
}
