package calc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/fincalc/internal/currency"
	"github.com/verte-zerg/fincalc/internal/model"
)

// Calculator runs calculations and formats their results in a display currency.
type Calculator struct {
	conv     *currency.Converter
	defaults model.Config
	now      func() time.Time
	newID    func() string
}

// New builds a calculator. Zero-valued defaults fall back to USD, annual
// compounding, a 28% payment cap and a six-month emergency fund.
func New(conv *currency.Converter, defaults model.Config) *Calculator {
	if conv == nil {
		conv = currency.NewConverter(currency.DefaultRates())
	}
	if defaults.Currency == "" {
		defaults.Currency = currency.Base
	}
	if defaults.Compounds <= 0 {
		defaults.Compounds = 1
	}
	if defaults.MaxPaymentPct <= 0 {
		defaults.MaxPaymentPct = 28
	}
	if defaults.EmergencyMonths <= 0 {
		defaults.EmergencyMonths = 6
	}
	return &Calculator{conv: conv, defaults: defaults, now: time.Now, newID: uuid.NewString}
}

// Defaults returns the calculator defaults.
func (c *Calculator) Defaults() model.Config {
	return c.defaults
}

// SetConverter swaps the rate table, e.g. after live rates arrive.
func (c *Calculator) SetConverter(conv *currency.Converter) {
	if conv != nil {
		c.conv = conv
	}
}

// Converter returns the converter in use.
func (c *Calculator) Converter() *currency.Converter {
	return c.conv
}

// Run validates input, runs the engine and returns a result whose Record is ready to append.
func (c *Calculator) Run(in Input) (model.Result, error) {
	in = c.applyDefaults(in)
	code, err := currency.ValidateCode(in.Currency)
	if err != nil {
		return model.Result{}, err
	}
	in.Currency = code
	if err := in.Validate(); err != nil {
		return model.Result{}, err
	}

	f := formatter{conv: c.conv, currency: code}
	var res model.Result
	var summary string
	switch in.Kind {
	case model.KindSimple:
		res, summary, err = simpleResult(in, f)
	case model.KindCompound:
		res, summary, err = compoundResult(in, f)
	case model.KindAmortization:
		res, summary, err = amortizationResult(in, f)
	case model.KindMortgage:
		res, summary, err = mortgageResult(in, f)
	case model.KindNPV:
		res, summary, err = npvResult(in, f)
	case model.KindIRR:
		res, summary, err = irrResult(in, f)
	case model.KindSensitivity:
		res, summary, err = sensitivityResult(in, f)
	case model.KindSavings:
		res, summary, err = savingsResult(in, f)
	case model.KindBudget:
		res, summary, err = budgetResult(in, f)
	case model.KindInvest:
		res, summary, err = investResult(in, f)
	case model.KindEmergency:
		res, summary, err = emergencyResult(in, f)
	}
	if err != nil {
		return model.Result{}, err
	}
	res.Kind = in.Kind
	res.Currency = code
	if res.Title == "" {
		res.Title = in.Kind.Title()
	}
	res.Record = model.CalculationRecord{
		ID:        c.newID(),
		Kind:      in.Kind,
		Summary:   summary,
		Currency:  code,
		CreatedAt: c.now().UTC(),
	}
	return res, nil
}

func (c *Calculator) applyDefaults(in Input) Input {
	if in.Currency == "" {
		in.Currency = c.defaults.Currency
	}
	if in.Compounds == 0 {
		in.Compounds = c.defaults.Compounds
	}
	if in.MaxPaymentPct == 0 {
		in.MaxPaymentPct = c.defaults.MaxPaymentPct
	}
	if in.Kind == model.KindEmergency && in.Months == 0 {
		in.Months = c.defaults.EmergencyMonths
	}
	return in
}

type formatter struct {
	conv     *currency.Converter
	currency string
}

func (f formatter) money(v float64) string {
	return f.conv.Format(v, f.currency)
}

func (f formatter) moneyList(values []float64) string {
	return "[" + f.conv.FormatList(values, f.currency) + "]"
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func periodLabels(prefix string, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s %d", prefix, i+1)
	}
	return labels
}

func joinFixed(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.2f", v)
	}
	return strings.Join(parts, ", ")
}
