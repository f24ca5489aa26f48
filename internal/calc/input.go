// Package calc turns calculator input into engine calls, rendered results
// and history records.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/fincalc/internal/finance"
	"github.com/verte-zerg/fincalc/internal/model"
)

// Upper bounds on time inputs. Schedules and charts allocate one entry per month.
const (
	MaxYears  = 100
	MaxMonths = MaxYears * 12
)

// ErrNoIRR is returned when no internal rate of return exists for the flows.
var ErrNoIRR = errors.New("could not compute IRR; include at least one negative and one positive cash flow")

// Input carries every value a calculation may need. Rates are percentages.
type Input struct {
	Kind     model.Kind
	Currency string

	Amount    float64
	Rate      float64
	Years     float64
	Compounds int

	CashFlows []float64
	RateMin   float64
	RateMax   float64

	Income        float64
	MaxPaymentPct float64

	Goal   float64
	Saved  float64
	Months int

	Expenses        finance.Expenses
	MonthlyExpenses float64

	Scenarios []Scenario
}

// Scenario is an investment alternative with its rate in percent.
type Scenario struct {
	Name      string  `yaml:"name"`
	Principal float64 `yaml:"principal"`
	Rate      float64 `yaml:"rate"`
	Years     float64 `yaml:"years"`
}

// ParseCashFlows splits a comma-separated list. Entries that are not numbers are dropped.
func ParseCashFlows(s string) []float64 {
	var flows []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		flows = append(flows, v)
	}
	return flows
}

// ParseRateRange parses "min,max" in percent. Both values are required and min must be below max.
func ParseRateRange(s string) (float64, float64, error) {
	values := ParseCashFlows(s)
	if len(values) != 2 || values[0] >= values[1] {
		return 0, 0, fmt.Errorf("enter a valid rate range (e.g. 2,8)")
	}
	return values[0], values[1], nil
}

// ParseScenarios parses "name:principal:rate:years" entries separated by ";".
func ParseScenarios(s string) ([]Scenario, error) {
	var scenarios []Scenario
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("scenario %q must look like name:principal:rate:years", entry)
		}
		nums := make([]float64, 3)
		for i, p := range parts[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("scenario %q: %q is not a number", entry, p)
			}
			nums[i] = v
		}
		scenarios = append(scenarios, Scenario{
			Name:      strings.TrimSpace(parts[0]),
			Principal: nums[0],
			Rate:      nums[1],
			Years:     nums[2],
		})
	}
	return scenarios, nil
}

func validNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func errAmountRateTime() error {
	return fmt.Errorf("enter valid values for amount, rate and time")
}

func validateAmountRateTime(in Input) error {
	if !validNumber(in.Amount) || !validNumber(in.Rate) || !validNumber(in.Years) {
		return errAmountRateTime()
	}
	if in.Amount <= 0 || in.Rate < 0 || in.Years <= 0 {
		return errAmountRateTime()
	}
	if in.Years > MaxYears {
		return fmt.Errorf("time must be at most %d years", MaxYears)
	}
	return nil
}

func validateMonths(months int) error {
	if months <= 0 {
		return fmt.Errorf("months must be > 0")
	}
	if months > MaxMonths {
		return fmt.Errorf("months must be at most %d", MaxMonths)
	}
	return nil
}

func validateCashFlows(flows []float64) error {
	if err := finance.ValidateCashFlows(flows); err != nil {
		return fmt.Errorf("enter valid cash flows (comma-separated numbers)")
	}
	return nil
}

// Validate checks the fields the kind needs.
func (in Input) Validate() error {
	switch in.Kind {
	case model.KindSimple, model.KindCompound, model.KindAmortization:
		return validateAmountRateTime(in)
	case model.KindMortgage:
		if err := validateAmountRateTime(in); err != nil {
			return err
		}
		if !validNumber(in.Income) || in.Income <= 0 {
			return fmt.Errorf("enter a monthly income > 0")
		}
		if !validNumber(in.MaxPaymentPct) || in.MaxPaymentPct <= 0 || in.MaxPaymentPct > 100 {
			return fmt.Errorf("max payment share must be between 0 and 100%%")
		}
	case model.KindNPV:
		if !validNumber(in.Rate) || in.Rate < 0 {
			return fmt.Errorf("enter a valid discount rate")
		}
		return validateCashFlows(in.CashFlows)
	case model.KindIRR:
		return validateCashFlows(in.CashFlows)
	case model.KindSensitivity:
		if err := validateCashFlows(in.CashFlows); err != nil {
			return err
		}
		if !validNumber(in.RateMin) || !validNumber(in.RateMax) || in.RateMin >= in.RateMax {
			return fmt.Errorf("enter a valid rate range (e.g. 2,8)")
		}
	case model.KindSavings:
		if !validNumber(in.Goal) || !validNumber(in.Saved) || in.Goal <= 0 || in.Saved < 0 {
			return fmt.Errorf("enter a goal > 0 and current savings >= 0")
		}
		if in.Goal < in.Saved {
			return fmt.Errorf("goal must not be below current savings")
		}
		if err := validateMonths(in.Months); err != nil {
			return err
		}
	case model.KindBudget:
		if !validNumber(in.Income) || in.Income <= 0 {
			return fmt.Errorf("enter a monthly income > 0")
		}
		e := in.Expenses
		for _, v := range []float64{e.Food, e.Transport, e.Utilities, e.Other} {
			if !validNumber(v) || v < 0 {
				return fmt.Errorf("expenses must be numbers >= 0")
			}
		}
	case model.KindInvest:
		if len(in.Scenarios) == 0 {
			return fmt.Errorf("add at least one investment scenario")
		}
		for _, sc := range in.Scenarios {
			if !validNumber(sc.Principal) || !validNumber(sc.Rate) || !validNumber(sc.Years) ||
				sc.Principal <= 0 || sc.Rate < 0 || sc.Years <= 0 {
				return fmt.Errorf("scenario %q needs principal > 0, rate >= 0 and years > 0", sc.Name)
			}
		}
	case model.KindEmergency:
		if !validNumber(in.MonthlyExpenses) || in.MonthlyExpenses <= 0 {
			return fmt.Errorf("enter monthly expenses > 0")
		}
		if err := validateMonths(in.Months); err != nil {
			return err
		}
		if !validNumber(in.Saved) || in.Saved < 0 {
			return fmt.Errorf("saved amount must be >= 0")
		}
	default:
		return fmt.Errorf("unknown calculation %q", in.Kind)
	}
	return nil
}
