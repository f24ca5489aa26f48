// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Kind identifies a calculation type.
type Kind string

// Calculation kinds.
const (
	KindSimple       Kind = "simple"
	KindCompound     Kind = "compound"
	KindAmortization Kind = "amortization"
	KindMortgage     Kind = "mortgage"
	KindNPV          Kind = "npv"
	KindIRR          Kind = "irr"
	KindSensitivity  Kind = "sensitivity"
	KindSavings      Kind = "savings"
	KindBudget       Kind = "budget"
	KindInvest       Kind = "invest"
	KindEmergency    Kind = "emergency"
)

// Kinds lists every calculation kind in display order.
var Kinds = []Kind{
	KindSimple,
	KindCompound,
	KindAmortization,
	KindMortgage,
	KindNPV,
	KindIRR,
	KindSensitivity,
	KindSavings,
	KindBudget,
	KindInvest,
	KindEmergency,
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown calculation %q", s)
}

// Title returns a human-readable label for the kind.
func (k Kind) Title() string {
	switch k {
	case KindSimple:
		return "Simple Interest"
	case KindCompound:
		return "Compound Interest"
	case KindAmortization:
		return "Amortization"
	case KindMortgage:
		return "Mortgage Affordability"
	case KindNPV:
		return "NPV"
	case KindIRR:
		return "IRR"
	case KindSensitivity:
		return "Sensitivity"
	case KindSavings:
		return "Savings Goal"
	case KindBudget:
		return "Budget"
	case KindInvest:
		return "Investment Comparison"
	case KindEmergency:
		return "Emergency Fund"
	default:
		return string(k)
	}
}

// Config holds calculator defaults.
type Config struct {
	Currency        string
	Compounds       int
	MaxPaymentPct   float64
	EmergencyMonths int
}

// Line is a labelled result value.
type Line struct {
	Label string
	Value string
}

// Table is a rendered-ready grid of cells.
type Table struct {
	Title      string
	Headers    []string
	Rows       [][]string
	RightAlign map[int]bool
}

// ChartType selects how a chart is drawn.
type ChartType int

const (
	// ChartLine draws series as connected points.
	ChartLine ChartType = iota
	// ChartBar draws one bar per label.
	ChartBar
)

// Series is a named sequence of values.
type Series struct {
	Name   string
	Values []float64
}

// Chart describes the chart attached to a result.
type Chart struct {
	Type   ChartType
	Title  string
	Labels []string
	Series []Series
}

// Result is the outcome of one calculation, ready to render or export.
type Result struct {
	Kind     Kind
	Title    string
	Currency string
	Lines    []Line
	Table    *Table
	Chart    *Chart
	Record   CalculationRecord
}

// CalculationRecord is an immutable history entry.
type CalculationRecord struct {
	ID        string
	Kind      Kind
	Summary   string
	Currency  string
	CreatedAt time.Time
}

// HistoryFilter narrows history listings.
type HistoryFilter struct {
	Kind  Kind
	Since *time.Time
	Limit int
}
