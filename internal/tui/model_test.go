package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/verte-zerg/fincalc/internal/calc"
	"github.com/verte-zerg/fincalc/internal/currency"
	"github.com/verte-zerg/fincalc/internal/model"
)

type memoryHistory struct {
	records []model.CalculationRecord
	failAdd bool
}

func (h *memoryHistory) Append(_ context.Context, rec model.CalculationRecord) (model.CalculationRecord, error) {
	if h.failAdd {
		return model.CalculationRecord{}, errors.New("disk full")
	}
	h.records = append(h.records, rec)
	return rec, nil
}

func (h *memoryHistory) List(context.Context, model.HistoryFilter) ([]model.CalculationRecord, error) {
	return append([]model.CalculationRecord(nil), h.records...), nil
}

func (h *memoryHistory) Clear(context.Context) (int64, error) {
	n := int64(len(h.records))
	h.records = nil
	return n, nil
}

func newTestModel(t *testing.T, history *memoryHistory) *Model {
	t.Helper()
	logger, _ := test.NewNullLogger()
	m, err := NewModel(Deps{
		Calculator: calc.New(nil, model.Config{}),
		History:    history,
		Log:        logger,
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, t tea.KeyType) {
	m.Update(tea.KeyMsg{Type: t})
}

func TestNewModelRequiresCalculatorAndHistory(t *testing.T) {
	if _, err := NewModel(Deps{History: &memoryHistory{}}); err == nil {
		t.Fatalf("expected error without calculator")
	}
	if _, err := NewModel(Deps{Calculator: calc.New(nil, model.Config{})}); err == nil {
		t.Fatalf("expected error without history")
	}
}

func TestRunRecordsCalculation(t *testing.T) {
	history := &memoryHistory{}
	m := newTestModel(t, history)
	if m.kind() != model.KindSimple {
		t.Fatalf("expected simple interest first, got %s", m.kind())
	}

	typeText(m, "1000")
	press(m, tea.KeyTab)
	typeText(m, "5")
	press(m, tea.KeyTab)
	typeText(m, "2")
	press(m, tea.KeyEnter)

	if m.formError != "" {
		t.Fatalf("unexpected form error: %s", m.formError)
	}
	if m.activeTab != tabResult {
		t.Fatalf("expected result tab, got %d", m.activeTab)
	}
	if len(history.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(history.records))
	}
	if !strings.Contains(history.records[0].Summary, "Total=$1100.00") {
		t.Fatalf("unexpected summary: %s", history.records[0].Summary)
	}
	if len(m.records) != 1 {
		t.Fatalf("expected history view to refresh, got %d records", len(m.records))
	}
	if view := m.View(); !strings.Contains(view, "$1100.00") {
		t.Fatalf("result view missing total:\n%s", view)
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	history := &memoryHistory{}
	m := newTestModel(t, history)

	typeText(m, "abc")
	press(m, tea.KeyEnter)

	if m.formError == "" {
		t.Fatalf("expected form error")
	}
	if m.activeTab != tabCalculator {
		t.Fatalf("expected to stay on calculator tab")
	}
	if len(history.records) != 0 {
		t.Fatalf("expected no records, got %d", len(history.records))
	}
}

func TestRunKeepsResultWhenHistoryFails(t *testing.T) {
	history := &memoryHistory{failAdd: true}
	m := newTestModel(t, history)

	typeText(m, "1000")
	press(m, tea.KeyTab)
	typeText(m, "5")
	press(m, tea.KeyTab)
	typeText(m, "2")
	press(m, tea.KeyEnter)

	if m.result == nil {
		t.Fatalf("expected result despite history failure")
	}
	if !strings.Contains(m.errMsg, "disk full") {
		t.Fatalf("expected history error, got %q", m.errMsg)
	}
}

func TestSwitchingKindKeepsTypedValues(t *testing.T) {
	m := newTestModel(t, &memoryHistory{})
	typeText(m, "250")

	press(m, tea.KeyCtrlN)
	if m.kind() != model.KindCompound {
		t.Fatalf("expected compound, got %s", m.kind())
	}
	if len(m.inputs) != 4 {
		t.Fatalf("expected 4 compound fields, got %d", len(m.inputs))
	}
	press(m, tea.KeyCtrlP)
	if m.kind() != model.KindSimple {
		t.Fatalf("expected simple, got %s", m.kind())
	}
	if got := m.inputs[0].Value(); got != "250" {
		t.Fatalf("expected amount to survive kind switch, got %q", got)
	}

	press(m, tea.KeyCtrlP)
	if m.kind() != model.KindEmergency {
		t.Fatalf("expected wrap to last kind, got %s", m.kind())
	}
}

func TestCurrencyCycles(t *testing.T) {
	m := newTestModel(t, &memoryHistory{})
	seen := []string{m.currency()}
	for range currency.Supported {
		press(m, tea.KeyCtrlT)
		seen = append(seen, m.currency())
	}
	if seen[0] != "USD" || seen[1] != "EUR" || seen[2] != "MXN" || seen[3] != "USD" {
		t.Fatalf("unexpected currency cycle: %v", seen)
	}
}

func TestRatesMessageUpdatesConverter(t *testing.T) {
	m := newTestModel(t, &memoryHistory{})
	m.Update(ratesMsg{rates: currency.Rates{
		Base:      "USD",
		Values:    map[string]float64{"USD": 1, "EUR": 0.5},
		FetchedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Live:      true,
	}})
	if m.ratesStatus != "rates: live" {
		t.Fatalf("unexpected status %q", m.ratesStatus)
	}
	if got := m.calc.Converter().Rates().Rate("EUR"); got != 0.5 {
		t.Fatalf("expected EUR rate 0.5, got %v", got)
	}

	m.Update(ratesMsg{err: errors.New("offline")})
	if m.ratesStatus != "rates: offline" {
		t.Fatalf("unexpected status %q", m.ratesStatus)
	}
}

func TestFetchRatesUsesProvider(t *testing.T) {
	cmd := fetchRates(currency.StaticProvider{Value: currency.DefaultRates()}, time.Second)
	msg, ok := cmd().(ratesMsg)
	if !ok {
		t.Fatalf("expected ratesMsg")
	}
	if msg.err != nil || msg.rates.Base != currency.Base {
		t.Fatalf("unexpected rates message: %+v", msg)
	}
}

type deadlineProvider struct {
	left time.Duration
}

func (p *deadlineProvider) Rates(ctx context.Context) (currency.Rates, error) {
	if deadline, ok := ctx.Deadline(); ok {
		p.left = time.Until(deadline)
	}
	return currency.DefaultRates(), nil
}

func TestFetchRatesUsesConfiguredTimeout(t *testing.T) {
	p := &deadlineProvider{}
	m, err := NewModel(Deps{
		Calculator:   calc.New(nil, model.Config{}),
		History:      &memoryHistory{},
		Rates:        p,
		RatesTimeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	fetchRates(m.rates, m.timeout)()
	if p.left <= 20*time.Second || p.left > 30*time.Second {
		t.Fatalf("expected a 30s deadline, got %v", p.left)
	}

	m, err = NewModel(Deps{Calculator: calc.New(nil, model.Config{}), History: &memoryHistory{}})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if m.timeout != defaultRatesTimeout {
		t.Fatalf("expected default timeout, got %v", m.timeout)
	}
}

func TestClearHistoryNeedsConfirmation(t *testing.T) {
	history := &memoryHistory{records: []model.CalculationRecord{
		{ID: "a", Kind: model.KindIRR, Summary: "IRR: Flows=[-1000, 1100], IRR=10.00%", Currency: "USD", CreatedAt: time.Now()},
	}}
	m := newTestModel(t, history)
	press(m, tea.KeyCtrlRight)
	press(m, tea.KeyCtrlRight)
	if m.activeTab != tabHistory {
		t.Fatalf("expected history tab, got %d", m.activeTab)
	}

	typeText(m, "c")
	if !m.confirmClear {
		t.Fatalf("expected confirmation prompt")
	}
	if view := m.View(); !strings.Contains(view, "Delete all 1 calculations") {
		t.Fatalf("confirmation modal missing:\n%s", view)
	}
	typeText(m, "n")
	if m.confirmClear || len(history.records) != 1 {
		t.Fatalf("cancel should keep records")
	}

	typeText(m, "c")
	typeText(m, "y")
	if len(history.records) != 0 || len(m.records) != 0 {
		t.Fatalf("expected history cleared")
	}
}

func TestHistoryViewListsRecords(t *testing.T) {
	history := &memoryHistory{records: []model.CalculationRecord{
		{ID: "a", Kind: model.KindSavings, Summary: "Savings Goal: Monthly=$500.00", Currency: "USD", CreatedAt: time.Now()},
	}}
	m := newTestModel(t, history)
	press(m, tea.KeyCtrlLeft)
	if m.activeTab != tabHistory {
		t.Fatalf("expected wrap to history tab, got %d", m.activeTab)
	}
	if view := m.View(); !strings.Contains(view, "Savings Goal: Monthly=$500.00") {
		t.Fatalf("history view missing record:\n%s", view)
	}
}

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("rate must be a finite number", 10)
	want := "rate must\nbe a\nfinite\nnumber"
	if got != want {
		t.Fatalf("unexpected wrap:\n%q\nwant\n%q", got, want)
	}
	if got := wrapText("abcdefghij", 4); got != "abcd\nefgh\nij" {
		t.Fatalf("unexpected hard wrap: %q", got)
	}
}

func TestFitLinesPadsAndCuts(t *testing.T) {
	if got := fitLines("ab\ncd\nef", 3, 2); got != "ab \ncd " {
		t.Fatalf("unexpected fit: %q", got)
	}
	if got := fitLines("ab", 2, 2); got != "ab\n  " {
		t.Fatalf("unexpected fill: %q", got)
	}
	if got := truncateLine("abcdefgh", 5); got != "ab..." {
		t.Fatalf("unexpected truncate: %q", got)
	}
	if got := truncateLine("abc", 5); got != "abc" {
		t.Fatalf("short line changed: %q", got)
	}
}
