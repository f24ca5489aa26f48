// Package tui provides the Bubble Tea calculator interface.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/fincalc/internal/calc"
	"github.com/verte-zerg/fincalc/internal/currency"
	"github.com/verte-zerg/fincalc/internal/model"
	"github.com/verte-zerg/fincalc/internal/report"
)

const (
	tabCalculator = iota
	tabResult
	tabHistory
)

const (
	plotHeight          = 10
	defaultRatesTimeout = 10 * time.Second
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// History is the record log the UI reads and appends to.
type History interface {
	Append(ctx context.Context, rec model.CalculationRecord) (model.CalculationRecord, error)
	List(ctx context.Context, filter model.HistoryFilter) ([]model.CalculationRecord, error)
	Clear(ctx context.Context) (int64, error)
}

// Deps are the collaborators of the UI model. RatesTimeout bounds the
// initial rate fetch; zero means 10s.
type Deps struct {
	Calculator   *calc.Calculator
	History      History
	Rates        currency.Provider
	RatesTimeout time.Duration
	Log          logrus.FieldLogger
}

// Model implements the Bubble Tea calculator UI.
type Model struct {
	calc    *calc.Calculator
	history History
	rates   currency.Provider
	timeout time.Duration
	log     logrus.FieldLogger

	tabs      []string
	activeTab int
	resultVP  viewport.Model
	historyVP viewport.Model

	kindIndex     int
	currencyIndex int
	fields        []calc.Field
	inputs        []textinput.Model
	values        map[model.Kind]map[string]string
	focusIndex    int

	result  *model.Result
	records []model.CalculationRecord

	ratesStatus  string
	formError    string
	errMsg       string
	confirmClear bool

	width  int
	height int
}

type ratesMsg struct {
	rates currency.Rates
	err   error
}

// NewModel constructs a calculator UI model.
func NewModel(deps Deps) (*Model, error) {
	if deps.Calculator == nil {
		return nil, errors.New("calculator is required")
	}
	if deps.History == nil {
		return nil, errors.New("history store is required")
	}
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	timeout := deps.RatesTimeout
	if timeout <= 0 {
		timeout = defaultRatesTimeout
	}
	m := &Model{
		calc:        deps.Calculator,
		timeout:     timeout,
		history:     deps.History,
		rates:       deps.Rates,
		log:         log,
		tabs:        []string{"Calculator", "Result", "History"},
		values:      make(map[model.Kind]map[string]string),
		resultVP:    viewport.New(0, 0),
		historyVP:   viewport.New(0, 0),
		ratesStatus: "rates: loading",
	}
	if deps.Rates == nil {
		m.ratesStatus = "rates: offline"
	}
	m.currencyIndex = indexOf(currency.Supported, deps.Calculator.Defaults().Currency)
	m.resultVP.SetContent("No result yet. Fill in the form and press enter.")
	m.initInputs()
	m.refreshHistory()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.rates != nil {
		cmds = append(cmds, fetchRates(m.rates, m.timeout))
	}
	return tea.Batch(cmds...)
}

func fetchRates(p currency.Provider, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rates, err := p.Rates(ctx)
		return ratesMsg{rates: rates, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderResult()
		return m, nil
	case ratesMsg:
		m.applyRates(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirmClear {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "ctrl+right":
			return m, m.moveTab(1)
		case "ctrl+left":
			return m, m.moveTab(-1)
		}
		if m.activeTab == tabCalculator {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) applyRates(msg ratesMsg) {
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("failed to load exchange rates")
		m.ratesStatus = "rates: offline"
		return
	}
	m.calc.SetConverter(currency.NewConverter(msg.rates))
	if msg.rates.Live {
		m.ratesStatus = "rates: live"
	} else {
		m.ratesStatus = "rates: offline"
	}
	m.log.WithFields(logrus.Fields{
		"base": msg.rates.Base,
		"live": msg.rates.Live,
	}).Debug("exchange rates loaded")
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		m.run()
		return m, nil
	case "tab", "down":
		return m, m.setFocus(m.focusIndex + 1)
	case "shift+tab", "up":
		return m, m.setFocus(m.focusIndex - 1)
	case "ctrl+n", "pgdown":
		return m, m.setKind(m.kindIndex + 1)
	case "ctrl+p", "pgup":
		return m, m.setKind(m.kindIndex - 1)
	case "ctrl+t":
		m.currencyIndex = (m.currencyIndex + 1) % len(currency.Supported)
		return m, nil
	}
	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	m.saveValues()
	return m, cmd
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := &m.resultVP
	if m.activeTab == tabHistory {
		vp = &m.historyVP
	}
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "left", "h":
		return m, m.moveTab(-1)
	case "right", "l":
		return m, m.moveTab(1)
	case "g", "home":
		vp.GotoTop()
		return m, nil
	case "G", "end":
		vp.GotoBottom()
		return m, nil
	case "r":
		if m.activeTab == tabHistory {
			m.refreshHistory()
		}
		return m, nil
	case "c":
		if m.activeTab == tabHistory && len(m.records) > 0 {
			m.confirmClear = true
		}
		return m, nil
	}
	var cmd tea.Cmd
	*vp, cmd = vp.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmClear = false
		n, err := m.history.Clear(context.Background())
		if err != nil {
			m.errMsg = fmt.Sprintf("failed to clear history: %v", err)
			return m, nil
		}
		m.log.WithField("deleted", n).Info("history cleared")
		m.refreshHistory()
	case "n", "N", "esc", "q":
		m.confirmClear = false
	}
	return m, nil
}

// run validates the form, runs the calculation and records it.
func (m *Model) run() {
	kind := m.kind()
	in, err := calc.InputFromFields(kind, m.currency(), m.formValues())
	if err == nil {
		var res model.Result
		res, err = m.calc.Run(in)
		if err == nil {
			m.formError = ""
			m.errMsg = ""
			m.result = &res
			m.renderResult()
			m.activeTab = tabResult
			m.resultVP.GotoTop()
			m.record(res.Record)
			return
		}
	}
	m.formError = err.Error()
	entry := m.log.WithError(err).WithField("kind", kind)
	if calc.IsNoResult(err) {
		entry.Info("calculation has no result")
		return
	}
	entry.Debug("calculation rejected")
}

func (m *Model) record(rec model.CalculationRecord) {
	if _, err := m.history.Append(context.Background(), rec); err != nil {
		m.errMsg = fmt.Sprintf("failed to save history: %v", err)
		m.log.WithError(err).Warn("failed to append history record")
		return
	}
	m.refreshHistory()
}

func (m *Model) refreshHistory() {
	records, err := m.history.List(context.Background(), model.HistoryFilter{})
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		m.historyVP.SetContent("Failed to load history.")
		return
	}
	m.records = records
	m.historyVP.SetContent(strings.Join(report.RenderHistory(records), "\n"))
	m.historyVP.GotoBottom()
}

func (m *Model) renderResult() {
	if m.result == nil {
		return
	}
	conv := m.calc.Converter()
	code := m.result.Currency
	var buf bytes.Buffer
	err := report.RenderResult(&buf, *m.result, report.Options{
		Width:       m.width,
		PlotHeight:  plotHeight,
		ForceColor:  true,
		FormatValue: func(v float64) string { return conv.Format(v, code) },
	})
	if err != nil {
		m.resultVP.SetContent(fmt.Sprintf("Failed to render result: %v", err))
		return
	}
	m.resultVP.SetContent(strings.TrimRight(buf.String(), "\n"))
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirmClear {
		return fitLines(m.renderConfirmModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.resultVP.Width = m.width
	m.resultVP.Height = bodyHeight
	m.historyVP.Width = m.width
	m.historyVP.Height = bodyHeight
	m.sizeInputs()
}

func (m *Model) sizeInputs() {
	if m.width <= 0 {
		return
	}
	for i := range m.inputs {
		promptWidth := lipgloss.Width(m.inputs[i].Prompt)
		m.inputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) tea.Cmd {
	count := len(m.tabs)
	if count == 0 {
		return nil
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	return tea.ClearScreen
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := fmt.Sprintf("Kind: %s  Currency: %s  %s  History: %d",
		m.kind().Title(), m.currency(), m.ratesStatus, len(m.records))
	return tabs + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	var help string
	switch m.activeTab {
	case tabCalculator:
		help = "Fields: tab/up/down  Kind: ctrl+n/ctrl+p  Currency: ctrl+t  Run: enter  Tabs: ctrl+left/right  Quit: esc"
	case tabHistory:
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Refresh: r  Clear: c  Quit: q"
	default:
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabCalculator:
		return m.renderForm()
	case tabHistory:
		return m.historyVP.View()
	default:
		return m.resultVP.View()
	}
}

func (m *Model) renderForm() string {
	lines := []string{
		labelStyle.Render("Calculation: ") + kindStyle.Render(m.kind().Title()),
		"",
	}
	for _, input := range m.inputs {
		lines = append(lines, input.View())
	}
	if m.formError != "" {
		lines = append(lines, "", errorStyle.Render(wrapText(m.formError, m.width)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfirmModal() string {
	text := fmt.Sprintf("Delete all %d calculations from history?\n\ny: delete  n: cancel", len(m.records))
	box := modalStyle.Width(modalInnerWidth(m.width)).Render(text)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) kind() model.Kind {
	return model.Kinds[m.kindIndex]
}

func (m *Model) currency() string {
	return currency.Supported[m.currencyIndex]
}

func (m *Model) initInputs() {
	m.fields = calc.FieldsFor(m.kind())
	saved := m.values[m.kind()]
	m.inputs = make([]textinput.Model, len(m.fields))
	for i, field := range m.fields {
		input := newFieldInput(field)
		input.SetValue(saved[field.Key])
		m.inputs[i] = input
	}
	m.sizeInputs()
	m.focusIndex = 0
	m.setFocus(0)
}

func newFieldInput(field calc.Field) textinput.Model {
	input := textinput.New()
	input.Prompt = fmt.Sprintf("%-18s", field.Label+":")
	input.Placeholder = field.Placeholder
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setKind(idx int) tea.Cmd {
	m.saveValues()
	count := len(model.Kinds)
	m.kindIndex = ((idx % count) + count) % count
	m.formError = ""
	m.initInputs()
	return m.setFocus(0)
}

func (m *Model) setFocus(idx int) tea.Cmd {
	count := len(m.inputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.focusIndex = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focusIndex {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

// saveValues keeps typed values per kind so switching kinds does not lose them.
func (m *Model) saveValues() {
	m.values[m.kind()] = m.formValues()
}

func (m *Model) formValues() map[string]string {
	values := make(map[string]string, len(m.inputs))
	for i, field := range m.fields {
		values[field.Key] = m.inputs[i].Value()
	}
	return values
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return 0
}
