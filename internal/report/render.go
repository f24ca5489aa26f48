package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/fincalc/internal/model"
)

// Options controls result rendering.
type Options struct {
	Width        int
	PlotHeight   int
	MaxTableRows int
	ForceColor   bool
	NoChart      bool
	FormatValue  func(float64) string
}

// RenderResult writes the title, labelled values, table and chart of a result.
func RenderResult(w io.Writer, res model.Result, opts Options) error {
	var b strings.Builder
	b.WriteString(res.Title + "\n")
	labelWidth := 0
	for _, line := range res.Lines {
		labelWidth = max(labelWidth, displayWidth(line.Label))
	}
	for _, line := range res.Lines {
		fmt.Fprintf(&b, "  %s  %s\n", padCell(line.Label+":", labelWidth+1, false), line.Value)
	}
	if res.Table != nil && len(res.Table.Rows) > 0 {
		b.WriteString("\n")
		for _, line := range RenderTable(*res.Table, opts.MaxTableRows) {
			b.WriteString(line + "\n")
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if opts.NoChart || res.Chart == nil {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return RenderChart(w, *res.Chart, opts)
}

// RenderTable formats a table, eliding middle rows beyond maxRows.
func RenderTable(t model.Table, maxRows int) []string {
	rows := t.Rows
	hidden := 0
	if maxRows > 0 && len(rows) > maxRows {
		head := maxRows / 2
		tail := maxRows - head
		hidden = len(rows) - maxRows
		trimmed := make([][]string, 0, maxRows+1)
		trimmed = append(trimmed, rows[:head]...)
		trimmed = append(trimmed, []string{fmt.Sprintf("… %d more", hidden)})
		trimmed = append(trimmed, rows[len(rows)-tail:]...)
		rows = trimmed
	}
	lines := FormatTable(t.Headers, rows, t.RightAlign)
	if t.Title != "" {
		lines = append([]string{t.Title}, lines...)
	}
	return lines
}

// RenderChart draws a chart as a braille line plot or horizontal bars.
func RenderChart(w io.Writer, c model.Chart, opts Options) error {
	switch c.Type {
	case model.ChartBar:
		if len(c.Series) == 0 {
			return nil
		}
		return PlotBars(w, c.Title, c.Labels, c.Series[0], opts.Width, opts.FormatValue)
	default:
		return PlotLine(w, c.Title, c.Labels, c.Series, PlotOptions{
			Width:      plotWidth(opts.Width),
			Height:     opts.PlotHeight,
			ForceColor: opts.ForceColor,
		})
	}
}

func plotWidth(total int) int {
	if total <= 0 {
		return 0
	}
	return PlotWidthFor(total, 10)
}

// RenderHistory formats history records as a table, oldest first.
func RenderHistory(records []model.CalculationRecord) []string {
	if len(records) == 0 {
		return []string{"No calculations yet."}
	}
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(rec.Kind),
			rec.Summary,
		})
	}
	return FormatTable([]string{"#", "When", "Kind", "Summary"}, rows, map[int]bool{0: true})
}
