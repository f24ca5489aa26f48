package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/fincalc/internal/model"
)

const (
	barFull     = "█"
	barNegative = "░"
	minBarWidth = 4
)

// PlotBars renders one horizontal bar per label for the first series.
// Negative values use a lighter fill so signs stay visible without color.
func PlotBars(w io.Writer, title string, labels []string, series model.Series, width int, format func(float64) string) error {
	if len(series.Values) == 0 {
		return nil
	}
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	}
	labelWidth := 0
	valueTexts := make([]string, len(series.Values))
	valueWidth := 0
	peak := 0.0
	for i, v := range series.Values {
		labelWidth = max(labelWidth, displayWidth(barLabel(labels, i)))
		valueTexts[i] = format(v)
		valueWidth = max(valueWidth, displayWidth(valueTexts[i]))
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			peak = math.Max(peak, math.Abs(v))
		}
	}
	if width <= 0 {
		width = terminalWidth()
	}
	barWidth := max(width-labelWidth-valueWidth-4, minBarWidth)

	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	for i, v := range series.Values {
		n := 0
		if peak > 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
			n = int(math.Round(math.Abs(v) / peak * float64(barWidth)))
		}
		fill := barFull
		if v < 0 {
			fill = barNegative
		}
		bar := strings.Repeat(fill, n) + strings.Repeat(" ", barWidth-n)
		fmt.Fprintf(&b, "%s │%s %s\n", padCell(barLabel(labels, i), labelWidth, false), bar, padCell(valueTexts[i], valueWidth, true))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func barLabel(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("#%d", i+1)
}
