package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/fincalc/internal/model"
)

func TestPlotBarsScalesToPeak(t *testing.T) {
	var buf bytes.Buffer
	err := PlotBars(&buf, "", []string{"Principal", "Interest"}, model.Series{Values: []float64{1000, 500}}, 40, nil)
	if err != nil {
		t.Fatalf("PlotBars failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"Principal │" + strings.Repeat("█", 20) + " 1000.00",
		"Interest  │" + strings.Repeat("█", 10) + strings.Repeat(" ", 10) + "  500.00",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestPlotBarsNegativeValues(t *testing.T) {
	var buf bytes.Buffer
	format := func(v float64) string { return "v" }
	err := PlotBars(&buf, "Cash flows", nil, model.Series{Values: []float64{-100, 50}}, 30, format)
	if err != nil {
		t.Fatalf("PlotBars failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "Cash flows" {
		t.Fatalf("expected title, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "#1 │░") || strings.Contains(lines[1], "█") {
		t.Fatalf("expected light bar for negative value, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "#2 │█") {
		t.Fatalf("expected solid bar for positive value, got %q", lines[2])
	}
}
