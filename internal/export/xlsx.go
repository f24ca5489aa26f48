package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/fincalc/internal/model"
)

const (
	resultSheet = "Result"
	tableSheet  = "Table"
	chartSheet  = "Chart"
)

// WriteXLSX writes a workbook with the result values, the detail table and the chart data.
func WriteXLSX(w io.Writer, res model.Result) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := f.SetSheetName("Sheet1", resultSheet); err != nil {
		return err
	}

	rows := [][]any{
		{res.Title},
		{"Currency", res.Currency},
	}
	for _, line := range res.Lines {
		rows = append(rows, []any{line.Label, line.Value})
	}
	if res.Record.Summary != "" {
		rows = append(rows, []any{"Summary", res.Record.Summary})
	}
	if err := writeRows(f, resultSheet, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(resultSheet, "A", "A", 32); err != nil {
		return err
	}

	if res.Table != nil && len(res.Table.Rows) > 0 {
		if _, err := f.NewSheet(tableSheet); err != nil {
			return err
		}
		tableRows := make([][]any, 0, len(res.Table.Rows)+1)
		tableRows = append(tableRows, toAny(res.Table.Headers))
		for _, row := range res.Table.Rows {
			tableRows = append(tableRows, toAny(row))
		}
		if err := writeRows(f, tableSheet, tableRows); err != nil {
			return err
		}
		if err := f.SetPanes(tableSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return err
		}
	}

	if res.Chart != nil && len(res.Chart.Series) > 0 {
		if err := writeChart(f, *res.Chart); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeChart(f *excelize.File, c model.Chart) error {
	if _, err := f.NewSheet(chartSheet); err != nil {
		return err
	}
	n := 0
	for _, s := range c.Series {
		n = max(n, len(s.Values))
	}
	header := []any{"Label"}
	for _, s := range c.Series {
		header = append(header, s.Name)
	}
	rows := [][]any{header}
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("%d", i+1)
		if i < len(c.Labels) {
			label = c.Labels[i]
		}
		row := []any{label}
		for _, s := range c.Series {
			if i < len(s.Values) {
				row = append(row, s.Values[i])
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, chartSheet, rows); err != nil {
		return err
	}

	chartType := excelize.Line
	if c.Type == model.ChartBar {
		chartType = excelize.Col
	}
	series := make([]excelize.ChartSeries, 0, len(c.Series))
	for i := range c.Series {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", chartSheet, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", chartSheet, n+1),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", chartSheet, col, col, n+1),
		})
	}
	anchor, err := excelize.CoordinatesToCellName(len(c.Series)+3, 2)
	if err != nil {
		return err
	}
	return f.AddChart(chartSheet, anchor, &excelize.Chart{
		Type:   chartType,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: c.Title}},
	})
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
