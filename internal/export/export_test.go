package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/fincalc/internal/model"
)

func sampleResult() model.Result {
	table := &model.Table{
		Headers:    []string{"Period", "Payment", "Balance"},
		RightAlign: map[int]bool{0: true, 1: true, 2: true},
	}
	balances := make([]float64, 0, 120)
	for i := 1; i <= 120; i++ {
		balance := float64(120-i) * 100
		table.Rows = append(table.Rows, []string{fmt.Sprintf("%d", i), "€100.00", fmt.Sprintf("€%.2f", balance)})
		balances = append(balances, balance)
	}
	return model.Result{
		Kind:     model.KindAmortization,
		Title:    "Amortization",
		Currency: "EUR",
		Lines: []model.Line{
			{Label: "Monthly Payment", Value: "€100.00"},
			{Label: "Total Paid", Value: "€12000.00"},
		},
		Table: table,
		Chart: &model.Chart{
			Type:   model.ChartLine,
			Title:  "Remaining balance",
			Labels: []string{"Month 1", "Month 120"},
			Series: []model.Series{{Name: "Balance", Values: balances}},
		},
		Record: model.CalculationRecord{Summary: "Amortization: Amount=€12000.00, Rate=0.00%, Time=10 years, Monthly Payment=€100.00"},
	}
}

func TestWriteHistoryCSVQuotesSummaries(t *testing.T) {
	records := []model.CalculationRecord{
		{Kind: model.KindNPV, Currency: "USD", Summary: `NPV: Flows=[-$1000.00, $1100.00], Rate=10.00%, NPV=$0.00`, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Kind: model.KindSimple, Currency: "EUR", Summary: `say "hi"`, CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteHistoryCSV(&buf, records))
	want := "timestamp,kind,currency,summary\n" +
		"2024-01-02T03:04:05Z,npv,USD,\"NPV: Flows=[-$1000.00, $1100.00], Rate=10.00%, NPV=$0.00\"\n" +
		"2024-01-03T00:00:00Z,simple,EUR,\"say \"\"hi\"\"\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteHistoryCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteHistoryCSV(&buf, nil), ErrEmptyHistory)
	assert.Zero(t, buf.Len())
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleResult(), time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestWritePDFBarChartWithoutTable(t *testing.T) {
	res := model.Result{
		Title: "IRR",
		Lines: []model.Line{{Label: "IRR", Value: "10.00%"}},
		Chart: &model.Chart{
			Type:   model.ChartBar,
			Labels: []string{"Period 1", "Period 2"},
			Series: []model.Series{{Values: []float64{-1000, 1100}}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, res, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleResult()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Result", "Table", "Chart"}, f.GetSheetList())

	title, err := f.GetCellValue("Result", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Amortization", title)
	label, err := f.GetCellValue("Result", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Monthly Payment", label)
	value, err := f.GetCellValue("Result", "B3")
	require.NoError(t, err)
	assert.Equal(t, "€100.00", value)

	rows, err := f.GetRows("Table")
	require.NoError(t, err)
	require.Len(t, rows, 121)
	assert.Equal(t, []string{"Period", "Payment", "Balance"}, rows[0])

	header, err := f.GetCellValue("Chart", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Balance", header)
	first, err := f.GetCellValue("Chart", "B2")
	require.NoError(t, err)
	assert.Equal(t, "11900", first)
}

func TestToFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "history.csv")
	err := ToFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "ok")
		return err
	})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestToFilePropagatesWriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	err := ToFile(path, func(io.Writer) error { return ErrEmptyHistory })
	assert.ErrorIs(t, err, ErrEmptyHistory)
}
