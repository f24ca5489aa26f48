package export

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/verte-zerg/fincalc/internal/model"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	chartHeight  = 70.0
)

type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// WritePDF renders a result as a one-document report with its table and chart.
func WritePDF(w io.Writer, res model.Result, generated time.Time) error {
	r := &pdfReport{pdf: fpdf.New("P", "mm", "A4", "")}
	r.tr = r.pdf.UnicodeTranslatorFromDescriptor("")
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle("Financial Calculator Report", true)
	r.pdf.AddPage()

	r.addHeader(res, generated)
	r.addLines(res.Lines)
	if res.Table != nil && len(res.Table.Rows) > 0 {
		r.addTable(*res.Table)
	}
	if res.Chart != nil {
		r.addChart(*res.Chart)
	}
	if res.Record.Summary != "" {
		r.drawSectionHeader("History entry")
		r.pdf.SetFont("Arial", "", 9)
		r.pdf.MultiCell(contentWidth, 5, r.tr(res.Record.Summary), "", "L", false)
	}

	if err := r.pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	return r.pdf.Output(w)
}

func (r *pdfReport) addHeader(res model.Result, generated time.Time) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.CellFormat(contentWidth, 10, "Financial Calculator - Report", "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "", 12)
	r.pdf.CellFormat(contentWidth, 8, r.tr(res.Title), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(100, 100, 100)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s  Currency: %s", generated.Format("2 January 2006 15:04"), res.Currency), "", 1, "L", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.Ln(2)
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.pdf.Ln(3)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.CellFormat(contentWidth, 7, r.tr(title), "", 1, "L", false, 0, "")
	x, y := r.pdf.GetXY()
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(x, y, x+contentWidth, y)
	r.pdf.Ln(2)
}

func (r *pdfReport) addLines(lines []model.Line) {
	if len(lines) == 0 {
		return
	}
	r.drawSectionHeader("Result")
	for _, line := range lines {
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.CellFormat(70, 6, r.tr(line.Label), "", 0, "L", false, 0, "")
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.CellFormat(contentWidth-70, 6, r.tr(line.Value), "", 1, "L", false, 0, "")
	}
}

func (r *pdfReport) addTable(t model.Table) {
	title := t.Title
	if title == "" {
		title = "Details"
	}
	r.drawSectionHeader(title)
	cols := len(t.Headers)
	if cols == 0 {
		return
	}
	colWidth := contentWidth / float64(cols)
	r.drawTableHeader(t.Headers, colWidth)
	r.pdf.SetFont("Arial", "", 8)
	_, pageHeight := r.pdf.GetPageSize()
	for i, row := range t.Rows {
		if r.pdf.GetY()+5 > pageHeight-marginBottom {
			r.pdf.AddPage()
			r.drawTableHeader(t.Headers, colWidth)
			r.pdf.SetFont("Arial", "", 8)
		}
		if i%2 == 0 {
			r.pdf.SetFillColor(245, 247, 250)
		} else {
			r.pdf.SetFillColor(255, 255, 255)
		}
		for c := 0; c < cols; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			align := "L"
			if t.RightAlign[c] {
				align = "R"
			}
			ln := 0
			if c == cols-1 {
				ln = 1
			}
			r.pdf.CellFormat(colWidth, 5, r.tr(cell), "", ln, align, true, 0, "")
		}
	}
}

func (r *pdfReport) drawTableHeader(headers []string, colWidth float64) {
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		r.pdf.CellFormat(colWidth, 6, r.tr(h), "1", ln, "C", true, 0, "")
	}
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *pdfReport) addChart(c model.Chart) {
	if len(c.Series) == 0 || len(c.Series[0].Values) == 0 {
		return
	}
	title := c.Title
	if title == "" {
		title = "Chart"
	}
	r.drawSectionHeader(title)
	_, pageHeight := r.pdf.GetPageSize()
	if r.pdf.GetY()+chartHeight+10 > pageHeight-marginBottom {
		r.pdf.AddPage()
	}

	lo, hi := chartRange(c.Series)
	x0, y0 := marginLeft+20, r.pdf.GetY()
	width, height := contentWidth-20, chartHeight
	toY := func(v float64) float64 {
		return y0 + height - (v-lo)/(hi-lo)*height
	}

	r.pdf.SetDrawColor(150, 150, 150)
	r.pdf.SetLineWidth(0.2)
	r.pdf.Line(x0, y0, x0, y0+height)
	r.pdf.Line(x0, toY(math.Max(lo, 0)), x0+width, toY(math.Max(lo, 0)))
	r.pdf.SetFont("Arial", "", 7)
	r.pdf.Text(marginLeft, y0+2, fmt.Sprintf("%.2f", hi))
	r.pdf.Text(marginLeft, y0+height, fmt.Sprintf("%.2f", lo))

	switch c.Type {
	case model.ChartBar:
		values := c.Series[0].Values
		slot := width / float64(len(values))
		base := toY(math.Max(lo, 0))
		r.pdf.SetFillColor(0, 153, 204)
		for i, v := range values {
			top := toY(v)
			x := x0 + float64(i)*slot + slot*0.15
			r.pdf.Rect(x, math.Min(top, base), slot*0.7, math.Abs(base-top), "F")
			if i < len(c.Labels) && len(values) <= 12 {
				r.pdf.Text(x, y0+height+4, r.tr(c.Labels[i]))
			}
		}
	default:
		r.pdf.SetLineWidth(0.5)
		for si, s := range c.Series {
			red, green, blue := seriesColor(si)
			r.pdf.SetDrawColor(red, green, blue)
			n := len(s.Values)
			step := width
			if n > 1 {
				step = width / float64(n-1)
			}
			for i := 1; i < n; i++ {
				r.pdf.Line(x0+float64(i-1)*step, toY(s.Values[i-1]), x0+float64(i)*step, toY(s.Values[i]))
			}
		}
		if len(c.Labels) > 0 {
			r.pdf.Text(x0, y0+height+4, r.tr(c.Labels[0]))
			last := r.tr(c.Labels[len(c.Labels)-1])
			r.pdf.Text(x0+width-r.pdf.GetStringWidth(last), y0+height+4, last)
		}
	}
	r.pdf.SetLineWidth(0.2)
	r.pdf.SetY(y0 + height + 8)
}

func chartRange(series []model.Series) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, s := range series {
		for _, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	return lo, hi
}

func seriesColor(i int) (int, int, int) {
	palette := [][3]int{{0, 153, 204}, {204, 0, 153}, {230, 150, 0}, {0, 150, 80}}
	c := palette[i%len(palette)]
	return c[0], c[1], c[2]
}
