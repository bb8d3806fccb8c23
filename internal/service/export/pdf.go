package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/analytics"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/pdf"
	analyticsService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/analytics"
	"github.com/shopspring/decimal"
)

const (
	tableRowFormat      = "%-16s %4s %4s %4s %5s %14s %9s %9s %14s"
	comparisonRowFormat = "%-14s %6s %6s %6s %14s %14s %9s"
)

var categoryTitles = map[payroll.CategoryKind]string{
	payroll.CategoryEffective:    "Effective",
	payroll.CategoryContracted:   "Contracted",
	payroll.CategoryCommissioned: "Commissioned",
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// pdfReport is everything rendered into the PDF export.
type pdfReport struct {
	CompanyName string
	GeneratedAt time.Time
	Table       analytics.ConsolidatedTable
	// Requested is set when the caller asked for a comparison section.
	Requested  bool
	Comparison *analytics.Comparison
}

func renderPDF(r pdfReport) ([]byte, error) {
	doc := pdf.New().
		Title("Payroll report - " + r.CompanyName).
		Text("Generated at " + r.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")).
		Blank()

	doc.Heading("Summary").
		Text(fmt.Sprintf("Periods: %d", len(r.Table.Rows))).
		Text(fmt.Sprintf("Accumulated headcount: %d", r.Table.Footer.TotalHeadcount)).
		Text("Accumulated cost: " + money(r.Table.Footer.TotalValue)).
		Blank()

	doc.Heading("Consolidated table")
	doc.Text(fmt.Sprintf(tableRowFormat, "Period", "Eff", "Con", "Com", "Qty", "Total", "Var qty", "Var val", "Cumulative"))
	for _, row := range r.Table.Rows {
		doc.Text(fmt.Sprintf(tableRowFormat,
			row.PeriodLabel,
			strconv.Itoa(row.Effective.Count),
			strconv.Itoa(row.Contracted.Count),
			strconv.Itoa(row.Commissioned.Count),
			strconv.Itoa(row.Headcount),
			money(row.TotalValue),
			analyticsService.FormatPercent(row.VarQtyPct),
			analyticsService.FormatPercent(row.VarValPct),
			money(row.CumulativeValue),
		))
	}
	doc.Text(fmt.Sprintf(tableRowFormat, "TOTAL", "", "", "", strconv.Itoa(r.Table.Footer.TotalHeadcount), money(r.Table.Footer.TotalValue), "", "", ""))

	if r.Requested {
		doc.Blank()
		writeComparison(doc, r.Comparison)
	}

	return doc.Bytes()
}

func writeComparison(doc *pdf.Document, c *analytics.Comparison) {
	if c == nil {
		doc.Heading("Comparison").Text("Insufficient data: both periods must exist to compare.")
		return
	}

	doc.Heading(fmt.Sprintf("Comparison %s -> %s", c.A.PeriodLabel, c.B.PeriodLabel))
	doc.Text(fmt.Sprintf(comparisonRowFormat, "Category", "Qty A", "Qty B", "Delta", "Value A", "Value B", "Var"))
	for _, cat := range c.Categories() {
		variance := cat.PercentVariance
		doc.Text(fmt.Sprintf(comparisonRowFormat,
			categoryTitles[cat.Category],
			strconv.Itoa(cat.CountA),
			strconv.Itoa(cat.CountB),
			signed(cat.DeltaCount),
			money(cat.ValueA),
			money(cat.ValueB),
			analyticsService.FormatPercent(&variance),
		))
	}
	variance := c.VarPct
	doc.Text(fmt.Sprintf(comparisonRowFormat,
		"Total",
		strconv.Itoa(c.QtyA),
		strconv.Itoa(c.QtyB),
		signed(c.DeltaQty),
		money(c.ValA),
		money(c.ValB),
		analyticsService.FormatPercent(&variance),
	))
	doc.Text("Cost difference: " + money(c.DeltaValue))
}
