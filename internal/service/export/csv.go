package export

import (
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/analytics"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	analyticsService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/analytics"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// csvRow is one line of the consolidated table export.
type csvRow struct {
	Period              string `csv:"period"`
	Year                int    `csv:"year"`
	EffectiveCount      int    `csv:"effective_count"`
	EffectiveValue      string `csv:"effective_value"`
	ContractedCount     int    `csv:"contracted_count"`
	ContractedValue     string `csv:"contracted_value"`
	CommissionedCount   int    `csv:"commissioned_count"`
	CommissionedValue   string `csv:"commissioned_value"`
	Headcount           int    `csv:"headcount"`
	TotalValue          string `csv:"total_value"`
	VarQtyPct           string `csv:"var_qty_pct"`
	VarValPct           string `csv:"var_val_pct"`
	CumulativeHeadcount int    `csv:"cumulative_headcount"`
	CumulativeValue     string `csv:"cumulative_value"`
}

func toCSVRows(table analytics.ConsolidatedTable) []csvRow {
	rows := make([]csvRow, 0, len(table.Rows)+1)
	for _, r := range table.Rows {
		row := csvRow{
			Period:              r.PeriodLabel,
			Year:                r.Period.Year,
			EffectiveCount:      r.Effective.Count,
			EffectiveValue:      r.Effective.Value.StringFixed(2),
			ContractedCount:     r.Contracted.Count,
			ContractedValue:     r.Contracted.Value.StringFixed(2),
			CommissionedCount:   r.Commissioned.Count,
			CommissionedValue:   r.Commissioned.Value.StringFixed(2),
			Headcount:           r.Headcount,
			TotalValue:          r.TotalValue.StringFixed(2),
			CumulativeHeadcount: r.CumulativeHeadcount,
			CumulativeValue:     r.CumulativeValue.StringFixed(2),
		}
		row.VarQtyPct, row.VarValPct = percentCell(r.VarQtyPct), percentCell(r.VarValPct)
		rows = append(rows, row)
	}

	rows = append(rows, csvRow{
		Period:              "TOTAL",
		Headcount:           table.Footer.TotalHeadcount,
		TotalValue:          table.Footer.TotalValue.StringFixed(2),
		CumulativeHeadcount: table.Footer.TotalHeadcount,
		CumulativeValue:     table.Footer.TotalValue.StringFixed(2),
	})
	return rows
}

// percentCell is the bare two-place number, or the placeholder when the period
// has no baseline.
func percentCell(p *decimal.Decimal) string {
	if p == nil {
		return analyticsService.Placeholder
	}
	return p.StringFixed(2)
}

// RenderCSV writes the consolidated table of records, with a TOTAL footer line.
// Variance cells of the first period hold the placeholder; the footer has none.
func RenderCSV(records []payroll.PayrollRecord) ([]byte, error) {
	return gocsv.MarshalBytes(toCSVRows(analyticsService.Consolidate(records)))
}
