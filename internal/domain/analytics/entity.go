package analytics

import (
	"cmp"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Period is the sortable key of a period label. MonthRank is 1-12 for
// calendar months, 13 for the 13th salary and 0 for unrecognized tokens.
type Period struct {
	Year      int `json:"year"`
	MonthRank int `json:"month_rank"`
}

// Compare orders periods by year, then month rank, returning -1, 0 or +1.
func (p Period) Compare(o Period) int {
	if c := cmp.Compare(p.Year, o.Year); c != 0 {
		return c
	}
	return cmp.Compare(p.MonthRank, o.MonthRank)
}

// Known reports whether the month token was recognized.
func (p Period) Known() bool {
	return p.MonthRank > 0
}

type GrandTotals struct {
	TotalHeadcount int             `json:"total_headcount"`
	TotalValue     decimal.Decimal `json:"total_value"`
}

type RecordRef struct {
	ID          string `json:"id"`
	PeriodLabel string `json:"period_label"`
}

type CategoryComparison struct {
	Category        payroll.CategoryKind `json:"category"`
	CountA          int                  `json:"count_a"`
	CountB          int                  `json:"count_b"`
	ValueA          decimal.Decimal      `json:"value_a"`
	ValueB          decimal.Decimal      `json:"value_b"`
	DeltaCount      int                  `json:"delta_count"`
	PercentVariance decimal.Decimal      `json:"percent_variance"`
}

// Comparison is the period A to period B comparison of two records.
type Comparison struct {
	A            RecordRef          `json:"a"`
	B            RecordRef          `json:"b"`
	Effective    CategoryComparison `json:"effective"`
	Contracted   CategoryComparison `json:"contracted"`
	Commissioned CategoryComparison `json:"commissioned"`
	QtyA         int                `json:"qty_a"`
	QtyB         int                `json:"qty_b"`
	ValA         decimal.Decimal    `json:"val_a"`
	ValB         decimal.Decimal    `json:"val_b"`
	DeltaQty     int                `json:"delta_qty"`
	DeltaValue   decimal.Decimal    `json:"delta_value"`
	VarPct       decimal.Decimal    `json:"var_pct"`
}

// Categories returns the per-category comparisons in display order.
func (c *Comparison) Categories() []CategoryComparison {
	return []CategoryComparison{c.Effective, c.Contracted, c.Commissioned}
}

// TrendPoint is one period of the historical series. The variance fields are
// nil for the first point: there is no previous period to compare against.
type TrendPoint struct {
	Index       int              `json:"index"`
	RecordID    string           `json:"record_id"`
	PeriodLabel string           `json:"period_label"`
	Period      Period           `json:"period"`
	Headcount   int              `json:"headcount"`
	TotalValue  decimal.Decimal  `json:"total_value"`
	VarQtyPct   *decimal.Decimal `json:"var_qty_pct"`
	VarValPct   *decimal.Decimal `json:"var_val_pct"`
}

type ConsolidatedRow struct {
	TrendPoint
	Effective           payroll.CategoryResponse `json:"effective"`
	Contracted          payroll.CategoryResponse `json:"contracted"`
	Commissioned        payroll.CategoryResponse `json:"commissioned"`
	CumulativeHeadcount int                      `json:"cumulative_headcount"`
	CumulativeValue     decimal.Decimal          `json:"cumulative_value"`
}

// ConsolidatedTable is the audit view: one row per period plus a footer.
type ConsolidatedTable struct {
	Rows   []ConsolidatedRow `json:"rows"`
	Footer GrandTotals       `json:"footer"`
}
