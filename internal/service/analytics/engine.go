package analytics

import (
	"iter"
	"slices"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/analytics"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Placeholder is rendered where a variance has no baseline (first trend point).
const Placeholder = "—"

var hundred = decimal.NewFromInt(100)

func clampCategory(c payroll.Category) payroll.Category {
	if c.Count < 0 {
		c.Count = 0
	}
	if c.Value.IsNegative() {
		c.Value = decimal.Zero
	}
	return c
}

// sanitize coerces negative inputs to zero and re-derives the total.
func sanitize(r payroll.PayrollRecord) payroll.PayrollRecord {
	r.SetCategories(clampCategory(r.Effective), clampCategory(r.Contracted), clampCategory(r.Commissioned))
	return r
}

// PercentChange is (next-base)/base*100 rounded to two places, or zero when base is zero.
func PercentChange(base, next decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return next.Sub(base).Div(base).Mul(hundred).Round(2)
}

func percentChangeInt(base, next int) decimal.Decimal {
	return PercentChange(decimal.NewFromInt(int64(base)), decimal.NewFromInt(int64(next)))
}

// Normalize returns a new slice ordered by (year, month rank). Records with
// the same period keep their relative input order. records is not modified.
func Normalize(records []payroll.PayrollRecord) []payroll.PayrollRecord {
	type keyed struct {
		record payroll.PayrollRecord
		period analytics.Period
	}

	ks := make([]keyed, len(records))
	for i, r := range records {
		ks[i] = keyed{record: r, period: ParsePeriod(r.PeriodLabel)}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		return a.period.Compare(b.period)
	})

	out := make([]payroll.PayrollRecord, len(ks))
	for i, k := range ks {
		out[i] = k.record
	}
	return out
}

func GrandTotal(records []payroll.PayrollRecord) analytics.GrandTotals {
	totals := analytics.GrandTotals{TotalValue: decimal.Zero}
	for _, r := range records {
		r = sanitize(r)
		totals.TotalHeadcount += r.Headcount()
		totals.TotalValue = totals.TotalValue.Add(r.TotalValue)
	}
	return totals
}

func compareCategory(kind payroll.CategoryKind, ra, rb payroll.PayrollRecord) analytics.CategoryComparison {
	a, b := ra.Category(kind), rb.Category(kind)
	return analytics.CategoryComparison{
		Category:        kind,
		CountA:          a.Count,
		CountB:          b.Count,
		ValueA:          a.Value,
		ValueB:          b.Value,
		DeltaCount:      b.Count - a.Count,
		PercentVariance: PercentChange(a.Value, b.Value),
	}
}

// Compare describes the change from period a to period b. It returns nil when
// either record is absent.
func Compare(a, b *payroll.PayrollRecord) *analytics.Comparison {
	if a == nil || b == nil {
		return nil
	}
	ra, rb := sanitize(*a), sanitize(*b)

	qtyA, qtyB := ra.Headcount(), rb.Headcount()
	return &analytics.Comparison{
		A:            analytics.RecordRef{ID: ra.ID, PeriodLabel: ra.PeriodLabel},
		B:            analytics.RecordRef{ID: rb.ID, PeriodLabel: rb.PeriodLabel},
		Effective:    compareCategory(payroll.CategoryEffective, ra, rb),
		Contracted:   compareCategory(payroll.CategoryContracted, ra, rb),
		Commissioned: compareCategory(payroll.CategoryCommissioned, ra, rb),
		QtyA:         qtyA,
		QtyB:         qtyB,
		ValA:         ra.TotalValue,
		ValB:         rb.TotalValue,
		DeltaQty:     qtyB - qtyA,
		DeltaValue:   rb.TotalValue.Sub(ra.TotalValue),
		VarPct:       PercentChange(ra.TotalValue, rb.TotalValue),
	}
}

// Trend yields one point per record in chronological order. The sequence can
// be ranged over any number of times.
func Trend(records []payroll.PayrollRecord) iter.Seq[analytics.TrendPoint] {
	ordered := Normalize(records)
	for i := range ordered {
		ordered[i] = sanitize(ordered[i])
	}

	return func(yield func(analytics.TrendPoint) bool) {
		for i, r := range ordered {
			point := analytics.TrendPoint{
				Index:       i,
				RecordID:    r.ID,
				PeriodLabel: r.PeriodLabel,
				Period:      ParsePeriod(r.PeriodLabel),
				Headcount:   r.Headcount(),
				TotalValue:  r.TotalValue,
			}
			if i > 0 {
				prev := ordered[i-1]
				qty := percentChangeInt(prev.Headcount(), r.Headcount())
				val := PercentChange(prev.TotalValue, r.TotalValue)
				point.VarQtyPct = &qty
				point.VarValPct = &val
			}
			if !yield(point) {
				return
			}
		}
	}
}

// TrendSeries collects Trend into a slice that is never nil.
func TrendSeries(records []payroll.PayrollRecord) []analytics.TrendPoint {
	points := slices.Collect(Trend(records))
	if points == nil {
		return []analytics.TrendPoint{}
	}
	return points
}

// Consolidate builds the audit table: the trend series enriched with the
// category breakdown and running totals, plus a grand-total footer.
func Consolidate(records []payroll.PayrollRecord) analytics.ConsolidatedTable {
	ordered := Normalize(records)
	table := analytics.ConsolidatedTable{
		Rows:   make([]analytics.ConsolidatedRow, 0, len(ordered)),
		Footer: GrandTotal(records),
	}

	cumulativeQty := 0
	cumulativeVal := decimal.Zero
	i := 0
	for point := range Trend(ordered) {
		r := sanitize(ordered[i])
		i++

		cumulativeQty += point.Headcount
		cumulativeVal = cumulativeVal.Add(point.TotalValue)
		table.Rows = append(table.Rows, analytics.ConsolidatedRow{
			TrendPoint:          point,
			Effective:           payroll.CategoryResponse(r.Effective),
			Contracted:          payroll.CategoryResponse(r.Contracted),
			Commissioned:        payroll.CategoryResponse(r.Commissioned),
			CumulativeHeadcount: cumulativeQty,
			CumulativeValue:     cumulativeVal,
		})
	}
	return table
}

// FormatPercent renders a variance with two decimals, or Placeholder when nil.
func FormatPercent(p *decimal.Decimal) string {
	if p == nil {
		return Placeholder
	}
	return p.StringFixed(2) + "%"
}

// FindByID returns a pointer to the record with id, or nil.
func FindByID(records []payroll.PayrollRecord, id string) *payroll.PayrollRecord {
	if id == "" {
		return nil
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}
