package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryKind names one of the three headcount categories of a payroll period.
type CategoryKind string

const (
	CategoryEffective    CategoryKind = "effective"    // CLT employees
	CategoryContracted   CategoryKind = "contracted"   // PJ contractors
	CategoryCommissioned CategoryKind = "commissioned" // commissioned staff
)

// CategoryKinds is the fixed display order of the categories.
var CategoryKinds = []CategoryKind{CategoryEffective, CategoryContracted, CategoryCommissioned}

// Category is the headcount and cost of one category in one period.
type Category struct {
	Count int
	Value decimal.Decimal
}

// PayrollRecord is the monthly (or 13th salary) payroll snapshot of a company.
// TotalValue is derived from the categories and must only be changed through
// NewPayrollRecord, SetCategories or Recalculate.
type PayrollRecord struct {
	ID           string
	CompanyID    string
	PeriodLabel  string
	Effective    Category
	Contracted   Category
	Commissioned Category
	TotalValue   decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewPayrollRecord(companyID, periodLabel string, effective, contracted, commissioned Category) PayrollRecord {
	r := PayrollRecord{
		CompanyID:   companyID,
		PeriodLabel: periodLabel,
	}
	r.SetCategories(effective, contracted, commissioned)
	return r
}

// SetCategories replaces all three categories and recomputes TotalValue.
func (r *PayrollRecord) SetCategories(effective, contracted, commissioned Category) {
	r.Effective = effective
	r.Contracted = contracted
	r.Commissioned = commissioned
	r.Recalculate()
}

func (r *PayrollRecord) Recalculate() {
	total := decimal.Zero
	for _, kind := range CategoryKinds {
		total = total.Add(r.Category(kind).Value)
	}
	r.TotalValue = total
}

// Headcount is the sum of the three category counts.
func (r PayrollRecord) Headcount() int {
	n := 0
	for _, kind := range CategoryKinds {
		n += r.Category(kind).Count
	}
	return n
}

// Category returns the category identified by kind.
func (r PayrollRecord) Category(kind CategoryKind) Category {
	switch kind {
	case CategoryEffective:
		return r.Effective
	case CategoryContracted:
		return r.Contracted
	case CategoryCommissioned:
		return r.Commissioned
	default:
		return Category{}
	}
}
