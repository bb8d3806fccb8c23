package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	SortCreated       = "created"
	SortChronological = "chronological"
)

// CategoryInput carries a category from a client. Omitted fields are zero.
type CategoryInput struct {
	Count *int             `json:"count,omitempty"`
	Value *decimal.Decimal `json:"value,omitempty"`
}

// ToCategory converts the input, substituting zero for omitted fields.
func (c *CategoryInput) ToCategory() Category {
	var out Category
	if c == nil {
		return out
	}
	if c.Count != nil {
		out.Count = *c.Count
	}
	if c.Value != nil {
		out.Value = *c.Value
	}
	return out
}

func (c *CategoryInput) validate(field string, errs *validator.ValidationErrors) {
	if c == nil {
		return
	}
	if c.Count != nil && *c.Count < 0 {
		errs.Add(field+".count", "count must be non-negative")
	}
	if c.Value != nil {
		if validator.IsNegativeAmount(*c.Value) {
			errs.Add(field+".value", "value must be non-negative")
		} else if !validator.HasAtMostDecimalPlaces(*c.Value, 2) {
			errs.Add(field+".value", "value must have at most 2 decimal places")
		}
	}
}

// PeriodInput identifies a period either by free-form label or by month and year.
// Month 13 designates the 13th salary.
type PeriodInput struct {
	PeriodLabel string `json:"period_label,omitempty"`
	PeriodMonth *int   `json:"period_month,omitempty"`
	PeriodYear  *int   `json:"period_year,omitempty"`
}

// HasPeriod reports whether any period field was provided.
func (p *PeriodInput) HasPeriod() bool {
	return !validator.IsEmpty(p.PeriodLabel) || p.PeriodMonth != nil || p.PeriodYear != nil
}

func (p *PeriodInput) validate(errs *validator.ValidationErrors) {
	if !validator.IsEmpty(p.PeriodLabel) {
		if validator.ExceedsLength(p.PeriodLabel, 64) {
			errs.Add("period_label", "period_label must not exceed 64 characters")
		}
		if p.PeriodMonth != nil || p.PeriodYear != nil {
			errs.Add("period_label", "provide either period_label or period_month/period_year, not both")
		}
		return
	}

	if p.PeriodMonth == nil || p.PeriodYear == nil {
		errs.Add("period_label", "period_label or period_month and period_year are required")
		return
	}
	if *p.PeriodMonth < 1 || *p.PeriodMonth > 13 {
		errs.Add("period_month", "period_month must be between 1 and 13")
	}
	if !validator.IsValidYear(*p.PeriodYear) {
		errs.Add("period_year", "period_year must be a four-digit year")
	}
}

type CreatePayrollRecordRequest struct {
	PeriodInput
	Effective    *CategoryInput `json:"effective,omitempty"`
	Contracted   *CategoryInput `json:"contracted,omitempty"`
	Commissioned *CategoryInput `json:"commissioned,omitempty"`
}

func (r *CreatePayrollRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	r.PeriodInput.validate(&errs)
	r.Effective.validate("effective", &errs)
	r.Contracted.validate("contracted", &errs)
	r.Commissioned.validate("commissioned", &errs)

	return errs.Err()
}

// UpdatePayrollRecordRequest replaces the categories of a record. Categories
// that are omitted keep their stored value; the period may optionally be renamed.
type UpdatePayrollRecordRequest struct {
	PeriodInput
	Effective    *CategoryInput `json:"effective,omitempty"`
	Contracted   *CategoryInput `json:"contracted,omitempty"`
	Commissioned *CategoryInput `json:"commissioned,omitempty"`
}

func (r *UpdatePayrollRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.HasPeriod() {
		r.PeriodInput.validate(&errs)
	}
	r.Effective.validate("effective", &errs)
	r.Contracted.validate("contracted", &errs)
	r.Commissioned.validate("commissioned", &errs)

	if !r.HasPeriod() && r.Effective == nil && r.Contracted == nil && r.Commissioned == nil {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}

type ListPayrollRecordsFilter struct {
	Sort string
	Year *int
}

func (f *ListPayrollRecordsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Sort != "" && f.Sort != SortCreated && f.Sort != SortChronological {
		errs.Add("sort", "sort must be 'created' or 'chronological'")
	}
	if f.Year != nil && !validator.IsValidYear(*f.Year) {
		errs.Add("year", "year must be a four-digit year")
	}

	return errs.Err()
}

type CategoryResponse struct {
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

type PayrollRecordResponse struct {
	ID             string           `json:"id"`
	CompanyID      string           `json:"company_id"`
	PeriodLabel    string           `json:"period_label"`
	Effective      CategoryResponse `json:"effective"`
	Contracted     CategoryResponse `json:"contracted"`
	Commissioned   CategoryResponse `json:"commissioned"`
	TotalHeadcount int              `json:"total_headcount"`
	TotalValue     decimal.Decimal  `json:"total_value"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Warnings       []string         `json:"warnings,omitempty"`
}

func NewPayrollRecordResponse(r PayrollRecord) PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		PeriodLabel:    r.PeriodLabel,
		Effective:      CategoryResponse(r.Effective),
		Contracted:     CategoryResponse(r.Contracted),
		Commissioned:   CategoryResponse(r.Commissioned),
		TotalHeadcount: r.Headcount(),
		TotalValue:     r.TotalValue,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
