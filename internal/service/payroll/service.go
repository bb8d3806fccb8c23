package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	analyticsService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/analytics"
)

type PayrollServiceImpl struct {
	companyRepo company.CompanyRepository
	recordRepo  payroll.PayrollRecordRepository
}

func NewPayrollService(companyRepo company.CompanyRepository, recordRepo payroll.PayrollRecordRepository) payroll.PayrollService {
	return &PayrollServiceImpl{
		companyRepo: companyRepo,
		recordRepo:  recordRepo,
	}
}

// resolveLabel turns the request period into the stored label.
func resolveLabel(p payroll.PeriodInput) string {
	if label := strings.TrimSpace(p.PeriodLabel); label != "" {
		return label
	}
	return analyticsService.PeriodLabel(*p.PeriodMonth, *p.PeriodYear)
}

// warningsFor flags labels the engine cannot place on the timeline and labels
// that already exist for another record of the company.
func (s *PayrollServiceImpl) warningsFor(ctx context.Context, companyID, selfID, label string) []string {
	var warnings []string

	if p := analyticsService.ParsePeriod(label); !p.Known() || p.Year == 0 {
		warnings = append(warnings, payroll.WarningUnrecognizedPeriod)
	}

	records, err := s.recordRepo.ListByCompany(ctx, companyID)
	if err != nil {
		slog.Warn("skipping duplicate period check", "company_id", companyID, "error", err)
		return warnings
	}
	for _, r := range records {
		if r.ID != selfID && analyticsService.SamePeriod(r.PeriodLabel, label) {
			warnings = append(warnings, payroll.WarningDuplicatePeriod)
			break
		}
	}
	return warnings
}

func (s *PayrollServiceImpl) ensureCompany(ctx context.Context, companyID string) error {
	exists, err := s.companyRepo.ExistsByIDOrUsername(ctx, &companyID, nil)
	if err != nil {
		return fmt.Errorf("failed to check company: %w", err)
	}
	if !exists {
		return company.ErrCompanyNotFound
	}
	return nil
}

// Create implements payroll.PayrollService.
func (s *PayrollServiceImpl) Create(ctx context.Context, companyID string, req payroll.CreatePayrollRecordRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	label := resolveLabel(req.PeriodInput)
	warnings := s.warningsFor(ctx, companyID, "", label)

	record := payroll.NewPayrollRecord(companyID, label,
		req.Effective.ToCategory(),
		req.Contracted.ToCategory(),
		req.Commissioned.ToCategory(),
	)
	created, err := s.recordRepo.Create(ctx, record)
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	resp := payroll.NewPayrollRecordResponse(created)
	resp.Warnings = warnings
	return resp, nil
}

// GetByID implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetByID(ctx context.Context, companyID, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.recordRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return payroll.NewPayrollRecordResponse(record), nil
}

// List implements payroll.PayrollService. The default order is insertion
// order; "chronological" applies the engine's period normalization.
func (s *PayrollServiceImpl) List(ctx context.Context, companyID string, filter payroll.ListPayrollRecordsFilter) ([]payroll.PayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}

	if filter.Year != nil {
		filtered := records[:0:0]
		for _, r := range records {
			if analyticsService.ParsePeriod(r.PeriodLabel).Year == *filter.Year {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	if filter.Sort == payroll.SortChronological {
		records = analyticsService.Normalize(records)
	}

	resp := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, payroll.NewPayrollRecordResponse(r))
	}
	return resp, nil
}

// Update implements payroll.PayrollService.
func (s *PayrollServiceImpl) Update(ctx context.Context, companyID, id string, req payroll.UpdatePayrollRecordRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.recordRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	var warnings []string
	if req.HasPeriod() {
		record.PeriodLabel = resolveLabel(req.PeriodInput)
		warnings = s.warningsFor(ctx, companyID, record.ID, record.PeriodLabel)
	}

	effective, contracted, commissioned := record.Effective, record.Contracted, record.Commissioned
	if req.Effective != nil {
		effective = req.Effective.ToCategory()
	}
	if req.Contracted != nil {
		contracted = req.Contracted.ToCategory()
	}
	if req.Commissioned != nil {
		commissioned = req.Commissioned.ToCategory()
	}
	record.SetCategories(effective, contracted, commissioned)

	updated, err := s.recordRepo.Update(ctx, record)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	resp := payroll.NewPayrollRecordResponse(updated)
	resp.Warnings = warnings
	return resp, nil
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, companyID, id string) error {
	return s.recordRepo.Delete(ctx, companyID, id)
}
