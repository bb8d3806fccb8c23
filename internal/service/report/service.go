package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/gemini"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/jwt"
)

type NarrativeServiceImpl struct {
	companyRepo company.CompanyRepository
	recordRepo  payroll.PayrollRecordRepository
	reportRepo  report.NarrativeReportRepository
	generator   gemini.Generator
}

// NewNarrativeService builds the narrative service. generator may be nil, in
// which case Generate reports report.ErrNarrativeUnavailable.
func NewNarrativeService(companyRepo company.CompanyRepository, recordRepo payroll.PayrollRecordRepository, reportRepo report.NarrativeReportRepository, generator gemini.Generator) report.NarrativeService {
	return &NarrativeServiceImpl{
		companyRepo: companyRepo,
		recordRepo:  recordRepo,
		reportRepo:  reportRepo,
		generator:   generator,
	}
}

// Generate implements report.NarrativeService.
func (s *NarrativeServiceImpl) Generate(ctx context.Context, companyID string) (report.NarrativeReportResponse, error) {
	if s.generator == nil {
		return report.NarrativeReportResponse{}, report.ErrNarrativeUnavailable
	}

	companyData, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return report.NarrativeReportResponse{}, fmt.Errorf("failed to get company: %w", err)
	}
	records, err := s.recordRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return report.NarrativeReportResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}
	if len(records) == 0 {
		return report.NarrativeReportResponse{}, report.ErrNoPayrollData
	}

	prompt := BuildPrompt(companyData.Name, records)
	content, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, gemini.ErrNotConfigured) {
			return report.NarrativeReportResponse{}, report.ErrNarrativeUnavailable
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report.NarrativeReportResponse{}, ctxErr
		}
		slog.Error("Narrative generation failed", "company_id", companyID, "error", err)
		return report.NarrativeReportResponse{}, fmt.Errorf("%w: %v", report.ErrGenerationFailed, err)
	}

	newReport := report.NarrativeReport{
		CompanyID: companyID,
		Model:     s.generator.Model(),
		Prompt:    prompt,
		Content:   strings.TrimSpace(content),
	}
	if claims, err := jwt.ClaimsFromContext(ctx); err == nil {
		newReport.CreatedBy = &claims.UserID
	}

	saved, err := s.reportRepo.Create(ctx, newReport)
	if err != nil {
		return report.NarrativeReportResponse{}, fmt.Errorf("failed to save narrative report: %w", err)
	}

	slog.Info("Narrative report generated", "company_id", companyID, "report_id", saved.ID, "model", saved.Model)
	return report.NewNarrativeReportResponse(saved), nil
}

// GetLatest implements report.NarrativeService.
func (s *NarrativeServiceImpl) GetLatest(ctx context.Context, companyID string) (report.NarrativeReportResponse, error) {
	latest, err := s.reportRepo.GetLatestByCompany(ctx, companyID)
	if err != nil {
		return report.NarrativeReportResponse{}, err
	}
	return report.NewNarrativeReportResponse(latest), nil
}
