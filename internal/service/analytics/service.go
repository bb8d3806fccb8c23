package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/analytics"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

type AnalyticsServiceImpl struct {
	companyRepo company.CompanyRepository
	recordRepo  payroll.PayrollRecordRepository
	fileService file.FileService
	now         func() time.Time
}

func NewAnalyticsService(companyRepo company.CompanyRepository, recordRepo payroll.PayrollRecordRepository, fileService file.FileService) analytics.AnalyticsService {
	return &AnalyticsServiceImpl{
		companyRepo: companyRepo,
		recordRepo:  recordRepo,
		fileService: fileService,
		now:         time.Now,
	}
}

// loadCompanySet fetches the company and its payroll records in parallel.
func (s *AnalyticsServiceImpl) loadCompanySet(ctx context.Context, companyID string) (company.Company, []payroll.PayrollRecord, error) {
	var (
		companyData company.Company
		records     []payroll.PayrollRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		companyData, err = s.companyRepo.GetByID(gctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to get company: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.recordRepo.ListByCompany(gctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to list payroll records: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return company.Company{}, nil, err
	}
	return companyData, records, nil
}

// Overview implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Overview(ctx context.Context, companyID string) (analytics.OverviewResponse, error) {
	companyData, records, err := s.loadCompanySet(ctx, companyID)
	if err != nil {
		return analytics.OverviewResponse{}, err
	}

	summary := analytics.CompanySummary{
		ID:       companyData.ID,
		Name:     companyData.Name,
		Username: companyData.Username,
	}
	if companyData.LogoURL != nil && *companyData.LogoURL != "" {
		logoURL := s.fileService.GetFileURL(*companyData.LogoURL)
		summary.LogoURL = &logoURL
	}

	return analytics.OverviewResponse{
		Company:     summary,
		RecordCount: len(records),
		GrandTotals: GrandTotal(records),
		Trend:       TrendSeries(records),
		Table:       Consolidate(records),
		GeneratedAt: s.now().UTC(),
	}, nil
}

// Compare implements analytics.AnalyticsService. Records are selected by ID so
// that duplicate period labels stay addressable.
func (s *AnalyticsServiceImpl) Compare(ctx context.Context, companyID, recordA, recordB string) (analytics.CompareResponse, error) {
	_, records, err := s.loadCompanySet(ctx, companyID)
	if err != nil {
		return analytics.CompareResponse{}, err
	}

	comparison := Compare(FindByID(records, recordA), FindByID(records, recordB))
	return analytics.CompareResponse{
		Comparison:       comparison,
		InsufficientData: comparison == nil,
	}, nil
}

// Trend implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Trend(ctx context.Context, companyID string) ([]analytics.TrendPoint, error) {
	_, records, err := s.loadCompanySet(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return TrendSeries(records), nil
}
