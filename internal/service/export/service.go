package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/export"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/storage"
	analyticsService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/analytics"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/service/file"
	"github.com/google/uuid"
)

type ExportServiceImpl struct {
	companyRepo company.CompanyRepository
	recordRepo  payroll.PayrollRecordRepository
	fileService file.FileService
	now         func() time.Time
}

func NewExportService(companyRepo company.CompanyRepository, recordRepo payroll.PayrollRecordRepository, fileService file.FileService) export.ExportService {
	return &ExportServiceImpl{
		companyRepo: companyRepo,
		recordRepo:  recordRepo,
		fileService: fileService,
		now:         time.Now,
	}
}

func (s *ExportServiceImpl) load(ctx context.Context, companyID string) (company.Company, []payroll.PayrollRecord, error) {
	companyData, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return company.Company{}, nil, fmt.Errorf("failed to get company: %w", err)
	}
	records, err := s.recordRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return company.Company{}, nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	return companyData, records, nil
}

// filename is unique per export so earlier files stay downloadable.
func filename(username string, at time.Time, format export.Format) string {
	return fmt.Sprintf("%s-payroll-%s-%s.%s", username, at.UTC().Format("20060102-150405"), uuid.NewString()[:8], format)
}

func (s *ExportServiceImpl) save(ctx context.Context, companyData company.Company, format export.Format, at time.Time, data []byte) (export.ExportResponse, error) {
	name := filename(companyData.Username, at, format)
	path, err := s.fileService.SaveExport(ctx, companyData.ID, name, data)
	if err != nil {
		return export.ExportResponse{}, fmt.Errorf("failed to store %s export: %w", format, err)
	}

	slog.Info("Export generated", "company_id", companyData.ID, "format", format, "path", path, "bytes", len(data))
	return export.ExportResponse{
		Format:      format,
		Filename:    name,
		Path:        path,
		URL:         export.DownloadURL(companyData.ID, name),
		GeneratedAt: at,
	}, nil
}

// ExportCSV implements export.ExportService.
func (s *ExportServiceImpl) ExportCSV(ctx context.Context, companyID string) (export.ExportResponse, error) {
	companyData, records, err := s.load(ctx, companyID)
	if err != nil {
		return export.ExportResponse{}, err
	}

	data, err := RenderCSV(records)
	if err != nil {
		return export.ExportResponse{}, fmt.Errorf("failed to render csv: %w", err)
	}
	return s.save(ctx, companyData, export.FormatCSV, s.now().UTC(), data)
}

// ExportPDF implements export.ExportService. The comparison section is added
// when either record ID is given; unknown IDs render an insufficient data note.
func (s *ExportServiceImpl) ExportPDF(ctx context.Context, companyID string, req export.PDFExportRequest) (export.ExportResponse, error) {
	companyData, records, err := s.load(ctx, companyID)
	if err != nil {
		return export.ExportResponse{}, err
	}

	at := s.now().UTC()
	report := pdfReport{
		CompanyName: companyData.Name,
		GeneratedAt: at,
		Table:       analyticsService.Consolidate(records),
		Requested:   req.RecordA != "" || req.RecordB != "",
	}
	if report.Requested {
		report.Comparison = analyticsService.Compare(
			analyticsService.FindByID(records, req.RecordA),
			analyticsService.FindByID(records, req.RecordB),
		)
	}

	data, err := renderPDF(report)
	if err != nil {
		return export.ExportResponse{}, fmt.Errorf("failed to render pdf: %w", err)
	}
	return s.save(ctx, companyData, export.FormatPDF, at, data)
}

// Open implements export.ExportService.
func (s *ExportServiceImpl) Open(ctx context.Context, companyID, filename string) (io.ReadCloser, export.Format, error) {
	format, ok := export.FormatOf(filename)
	if !ok {
		return nil, "", export.ErrExportNotFound
	}
	body, err := s.fileService.OpenExport(ctx, companyID, filename)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, "", fmt.Errorf("%w: %s", export.ErrExportNotFound, filename)
		}
		return nil, "", fmt.Errorf("failed to open export: %w", err)
	}
	return body, format, nil
}
