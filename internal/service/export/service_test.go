package export

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/export"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/service/file"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompanyRepo struct {
	company.CompanyRepository
}

func (stubCompanyRepo) GetByID(ctx context.Context, id string) (company.Company, error) {
	if id != "c1" {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return company.Company{ID: "c1", Name: "Acme", Username: "acme"}, nil
}

type stubRecordRepo struct {
	payroll.PayrollRecordRepository
	records []payroll.PayrollRecord
}

func (s stubRecordRepo) ListByCompany(ctx context.Context, companyID string) ([]payroll.PayrollRecord, error) {
	return s.records, nil
}

func rec(id, label string, effCount int, effValue string) payroll.PayrollRecord {
	r := payroll.NewPayrollRecord("c1", label,
		payroll.Category{Count: effCount, Value: decimal.RequireFromString(effValue)},
		payroll.Category{Count: 1, Value: decimal.RequireFromString("2000")},
		payroll.Category{},
	)
	r.ID = id
	return r
}

func sampleRecords() []payroll.PayrollRecord {
	return []payroll.PayrollRecord{
		rec("feb", "Fevereiro/2024", 6, "12000"),
		rec("jan", "Janeiro/2024", 5, "10000"),
	}
}

func newTestExportService(t *testing.T, records []payroll.PayrollRecord) (*ExportServiceImpl, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)

	svc := NewExportService(stubCompanyRepo{}, stubRecordRepo{records: records}, file.NewFileService(local)).(*ExportServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return svc, local
}

func readStored(t *testing.T, local *storage.LocalStorage, key string) []byte {
	t.Helper()
	rc, err := local.Download(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestRenderCSV(t *testing.T) {
	data, err := RenderCSV(sampleRecords())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "period,year,effective_count,effective_value,contracted_count,contracted_value,commissioned_count,commissioned_value,headcount,total_value,var_qty_pct,var_val_pct,cumulative_headcount,cumulative_value", lines[0])
	assert.Equal(t, "Janeiro/2024,2024,5,10000.00,1,2000.00,0,0.00,6,12000.00,—,—,6,12000.00", lines[1])
	assert.Equal(t, "Fevereiro/2024,2024,6,12000.00,1,2000.00,0,0.00,7,14000.00,16.67,16.67,13,26000.00", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "TOTAL,"))
	assert.True(t, strings.HasSuffix(lines[3], ",13,26000.00"))
	assert.NotContains(t, lines[3], "—")
}

func TestRenderCSV_Empty(t *testing.T) {
	data, err := RenderCSV(nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "TOTAL,"))
}

func TestExportCSV_StoresFile(t *testing.T) {
	svc, local := newTestExportService(t, sampleRecords())

	resp, err := svc.ExportCSV(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, export.FormatCSV, resp.Format)
	assert.True(t, strings.HasPrefix(resp.Filename, "acme-payroll-20240501-093000-"))
	assert.True(t, strings.HasSuffix(resp.Filename, ".csv"))
	assert.Equal(t, "exports/c1/"+resp.Filename, resp.Path)
	assert.Equal(t, "/api/v1/companies/c1/exports/"+resp.Filename, resp.URL)

	assert.Contains(t, string(readStored(t, local, resp.Path)), "Fevereiro/2024")
}

func TestExportPDF_WithComparison(t *testing.T) {
	svc, local := newTestExportService(t, sampleRecords())

	resp, err := svc.ExportPDF(context.Background(), "c1", export.PDFExportRequest{RecordA: "jan", RecordB: "feb"})
	require.NoError(t, err)
	assert.Equal(t, export.FormatPDF, resp.Format)

	data := readStored(t, local, resp.Path)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-1.4")))
	assert.Contains(t, string(data), "(Payroll report - Acme)")
	assert.Contains(t, string(data), "Comparison Janeiro/2024 -> Fevereiro/2024")
	assert.Contains(t, string(data), "Cost difference: 2000.00")
}

func TestExportPDF_MissingRecord(t *testing.T) {
	svc, local := newTestExportService(t, sampleRecords())

	resp, err := svc.ExportPDF(context.Background(), "c1", export.PDFExportRequest{RecordA: "jan", RecordB: "missing"})
	require.NoError(t, err)

	data := string(readStored(t, local, resp.Path))
	assert.Contains(t, data, "Insufficient data")
	assert.NotContains(t, data, "Cost difference")
}

func TestExportPDF_WithoutComparison(t *testing.T) {
	svc, local := newTestExportService(t, nil)

	resp, err := svc.ExportPDF(context.Background(), "c1", export.PDFExportRequest{})
	require.NoError(t, err)

	data := string(readStored(t, local, resp.Path))
	assert.Contains(t, data, "Consolidated table")
	assert.NotContains(t, data, "Comparison")
}

func TestExport_CompanyNotFound(t *testing.T) {
	svc, _ := newTestExportService(t, nil)

	_, err := svc.ExportCSV(context.Background(), "missing")
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}

func TestOpen_ReadsBackStoredExport(t *testing.T) {
	svc, _ := newTestExportService(t, sampleRecords())
	resp, err := svc.ExportCSV(context.Background(), "c1")
	require.NoError(t, err)

	body, format, err := svc.Open(context.Background(), "c1", resp.Filename)
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)

	assert.Equal(t, export.FormatCSV, format)
	assert.Contains(t, string(data), "Fevereiro/2024")
}

func TestOpen_OtherCompanyOrBadName(t *testing.T) {
	svc, _ := newTestExportService(t, sampleRecords())
	resp, err := svc.ExportCSV(context.Background(), "c1")
	require.NoError(t, err)

	for _, tc := range []struct{ company, name string }{
		{"c2", resp.Filename},
		{"c1", "../c1/" + resp.Filename},
		{"c1", ".."},
		{"c1", "missing.pdf"},
		{"c1", "notes.txt"},
	} {
		_, _, err := svc.Open(context.Background(), tc.company, tc.name)
		assert.ErrorIs(t, err, export.ErrExportNotFound, "%s/%s", tc.company, tc.name)
	}
}
