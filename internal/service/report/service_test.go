package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/gemini"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/narrative"
	"github.com/go-chi/jwtauth/v5"
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
	return company.Company{ID: "c1", Name: "Acme Ltda", Username: "acme"}, nil
}

type stubRecordRepo struct {
	payroll.PayrollRecordRepository
	records []payroll.PayrollRecord
}

func (s stubRecordRepo) ListByCompany(ctx context.Context, companyID string) ([]payroll.PayrollRecord, error) {
	return s.records, nil
}

type memReportRepo struct {
	saved []report.NarrativeReport
}

func (m *memReportRepo) Create(ctx context.Context, r report.NarrativeReport) (report.NarrativeReport, error) {
	r.ID = "r1"
	r.CreatedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	m.saved = append(m.saved, r)
	return r, nil
}

func (m *memReportRepo) GetLatestByCompany(ctx context.Context, companyID string) (report.NarrativeReport, error) {
	if len(m.saved) == 0 {
		return report.NarrativeReport{}, report.ErrNarrativeReportNotFound
	}
	return m.saved[len(m.saved)-1], nil
}

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, s.err
}

func (s *stubGenerator) Model() string { return "gemini-test" }

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

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Acme Ltda", sampleRecords())

	assert.Contains(t, prompt, "Company: Acme Ltda")
	assert.Contains(t, prompt, "Periods: 2")
	assert.Contains(t, prompt, "Accumulated headcount: 13")
	assert.Contains(t, prompt, "Accumulated cost: 26000.00")
	assert.Contains(t, prompt, "Janeiro/2024 | 5/10000.00 | 1/2000.00 | 0/0.00 | 6 | 12000.00 | — | —")
	assert.Contains(t, prompt, "Fevereiro/2024 | 6/12000.00 | 1/2000.00 | 0/0.00 | 7 | 14000.00 | 16.67% | 16.67%")
	assert.Contains(t, prompt, "Change from Janeiro/2024 to Fevereiro/2024: 16.67%")
	assert.Less(t, strings.Index(prompt, "Janeiro/2024 |"), strings.Index(prompt, "Fevereiro/2024 |"))
}

func TestNarrativeService_Generate(t *testing.T) {
	gen := &stubGenerator{text: "# Resumo\n\n- Custo subiu **16,67%**\n\n> Revise contratos\n"}
	reports := &memReportRepo{}
	svc := NewNarrativeService(stubCompanyRepo{}, stubRecordRepo{records: sampleRecords()}, reports, gen)

	token, _, err := jwtauth.New("HS256", []byte("secret"), nil).Encode(map[string]interface{}{
		"user_id": "u1",
		"role":    "manager",
	})
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	resp, err := svc.Generate(ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, "gemini-test", resp.Model)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, "u1", *resp.CreatedBy)
	assert.Equal(t, []narrative.Block{
		{Type: narrative.BlockHeading, Level: 1, Text: "Resumo"},
		{Type: narrative.BlockBullet, Text: "Custo subiu 16,67%"},
		{Type: narrative.BlockQuote, Text: "Revise contratos"},
	}, resp.Blocks)

	require.Len(t, reports.saved, 1)
	assert.Equal(t, gen.prompt, reports.saved[0].Prompt)

	latest, err := svc.GetLatest(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, resp.Content, latest.Content)
}

func TestNarrativeService_Unavailable(t *testing.T) {
	svc := NewNarrativeService(stubCompanyRepo{}, stubRecordRepo{records: sampleRecords()}, &memReportRepo{}, nil)

	_, err := svc.Generate(context.Background(), "c1")
	assert.ErrorIs(t, err, report.ErrNarrativeUnavailable)

	svc = NewNarrativeService(stubCompanyRepo{}, stubRecordRepo{records: sampleRecords()}, &memReportRepo{}, &stubGenerator{err: gemini.ErrNotConfigured})
	_, err = svc.Generate(context.Background(), "c1")
	assert.ErrorIs(t, err, report.ErrNarrativeUnavailable)
}

func TestNarrativeService_ClientWithoutKey(t *testing.T) {
	reports := &memReportRepo{}
	client := gemini.NewClient(gemini.Config{Model: "gemini-test"})
	svc := NewNarrativeService(stubCompanyRepo{}, stubRecordRepo{records: sampleRecords()}, reports, client)

	_, err := svc.Generate(context.Background(), "c1")
	assert.ErrorIs(t, err, report.ErrNarrativeUnavailable)

	_, err = svc.GetLatest(context.Background(), "c1")
	assert.ErrorIs(t, err, report.ErrNarrativeReportNotFound)
}

func TestNarrativeService_NoRecords(t *testing.T) {
	gen := &stubGenerator{text: "unused"}
	svc := NewNarrativeService(stubCompanyRepo{}, stubRecordRepo{}, &memReportRepo{}, gen)

	_, err := svc.Generate(context.Background(), "c1")
	assert.ErrorIs(t, err, report.ErrNoPayrollData)
	assert.Empty(t, gen.prompt)
}

func TestNarrativeService_GeneratorFailure(t *testing.T) {
	reports := &memReportRepo{}
	svc := NewNarrativeService(stubCompanyRepo{}, stubRecordRepo{records: sampleRecords()}, reports, &stubGenerator{err: errors.New("upstream 500")})

	_, err := svc.Generate(context.Background(), "c1")
	assert.ErrorIs(t, err, report.ErrGenerationFailed)
	assert.Empty(t, reports.saved)
}

func TestNarrativeService_GetLatest_NotFound(t *testing.T) {
	svc := NewNarrativeService(stubCompanyRepo{}, stubRecordRepo{}, &memReportRepo{}, nil)

	_, err := svc.GetLatest(context.Background(), "c1")
	assert.ErrorIs(t, err, report.ErrNarrativeReportNotFound)
}
