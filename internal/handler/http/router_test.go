package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/analytics"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/export"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "0192f5a0-0000-7000-8000-000000000001"

type stubAuthService struct {
	auth.AuthService
	loginErr error
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if s.loginErr != nil {
		return auth.TokenResponse{}, s.loginErr
	}
	return auth.TokenResponse{AccessToken: "access", AccessTokenExpiresIn: 1, RefreshToken: "refresh", RefreshTokenExpiresIn: 4102444800}, nil
}

type stubAnalyticsService struct {
	analytics.AnalyticsService
	compared [2]string
}

func (s *stubAnalyticsService) Overview(ctx context.Context, companyID string) (analytics.OverviewResponse, error) {
	return analytics.OverviewResponse{
		Company:     analytics.CompanySummary{ID: companyID, Name: "Acme"},
		RecordCount: 2,
	}, nil
}

func (s *stubAnalyticsService) Compare(ctx context.Context, companyID, a, b string) (analytics.CompareResponse, error) {
	s.compared = [2]string{a, b}
	return analytics.CompareResponse{InsufficientData: true}, nil
}

type stubPayrollService struct {
	payroll.PayrollService
	filter payroll.ListPayrollRecordsFilter
}

func (s *stubPayrollService) GetByID(ctx context.Context, companyID, id string) (payroll.PayrollRecordResponse, error) {
	return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
}

func (s *stubPayrollService) List(ctx context.Context, companyID string, filter payroll.ListPayrollRecordsFilter) ([]payroll.PayrollRecordResponse, error) {
	s.filter = filter
	return []payroll.PayrollRecordResponse{{ID: "r1", CompanyID: companyID}, {ID: "r2", CompanyID: companyID}}, nil
}

type stubNarrativeService struct {
	report.NarrativeService
}

func (stubNarrativeService) Generate(ctx context.Context, companyID string) (report.NarrativeReportResponse, error) {
	return report.NarrativeReportResponse{}, report.ErrNarrativeUnavailable
}

type stubExportService struct {
	export.ExportService
	req export.PDFExportRequest
}

func (s *stubExportService) ExportPDF(ctx context.Context, companyID string, req export.PDFExportRequest) (export.ExportResponse, error) {
	s.req = req
	return export.ExportResponse{Format: export.FormatPDF, Filename: "acme-payroll.pdf"}, nil
}

func (s *stubExportService) Open(ctx context.Context, companyID, filename string) (io.ReadCloser, export.Format, error) {
	if companyID != testCompanyID || filename != "acme-payroll.pdf" {
		return nil, "", export.ErrExportNotFound
	}
	return io.NopCloser(strings.NewReader("%PDF-1.4")), export.FormatPDF, nil
}

type testServer struct {
	router    *chi.Mux
	jwt       jwt.Service
	auth      *stubAuthService
	analytics *stubAnalyticsService
	payroll   *stubPayrollService
	export    *stubExportService
	filesDir  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtService, err := jwt.NewJWTService("router-test-secret", "1h", "24h", false)
	require.NoError(t, err)

	ts := &testServer{
		jwt:       jwtService,
		auth:      &stubAuthService{},
		analytics: &stubAnalyticsService{},
		payroll:   &stubPayrollService{},
		export:    &stubExportService{},
		filesDir:  t.TempDir(),
	}
	ts.router = NewRouter(RouterConfig{
		Env:            "test",
		AllowedOrigins: []string{"http://localhost:3000"},
		FilesDir:       ts.filesDir,
		LoginLimiter:   middleware.NewIPRateLimiter(0, 1),
	}, jwtService, Handlers{
		Auth:      NewAuthHandler(jwtService, ts.auth, nil, "http://localhost:3000", false),
		User:      NewUserHandler(nil),
		Company:   NewCompanyHandler(nil),
		Payroll:   NewPayrollHandler(ts.payroll),
		Analytics: NewAnalyticsHandler(ts.analytics),
		Report:    NewReportHandler(stubNarrativeService{}),
		Export:    NewExportHandler(ts.export),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, role user.Role, companyID string) string {
	t.Helper()
	var company *string
	if companyID != "" {
		company = &companyID
	}
	token, _, err := ts.jwt.GenerateAccessToken("user-1", "user@acme.com", company, role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRouter_Heartbeat(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/v1/companies/"+testCompanyID+"/analytics/overview", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Overview(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleManager, testCompanyID)

	rec := ts.do(t, http.MethodGet, "/api/v1/companies/"+testCompanyID+"/analytics/overview", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["record_count"])
}

func TestRouter_OtherCompanyForbidden(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleManager, testCompanyID)

	rec := ts.do(t, http.MethodGet, "/api/v1/companies/0192f5a0-0000-7000-8000-000000000002/analytics/overview", token, "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AdminReachesAnyCompany(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleAdmin, "")

	rec := ts.do(t, http.MethodGet, "/api/v1/companies/0192f5a0-0000-7000-8000-000000000002/analytics/overview", token, "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ViewerCannotManagePayroll(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleViewer, testCompanyID)

	rec := ts.do(t, http.MethodPost, "/api/v1/companies/"+testCompanyID+"/payroll", token, `{}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_PayrollRecordNotFound(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleViewer, testCompanyID)

	rec := ts.do(t, http.MethodGet, "/api/v1/companies/"+testCompanyID+"/payroll/0192f5a0-0000-7000-8000-0000000000ff", token, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PayrollListFilter(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleViewer, testCompanyID)

	rec := ts.do(t, http.MethodGet, "/api/v1/companies/"+testCompanyID+"/payroll?sort=chronological&year=2024", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.TotalItems)
	assert.Equal(t, "chronological", ts.payroll.filter.Sort)
	require.NotNil(t, ts.payroll.filter.Year)
	assert.Equal(t, 2024, *ts.payroll.filter.Year)

	rec = ts.do(t, http.MethodGet, "/api/v1/companies/"+testCompanyID+"/payroll?year=abc", token, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_CompareForwardsSelection(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleViewer, testCompanyID)

	rec := ts.do(t, http.MethodGet, "/api/v1/companies/"+testCompanyID+"/analytics/compare?a=r1&b=r2", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]string{"r1", "r2"}, ts.analytics.compared)
	data := decode(t, rec).Data.(map[string]interface{})
	assert.Equal(t, true, data["insufficient_data"])
}

func TestRouter_ExportPDF(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleViewer, testCompanyID)

	rec := ts.do(t, http.MethodPost, "/api/v1/companies/"+testCompanyID+"/exports/pdf?a=r1", token, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, export.PDFExportRequest{RecordA: "r1"}, ts.export.req)
}

func TestRouter_NarrativeUnavailable(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleManager, testCompanyID)

	rec := ts.do(t, http.MethodPost, "/api/v1/companies/"+testCompanyID+"/reports/narrative", token, "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_ViewerCannotGenerateNarrative(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, user.RoleViewer, testCompanyID)

	rec := ts.do(t, http.MethodPost, "/api/v1/companies/"+testCompanyID+"/reports/narrative", token, "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Login(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"manager@acme.com","password":"password123"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshTokenCookieName {
			found = true
			assert.Equal(t, "refresh", c.Value)
		}
	}
	assert.True(t, found)
}

func TestRouter_LoginRateLimited(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.loginErr = auth.ErrInvalidCredentials
	body := `{"email":"manager@acme.com","password":"wrong-password"}`

	first := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
	second := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", body)

	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestRouter_LoginValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"not-an-email","password":"x"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errDetail := decode(t, rec).Error
	require.NotNil(t, errDetail)
	assert.Contains(t, errDetail.Details, "email")
	assert.Contains(t, errDetail.Details, "password")
}

func TestRouter_GoogleLoginDisabled(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/v1/auth/login/oauth/google", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_LogoutWithoutCookie(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/v1/auth/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_LoginRateLimitIgnoresForwardedFor(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.loginErr = auth.ErrInvalidCredentials
	body := `{"email":"manager@acme.com","password":"wrong-password"}`

	login := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwarded)
		req.Header.Set("X-Real-IP", forwarded)
		rec := httptest.NewRecorder()
		ts.router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, login("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.2"))
}

func TestRouter_MalformedIDsAreNotFound(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, user.RoleAdmin, "")
	manager := ts.token(t, user.RoleManager, testCompanyID)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
	}{
		{"company id", http.MethodGet, "/api/v1/companies/abc/analytics/overview", admin, ""},
		{"company id for manager", http.MethodGet, "/api/v1/companies/abc/payroll", manager, ""},
		{"record id", http.MethodGet, "/api/v1/companies/" + testCompanyID + "/payroll/abc", manager, ""},
		{"record id on update", http.MethodPut, "/api/v1/companies/" + testCompanyID + "/payroll/abc", manager, `{}`},
		{"record id on delete", http.MethodDelete, "/api/v1/companies/" + testCompanyID + "/payroll/abc", manager, ""},
		{"user id on delete", http.MethodDelete, "/api/v1/users/abc", admin, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestRouter_ExportsAreNotPublic(t *testing.T) {
	ts := newTestServer(t)
	dir := filepath.Join(ts.filesDir, "exports", testCompanyID)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme-payroll.pdf"), []byte("%PDF-1.4"), 0o644))

	for _, path := range []string{
		"/files/exports/" + testCompanyID + "/acme-payroll.pdf",
		"/files/exports/" + testCompanyID + "/",
		"/files/",
	} {
		rec := ts.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "acme-payroll.pdf", path)
	}

	rec := ts.do(t, http.MethodGet, "/api/v1/companies/"+testCompanyID+"/exports/acme-payroll.pdf", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_DownloadExport(t *testing.T) {
	ts := newTestServer(t)
	path := "/api/v1/companies/" + testCompanyID + "/exports/acme-payroll.pdf"

	rec := ts.do(t, http.MethodGet, path, ts.token(t, user.RoleViewer, testCompanyID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="acme-payroll.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", rec.Body.String())

	other := ts.token(t, user.RoleManager, "0192f5a0-0000-7000-8000-000000000002")
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, path, other, "").Code)

	missing := "/api/v1/companies/" + testCompanyID + "/exports/other.pdf"
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, missing, ts.token(t, user.RoleViewer, testCompanyID), "").Code)
}

func TestRouter_ServesLogosWithoutListing(t *testing.T) {
	ts := newTestServer(t)
	dir := filepath.Join(ts.filesDir, "logos", "acme")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme-logo.png"), []byte("png"), 0o644))

	rec := ts.do(t, http.MethodGet, "/files/logos/acme/acme-logo.png", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	for _, path := range []string{"/files/logos/", "/files/logos/acme/"} {
		rec := ts.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "acme-logo.png", path)
	}
}
