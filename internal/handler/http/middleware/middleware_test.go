package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func withClaims(t *testing.T, r *http.Request, claims map[string]interface{}) *http.Request {
	t.Helper()
	token, _, err := jwtauth.New("HS256", []byte("secret"), nil).Encode(claims)
	require.NoError(t, err)
	return r.WithContext(jwtauth.NewContext(r.Context(), token, nil))
}

func TestAuthRequired(t *testing.T) {
	h := AuthRequired(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withClaims(t, httptest.NewRequest(http.MethodGet, "/", nil), map[string]interface{}{"user_id": "u1", "type": "refresh"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withClaims(t, httptest.NewRequest(http.MethodGet, "/", nil), map[string]interface{}{"user_id": "u1", "type": "access"}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	h := RequirePermission(user.PermissionPayrollManage)(okHandler)

	tests := []struct {
		role string
		want int
	}{
		{"admin", http.StatusNoContent},
		{"manager", http.StatusNoContent},
		{"viewer", http.StatusForbidden},
		{"unknown", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withClaims(t, httptest.NewRequest(http.MethodPost, "/", nil), map[string]interface{}{"user_id": "u1", "role": tt.role})
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireCompanyAccess(t *testing.T) {
	const (
		own   = "0192f5a0-0000-7000-8000-000000000001"
		other = "0192f5a0-0000-7000-8000-000000000002"
	)
	router := chi.NewRouter()
	router.With(RequireCompanyAccess).Get("/companies/{companyID}", okHandler)

	tests := []struct {
		name    string
		company string
		claims  map[string]interface{}
		want    int
	}{
		{"own company", own, map[string]interface{}{"user_id": "u1", "role": "viewer", "company_id": own}, http.StatusNoContent},
		{"other company", own, map[string]interface{}{"user_id": "u1", "role": "manager", "company_id": other}, http.StatusForbidden},
		{"admin", own, map[string]interface{}{"user_id": "u1", "role": "admin"}, http.StatusNoContent},
		{"admin malformed id", "abc", map[string]interface{}{"user_id": "u1", "role": "admin"}, http.StatusNotFound},
		{"manager malformed id", "abc", map[string]interface{}{"user_id": "u1", "role": "manager", "company_id": own}, http.StatusNotFound},
		{"no claims", own, nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/companies/"+tt.company, nil)
			if tt.claims != nil {
				req = withClaims(t, req, tt.claims)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRateLimitByIP(t *testing.T) {
	h := RateLimitByIP(NewIPRateLimiter(0, 2))(okHandler)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil).WithContext(context.Background())
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1234"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5678"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:9999"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1234"))
}

func TestRateLimitByIP_IgnoresForwardedFor(t *testing.T) {
	h := RateLimitByIP(NewIPRateLimiter(0, 1))(okHandler)

	call := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", forwarded)
		req.Header.Set("X-Real-IP", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("203.0.113.2"))
}

func TestIPRateLimiter_Prune(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.GetLimiter("10.0.0.1")
	now = now.Add(5 * time.Minute)
	limiter.GetLimiter("10.0.0.2")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, limiter.Prune())
	assert.Equal(t, 1, limiter.Len())
}
