package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// CompanyIDParam is the URL parameter naming the company a route works on.
const CompanyIDParam = "companyID"

// RequireCompanyAccess lets admins through and limits everyone else to the
// company in their token. A company ID that is not a UUIDv7 is answered 404.
func RequireCompanyAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "invalid token claims")
			return
		}

		companyID := chi.URLParam(r, CompanyIDParam)
		if companyID == "" {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}
		if !validator.IsValidUUID(companyID) {
			response.HandleError(w, company.ErrCompanyNotFound)
			return
		}
		if !claims.CanAccessCompany(companyID) {
			response.HandleError(w, user.ErrCompanyAccessDenied)
			return
		}

		next.ServeHTTP(w, r)
	})
}
