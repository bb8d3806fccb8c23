package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/export"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound):
		Unauthorized(w, "Refresh token not found")
	case errors.Is(err, auth.ErrStateMismatch):
		Unauthorized(w, "Invalid OAuth state")
	case errors.Is(err, auth.ErrGoogleAccountNotLinked):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrGoogleLoginDisabled):
		ServiceUnavailable(w, "Google sign-in is not configured")
	case errors.Is(err, auth.ErrTooManyRequests):
		TooManyRequests(w, "Too many requests, try again later")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInsufficientPermissions), errors.Is(err, user.ErrCompanyAccessDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrCannotDeleteSelf):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrCompanyIDRequired):
		ValidationError(w, map[string]string{"company_id": err.Error()})

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanyUsernameExists):
		Conflict(w, "Company username already exists")
	case errors.Is(err, company.ErrNoFieldsToUpdate):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, company.ErrFileSizeExceeds):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, company.ErrFileTypeNotAllowed), errors.Is(err, company.ErrInvalidImage):
		ValidationError(w, map[string]string{"logo": err.Error()})

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")

	// Export errors
	case errors.Is(err, export.ErrExportNotFound):
		NotFound(w, "Export not found")

	// Narrative report errors
	case errors.Is(err, report.ErrNarrativeReportNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, report.ErrNoPayrollData):
		UnprocessableEntity(w, "NO_PAYROLL_DATA", err.Error())
	case errors.Is(err, report.ErrNarrativeUnavailable):
		ServiceUnavailable(w, "Narrative generation is not configured")
	case errors.Is(err, report.ErrGenerationFailed):
		BadGateway(w, "Narrative generation failed, try again later")

	// Storage errors
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "File not found")
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, context.DeadlineExceeded):
		ServiceUnavailable(w, "Request timed out")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
