package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CompanyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	UploadLogo(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{companyService: companyService}
}

// List implements CompanyHandler.
func (c *CompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companies, err := c.companyService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, companies)
}

// Create implements CompanyHandler.
func (c *CompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req company.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := c.companyService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Failed to create company", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company created successfully", created)
}

// GetByID implements CompanyHandler.
func (c *CompanyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	found, err := c.companyService.GetByID(r.Context(), chi.URLParam(r, middleware.CompanyIDParam))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, found)
}

// Update implements CompanyHandler.
func (c *CompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq company.UpdateCompanyRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Call service
	updated, err := c.companyService.Update(r.Context(), chi.URLParam(r, middleware.CompanyIDParam), updateReq)
	if err != nil {
		slog.Error("Company update service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Success response
	slog.Info("Update company successfully")
	response.SuccessWithMessage(w, "Company updated successfully", updated)
}

// Delete implements CompanyHandler.
func (c *CompanyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.companyService.Delete(r.Context(), chi.URLParam(r, middleware.CompanyIDParam)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Company deleted successfully", nil)
}

// UploadLogo implements CompanyHandler. Expects a multipart form with a "logo" file.
func (c *CompanyHandlerImpl) UploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, company.MaxLogoSize+(1<<20))
	if err := r.ParseMultipartForm(company.MaxLogoSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.HandleError(w, company.ErrFileSizeExceeds)
			return
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("logo")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if file != nil {
		defer file.Close()
	}

	result, err := c.companyService.UploadCompanyLogo(r.Context(), company.UploadCompanyLogoRequest{
		File:       file,
		FileHeader: fileHeader,
		CompanyID:  chi.URLParam(r, middleware.CompanyIDParam),
	})
	if err != nil {
		slog.Error("Failed to upload company logo", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company logo uploaded successfully", result)
}
