package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/export"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ExportHandler interface {
	ExportCSV(w http.ResponseWriter, r *http.Request)
	ExportPDF(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
}

type exportHandlerImpl struct {
	exportService export.ExportService
}

func NewExportHandler(exportService export.ExportService) ExportHandler {
	return &exportHandlerImpl{exportService: exportService}
}

func (h *exportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.ExportCSV(r.Context(), chi.URLParam(r, middleware.CompanyIDParam))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "CSV export generated", result)
}

// ExportPDF adds a comparison section when ?a= or ?b= is given.
func (h *exportHandlerImpl) ExportPDF(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.exportService.ExportPDF(r.Context(), chi.URLParam(r, middleware.CompanyIDParam), export.PDFExportRequest{
		RecordA: query.Get("a"),
		RecordB: query.Get("b"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "PDF export generated", result)
}

// Download streams a stored export of the company in the URL.
func (h *exportHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	body, format, err := h.exportService.Open(r.Context(), chi.URLParam(r, middleware.CompanyIDParam), filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("Export download interrupted", "filename", filename, "error", err)
	}
}
