package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	GenerateNarrative(w http.ResponseWriter, r *http.Request)
	GetLatestNarrative(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	narrativeService report.NarrativeService
}

func NewReportHandler(narrativeService report.NarrativeService) ReportHandler {
	return &reportHandlerImpl{narrativeService: narrativeService}
}

func (h *reportHandlerImpl) GenerateNarrative(w http.ResponseWriter, r *http.Request) {
	result, err := h.narrativeService.Generate(r.Context(), chi.URLParam(r, middleware.CompanyIDParam))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Narrative report generated", result)
}

func (h *reportHandlerImpl) GetLatestNarrative(w http.ResponseWriter, r *http.Request) {
	result, err := h.narrativeService.GetLatest(r.Context(), chi.URLParam(r, middleware.CompanyIDParam))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
