package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/analytics"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AnalyticsHandler interface {
	Overview(w http.ResponseWriter, r *http.Request)
	Compare(w http.ResponseWriter, r *http.Request)
	Trend(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsService: analyticsService}
}

func (h *analyticsHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.Overview(r.Context(), chi.URLParam(r, middleware.CompanyIDParam))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Compare selects both records by ID with ?a= and ?b=.
func (h *analyticsHandlerImpl) Compare(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.analyticsService.Compare(r.Context(), chi.URLParam(r, middleware.CompanyIDParam), query.Get("a"), query.Get("b"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *analyticsHandlerImpl) Trend(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.Trend(r.Context(), chi.URLParam(r, middleware.CompanyIDParam))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
