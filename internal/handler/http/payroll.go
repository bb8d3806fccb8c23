package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	CreatePayrollRecord(w http.ResponseWriter, r *http.Request)
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)
	UpdatePayrollRecord(w http.ResponseWriter, r *http.Request)
	DeletePayrollRecord(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) CreatePayrollRecord(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayrollRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Create(r.Context(), chi.URLParam(r, middleware.CompanyIDParam), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Payroll record created", "record_id", result.ID, "warnings", result.Warnings)
	response.Created(w, "Payroll record created", result)
}

// recordID returns the record ID from the URL, or false after answering 404
// when it is not a UUIDv7.
func recordID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "recordID")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, payroll.ErrPayrollRecordNotFound)
		return "", false
	}
	return id, true
}

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	result, err := h.payrollService.GetByID(r.Context(), chi.URLParam(r, middleware.CompanyIDParam), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPayrollRecords accepts ?sort=created|chronological and ?year=.
func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	filter := payroll.ListPayrollRecordsFilter{Sort: r.URL.Query().Get("sort")}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.HandleError(w, validator.ValidationErrors{{Field: "year", Message: "year must be a number"}})
			return
		}
		filter.Year = &year
	}

	result, err := h.payrollService.List(r.Context(), chi.URLParam(r, middleware.CompanyIDParam), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}

func (h *payrollHandlerImpl) UpdatePayrollRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	var req payroll.UpdatePayrollRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Update(r.Context(), chi.URLParam(r, middleware.CompanyIDParam), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record updated", result)
}

func (h *payrollHandlerImpl) DeletePayrollRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	if err := h.payrollService.Delete(r.Context(), chi.URLParam(r, middleware.CompanyIDParam), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record deleted", nil)
}
