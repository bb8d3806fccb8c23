package payroll

import "context"

type PayrollService interface {
	Create(ctx context.Context, companyID string, req CreatePayrollRecordRequest) (PayrollRecordResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollRecordResponse, error)
	List(ctx context.Context, companyID string, filter ListPayrollRecordsFilter) ([]PayrollRecordResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdatePayrollRecordRequest) (PayrollRecordResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}
