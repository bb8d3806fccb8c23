package payroll

import "context"

// PayrollRecordRepository stores payroll records. ListByCompany returns the
// company's records in insertion order (created_at, then id).
type PayrollRecordRepository interface {
	GetByID(ctx context.Context, companyID, id string) (PayrollRecord, error)
	ListByCompany(ctx context.Context, companyID string) ([]PayrollRecord, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	Update(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	Delete(ctx context.Context, companyID, id string) error
}
