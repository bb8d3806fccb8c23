package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const payrollRecordColumns = `
	id, company_id, period_label,
	effective_count, effective_value,
	contracted_count, contracted_value,
	commissioned_count, commissioned_value,
	total_value, created_at, updated_at`

type payrollRecordRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRecordRepository(db *database.DB) payroll.PayrollRecordRepository {
	return &payrollRecordRepositoryImpl{db: db}
}

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var r payroll.PayrollRecord
	err := row.Scan(
		&r.ID,
		&r.CompanyID,
		&r.PeriodLabel,
		&r.Effective.Count,
		&r.Effective.Value,
		&r.Contracted.Count,
		&r.Contracted.Value,
		&r.Commissioned.Count,
		&r.Commissioned.Value,
		&r.TotalValue,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) || isInvalidInput(err) {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, err
}

// GetByID implements payroll.PayrollRecordRepository.
func (r *payrollRecordRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + ` FROM payroll_records WHERE company_id = $1 AND id = $2`
	return scanPayrollRecord(q.QueryRow(ctx, query, companyID, id))
}

// ListByCompany implements payroll.PayrollRecordRepository.
func (r *payrollRecordRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + `
		FROM payroll_records
		WHERE company_id = $1
		ORDER BY created_at, id`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll records: %w", err)
	}
	return records, nil
}

// ExistsByID implements payroll.PayrollRecordRepository.
func (r *payrollRecordRepositoryImpl) ExistsByID(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payroll_records WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create implements payroll.PayrollRecordRepository. CreatedAt is kept when
// set, so imported datasets preserve their original insertion order.
func (r *payrollRecordRepositoryImpl) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return payroll.PayrollRecord{}, fmt.Errorf("failed to generate payroll record id: %w", err)
		}
		record.ID = id.String()
	}
	record.Recalculate()

	var createdAt interface{}
	if !record.CreatedAt.IsZero() {
		createdAt = record.CreatedAt
	}

	query := `
		INSERT INTO payroll_records (
			id, company_id, period_label,
			effective_count, effective_value,
			contracted_count, contracted_value,
			commissioned_count, commissioned_value,
			total_value, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11::timestamptz, NOW()), COALESCE($11::timestamptz, NOW()))
		RETURNING ` + payrollRecordColumns

	created, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.ID,
		record.CompanyID,
		record.PeriodLabel,
		record.Effective.Count,
		record.Effective.Value,
		record.Contracted.Count,
		record.Contracted.Value,
		record.Commissioned.Count,
		record.Commissioned.Value,
		record.TotalValue,
		createdAt,
	))
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return created, nil
}

// Update implements payroll.PayrollRecordRepository.
func (r *payrollRecordRepositoryImpl) Update(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	record.Recalculate()

	query := `
		UPDATE payroll_records
		SET period_label = $3,
			effective_count = $4, effective_value = $5,
			contracted_count = $6, contracted_value = $7,
			commissioned_count = $8, commissioned_value = $9,
			total_value = $10,
			updated_at = NOW()
		WHERE company_id = $1 AND id = $2
		RETURNING ` + payrollRecordColumns

	updated, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.CompanyID,
		record.ID,
		record.PeriodLabel,
		record.Effective.Count,
		record.Effective.Value,
		record.Contracted.Count,
		record.Contracted.Value,
		record.Commissioned.Count,
		record.Commissioned.Value,
		record.TotalValue,
	))
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.PayrollRecord{}, err
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record with id %s: %w", record.ID, err)
	}
	return updated, nil
}

// Delete implements payroll.PayrollRecordRepository.
func (r *payrollRecordRepositoryImpl) Delete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE company_id = $1 AND id = $2`, companyID, id)
	if isInvalidInput(err) {
		return payroll.ErrPayrollRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete payroll record with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}
	return nil
}
