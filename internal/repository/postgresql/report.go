package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type narrativeReportRepositoryImpl struct {
	db *database.DB
}

func NewNarrativeReportRepository(db *database.DB) report.NarrativeReportRepository {
	return &narrativeReportRepositoryImpl{db: db}
}

// Create implements report.NarrativeReportRepository.
func (r *narrativeReportRepositoryImpl) Create(ctx context.Context, rep report.NarrativeReport) (report.NarrativeReport, error) {
	q := GetQuerier(ctx, r.db)

	if rep.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return report.NarrativeReport{}, fmt.Errorf("failed to generate report id: %w", err)
		}
		rep.ID = id.String()
	}

	query := `
		INSERT INTO narrative_reports (id, company_id, model, prompt, content, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := q.QueryRow(ctx, query, rep.ID, rep.CompanyID, rep.Model, rep.Prompt, rep.Content, rep.CreatedBy).Scan(&rep.CreatedAt); err != nil {
		return report.NarrativeReport{}, fmt.Errorf("failed to create narrative report: %w", err)
	}
	return rep, nil
}

// GetLatestByCompany implements report.NarrativeReportRepository.
func (r *narrativeReportRepositoryImpl) GetLatestByCompany(ctx context.Context, companyID string) (report.NarrativeReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, model, prompt, content, created_by, created_at
		FROM narrative_reports
		WHERE company_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var rep report.NarrativeReport
	err := q.QueryRow(ctx, query, companyID).Scan(
		&rep.ID, &rep.CompanyID, &rep.Model, &rep.Prompt, &rep.Content, &rep.CreatedBy, &rep.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.NarrativeReport{}, report.ErrNarrativeReportNotFound
		}
		return report.NarrativeReport{}, fmt.Errorf("failed to get latest narrative report: %w", err)
	}
	return rep, nil
}
