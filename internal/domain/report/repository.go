package report

import "context"

type NarrativeReportRepository interface {
	Create(ctx context.Context, report NarrativeReport) (NarrativeReport, error)
	GetLatestByCompany(ctx context.Context, companyID string) (NarrativeReport, error)
}
