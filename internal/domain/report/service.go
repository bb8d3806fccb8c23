package report

import "context"

type NarrativeService interface {
	Generate(ctx context.Context, companyID string) (NarrativeReportResponse, error)
	GetLatest(ctx context.Context, companyID string) (NarrativeReportResponse, error)
}
