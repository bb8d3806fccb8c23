package analytics

import "context"

type AnalyticsService interface {
	Overview(ctx context.Context, companyID string) (OverviewResponse, error)
	Compare(ctx context.Context, companyID, recordA, recordB string) (CompareResponse, error)
	Trend(ctx context.Context, companyID string) ([]TrendPoint, error)
}
