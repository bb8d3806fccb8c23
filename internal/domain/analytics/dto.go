package analytics

import "time"

type CompanySummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"company_name"`
	Username string  `json:"company_username"`
	LogoURL  *string `json:"logo_url,omitempty"`
}

type OverviewResponse struct {
	Company     CompanySummary    `json:"company"`
	RecordCount int               `json:"record_count"`
	GrandTotals GrandTotals       `json:"grand_totals"`
	Trend       []TrendPoint      `json:"trend"`
	Table       ConsolidatedTable `json:"table"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// CompareResponse carries a nil Comparison when either record is missing.
type CompareResponse struct {
	Comparison       *Comparison `json:"comparison"`
	InsufficientData bool        `json:"insufficient_data"`
}
