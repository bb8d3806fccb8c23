package report

import "time"

// NarrativeReport is an AI-written commentary on a company's payroll history.
type NarrativeReport struct {
	ID        string
	CompanyID string
	Model     string
	Prompt    string
	Content   string
	CreatedBy *string
	CreatedAt time.Time
}
