package report

import (
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/narrative"
)

type NarrativeReportResponse struct {
	ID        string            `json:"id"`
	CompanyID string            `json:"company_id"`
	Model     string            `json:"model"`
	Content   string            `json:"content"`
	Blocks    []narrative.Block `json:"blocks"`
	CreatedBy *string           `json:"created_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewNarrativeReportResponse(r NarrativeReport) NarrativeReportResponse {
	return NarrativeReportResponse{
		ID:        r.ID,
		CompanyID: r.CompanyID,
		Model:     r.Model,
		Content:   r.Content,
		Blocks:    narrative.Parse(r.Content),
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}
