package export

import (
	"fmt"
	"path"
	"time"
)

type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// FormatOf reports the format of a stored export from its file extension.
func FormatOf(filename string) (Format, bool) {
	switch path.Ext(filename) {
	case ".csv":
		return FormatCSV, true
	case ".pdf":
		return FormatPDF, true
	}
	return "", false
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// DownloadURL is the authenticated API path serving a stored export.
func DownloadURL(companyID, filename string) string {
	return fmt.Sprintf("/api/v1/companies/%s/exports/%s", companyID, filename)
}

// ExportResponse points at a generated file in storage. URL is the
// authenticated download route, not a public storage link.
type ExportResponse struct {
	Format      Format    `json:"format"`
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PDFExportRequest optionally selects two records for a comparison section.
type PDFExportRequest struct {
	RecordA string
	RecordB string
}
