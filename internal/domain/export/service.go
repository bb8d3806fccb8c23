package export

import (
	"context"
	"io"
)

type ExportService interface {
	ExportCSV(ctx context.Context, companyID string) (ExportResponse, error)
	ExportPDF(ctx context.Context, companyID string, req PDFExportRequest) (ExportResponse, error)
	// Open streams a stored export of companyID. The caller closes the reader.
	Open(ctx context.Context, companyID, filename string) (io.ReadCloser, Format, error)
}
