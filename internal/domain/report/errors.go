package report

import "errors"

var (
	ErrNarrativeReportNotFound = errors.New("no narrative report has been generated for this company")
	ErrNarrativeUnavailable    = errors.New("narrative generation is not configured")
	ErrNoPayrollData           = errors.New("company has no payroll records to describe")
	ErrGenerationFailed        = errors.New("narrative generation failed")
)
