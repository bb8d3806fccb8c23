package payroll

import "errors"

var ErrPayrollRecordNotFound = errors.New("payroll record not found")

// Warnings attached to successful writes.
const (
	WarningDuplicatePeriod    = "duplicate_period"
	WarningUnrecognizedPeriod = "unrecognized_period"
)
