package validator

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when no error was collected, so callers can `return errs.Err()`.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ExceedsLength reports whether s has more than max runes.
func ExceedsLength(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// UUIDv7 regex: version 7 (the 15th character must be '7'), all lowercase hex digits.
var uuidv7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUIDv7 validation
func IsValidUUID(uuid string) bool {
	return uuidv7Regex.MatchString(strings.ToLower(uuid))
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	return slices.Contains(slice, value)
}

// Username validation: 3-50 chars, A-Z, a-z, 0-9, ., _, -
var companyUsernameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

func IsValidCompanyUsername(companyUsername string) bool {
	return companyUsernameRegex.MatchString(companyUsername)
}

// IsNegativeAmount reports whether a monetary amount is below zero.
func IsNegativeAmount(d decimal.Decimal) bool {
	return d.IsNegative()
}

// HasAtMostDecimalPlaces reports whether d has no more than places fractional digits.
func HasAtMostDecimalPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// IsValidYear accepts four-digit calendar years.
func IsValidYear(year int) bool {
	return year >= 1900 && year <= 9999
}
