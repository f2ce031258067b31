package validation

import (
	"slices"
	"time"
)

var (
	groupings = []string{"none", "tagz", "ds"}
	periods   = []string{"none", "day", "week", "month", "quarter", "year"}
	formats   = []string{"h", "h.1", "h.2", "h.3", "h:mm", "h:mm:ss"}
)

// ReportValidator validates report requests coming from the command line
type ReportValidator struct {
	validator *Validator
}

// NewReportValidator creates a new report validator
func NewReportValidator() *ReportValidator {
	return &ReportValidator{validator: NewValidator()}
}

// ValidateOptions checks the grouping, period and duration format names
func (rv *ReportValidator) ValidateOptions(grouping, period, format string) error {
	validationError := NewValidationError()

	if !slices.Contains(groupings, grouping) {
		validationError.Value("group", grouping, "must be one of none, tagz, ds")
	}
	if !slices.Contains(periods, period) {
		validationError.Value("period", period, "must be one of none, day, week, month, quarter, year")
	}
	if !slices.Contains(formats, format) {
		validationError.Value("format", format, "must be one of h, h.1, h.2, h.3, h:mm, h:mm:ss")
	}

	return validationError.Err()
}

// ValidateDateRange checks a pair of YYYY-MM-DD dates, end inclusive
func (rv *ReportValidator) ValidateDateRange(from, to string) error {
	validationError := NewValidationError()

	if !rv.validator.IsValidDate(from) {
		validationError.Format("from", from, "YYYY-MM-DD")
	}
	if !rv.validator.IsValidDate(to) {
		validationError.Format("to", to, "YYYY-MM-DD")
	}
	if validationError.HasErrors() {
		return validationError
	}

	d1, _ := time.Parse("2006-01-02", from)
	d2, _ := time.Parse("2006-01-02", to)
	if d2.Before(d1) {
		validationError.Range("to", to, "end date must not be before start date")
	}

	return validationError.Err()
}

// ValidateRangeShorthand checks shorthands such as "1w" or "3mo"
func (rv *ReportValidator) ValidateRangeShorthand(shorthand string) error {
	if !rv.validator.IsValidRangeShorthand(shorthand) {
		validationError := NewValidationError()
		validationError.Format("range", shorthand, "3d, 2w, 1mo, 1y")
		return validationError
	}
	return nil
}
