package validation

import (
	"time-tagger/internal/config"
	"time-tagger/internal/domain"
)

// RecordValidator validates records before they are written to the store
type RecordValidator struct {
	validator *Validator
}

// NewRecordValidator creates a new record validator
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{validator: NewValidator()}
}

// NewRecordValidatorWithConfig creates a record validator using configured limits
func NewRecordValidatorWithConfig(cfg *config.Config) *RecordValidator {
	return &RecordValidator{validator: NewValidatorWithLimits(LimitsFrom(cfg))}
}

// ValidateRecord validates a single record
func (rv *RecordValidator) ValidateRecord(record domain.Record) error {
	validationError := NewValidationError()

	if !rv.validator.IsValidKey(record.Key) {
		validationError.Value("key", record.Key, "must be short and contain no whitespace")
	}

	if record.T1 <= 0 {
		validationError.Value("t1", record.T1, "must be a positive Unix timestamp")
	}
	if !rv.validator.IsValidTimes(record.T1, record.T2) {
		validationError.Range("t2", record.T2, "stop must not be before start")
	}

	if !rv.validator.IsValidDescriptionLength(record.Ds) {
		validationError.Length("ds", len(record.Ds), rv.validator.limits.MaxDescription)
	}
	if rv.validator.HasControlCharacters(record.Ds) {
		validationError.Character("ds", record.Ds)
	}

	return validationError.Err()
}

// Valid returns the records that pass validation, in order
func (rv *RecordValidator) Valid(records []domain.Record) []domain.Record {
	valid := make([]domain.Record, 0, len(records))
	for _, record := range records {
		if rv.ValidateRecord(record) == nil {
			valid = append(valid, record)
		}
	}
	return valid
}
