package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"time-tagger/internal/config"
)

const dateLayout = "2006-01-02"

var rangeShorthand = regexp.MustCompile(`^(\d+)(d|w|mo|y)$`)

// Limits bounds the size of stored record fields
type Limits struct {
	MaxKey         int
	MaxDescription int
}

// DefaultLimits matches the defaults of config.NewConfig
var DefaultLimits = Limits{MaxKey: 64, MaxDescription: 4096}

// LimitsFrom reads the validation section of cfg
func LimitsFrom(cfg *config.Config) Limits {
	if cfg == nil {
		return DefaultLimits
	}
	return Limits{
		MaxKey:         cfg.Validation.MaxKeyLength,
		MaxDescription: cfg.Validation.MaxDescriptionLength,
	}
}

// Validator holds the field checks shared by the record and report validators
type Validator struct {
	limits Limits
}

// NewValidator creates a validator with DefaultLimits
func NewValidator() *Validator {
	return NewValidatorWithLimits(DefaultLimits)
}

func NewValidatorWithLimits(limits Limits) *Validator {
	return &Validator{limits: limits}
}

// IsValidKey checks a record key. An empty key is valid: the store assigns one.
func (v *Validator) IsValidKey(key string) bool {
	if len(key) > v.limits.MaxKey {
		return false
	}
	return !strings.ContainsFunc(key, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
}

// IsValidTimes checks that a record starts after the epoch and does not stop before it starts
func (v *Validator) IsValidTimes(t1, t2 int64) bool {
	return t1 > 0 && t2 >= t1
}

func (v *Validator) IsValidDescriptionLength(ds string) bool {
	return len(ds) <= v.limits.MaxDescription
}

// HasControlCharacters reports line breaks, tabs and other control characters
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.ContainsFunc(s, unicode.IsControl)
}

// IsValidDate checks a YYYY-MM-DD date
func (v *Validator) IsValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// IsValidRangeShorthand checks a report range such as "3d", "2w", "1mo" or "1y"
func (v *Validator) IsValidRangeShorthand(shorthand string) bool {
	m := rangeShorthand.FindStringSubmatch(shorthand)
	if m == nil {
		return false
	}
	n, err := strconv.Atoi(m[1])
	return err == nil && n > 0
}
