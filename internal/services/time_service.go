package services

import (
	"strconv"
	"strings"
	"time"

	"time-tagger/internal/validation"
)

const dateLayout = "2006-01-02"

// timeNow can be replaced in tests
var timeNow = time.Now

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	loc             *time.Location
	reportValidator *validation.ReportValidator
}

// NewTimeService creates a new TimeService working in loc
func NewTimeService(loc *time.Location) TimeService {
	if loc == nil {
		loc = time.Local
	}
	return &timeServiceImpl{
		loc:             loc,
		reportValidator: validation.NewReportValidator(),
	}
}

// Today returns the current date
func (t *timeServiceImpl) Today() string {
	return timeNow().In(t.loc).Format(dateLayout)
}

// ParseRange converts a shorthand ("today", "3d", "2w", "1mo", "1y") into the
// inclusive range of dates ending today
func (t *timeServiceImpl) ParseRange(shorthand string) (*DateRange, error) {
	today := timeNow().In(t.loc)
	if shorthand == "" || shorthand == "today" {
		return &DateRange{From: today.Format(dateLayout), To: today.Format(dateLayout)}, nil
	}

	if err := t.reportValidator.ValidateRangeShorthand(shorthand); err != nil {
		return nil, err
	}

	unitAt := strings.IndexFunc(shorthand, func(r rune) bool { return r < '0' || r > '9' })
	n, _ := strconv.Atoi(shorthand[:unitAt])

	var from time.Time
	switch shorthand[unitAt:] {
	case "d":
		from = today.AddDate(0, 0, 1-n)
	case "w":
		from = today.AddDate(0, 0, 1-7*n)
	case "mo":
		from = today.AddDate(0, -n, 1)
	case "y":
		from = today.AddDate(-n, 0, 1)
	}

	return &DateRange{From: from.Format(dateLayout), To: today.Format(dateLayout)}, nil
}

// FormatTimestamp writes Unix seconds in the given format
func (t *timeServiceImpl) FormatTimestamp(ts int64, format DateTimeFormat) string {
	switch format {
	case DateTimeUnix:
		return strconv.FormatInt(ts, 10)
	case DateTimeISO:
		return time.Unix(ts, 0).UTC().Format(time.RFC3339)
	default:
		return time.Unix(ts, 0).In(t.loc).Format("2006-01-02 15:04:05")
	}
}

// FormatDate writes the local date of Unix seconds
func (t *timeServiceImpl) FormatDate(ts int64) string {
	return time.Unix(ts, 0).In(t.loc).Format(dateLayout)
}
