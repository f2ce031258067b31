package api

import (
	"context"
	"fmt"
	"io"
	"strings"

	"time-tagger/internal/domain"
	"time-tagger/internal/errors"
	"time-tagger/internal/ingest"
	"time-tagger/internal/report"
	"time-tagger/internal/services"
	"time-tagger/internal/validation"
)

// Business domain types
type ImportSummary = services.ImportSummary
type TagSuggestion = services.TagSuggestion
type DateRange = services.DateRange

// ReportRequest selects the dates, tags and layout of a report. Range is a
// shorthand such as "1w"; From and To override it when set.
type ReportRequest struct {
	Range   string
	From    string
	To      string
	Tags    []string
	Options report.Options
}

// Report is a generated report with the dates it covers
type Report struct {
	Dates    DateRange    `json:"dates"`
	Rows     []report.Row `json:"rows"`
	Filename string       `json:"filename"`
}

// BusinessAPI defines the operations the command line offers
type BusinessAPI interface {
	// ========== Import ==========

	// ImportText analyses text and stores its records unless dryRun is set.
	// onMessage receives the analysis log as it is produced.
	ImportText(ctx context.Context, text string, dryRun bool, onMessage func(string)) (*ImportSummary, error)

	// ========== Reports ==========

	// DefaultReportOptions returns the configured report layout
	DefaultReportOptions() report.Options

	// GenerateReport resolves the requested dates and builds the report
	GenerateReport(ctx context.Context, req ReportRequest) (*Report, error)

	// ========== Export ==========

	// ExportRecords writes all visible records in the import format
	ExportRecords(ctx context.Context, w io.Writer, dateTimeFormat string) (int, error)

	// ========== Tags ==========

	// ListTags returns all tags in use, most recent first
	ListTags(ctx context.Context, rebuild bool) ([]TagSuggestion, error)

	// SetTagPriority marks a tag as primary (1) or secondary (2)
	SetTagPriority(ctx context.Context, tag string, priority int) (*domain.TagInfo, error)

	// ListTagPriorities returns all tags with a stored priority
	ListTagPriorities(ctx context.Context) ([]domain.TagInfo, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services        *services.ServiceContainer
	reportValidator *validation.ReportValidator
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(container *services.ServiceContainer) BusinessAPI {
	return &businessAPIImpl{
		services:        container,
		reportValidator: validation.NewReportValidator(),
	}
}

// ========== Import ==========

func (b *businessAPIImpl) ImportText(ctx context.Context, text string, dryRun bool, onMessage func(string)) (*ImportSummary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewEmptyInputError("No data")
	}
	return b.services.ImportService.Import(ctx, text, ingest.Hooks{Message: onMessage}, dryRun)
}

// ========== Reports ==========

func (b *businessAPIImpl) DefaultReportOptions() report.Options {
	return b.services.ReportService.DefaultOptions()
}

func (b *businessAPIImpl) GenerateReport(ctx context.Context, req ReportRequest) (*Report, error) {
	// 1. Validate layout
	opts := req.Options
	if err := b.reportValidator.ValidateOptions(string(opts.Grouping), string(opts.Period), string(opts.Format)); err != nil {
		return nil, err
	}

	// 2. Resolve dates
	dates, err := b.resolveDates(req)
	if err != nil {
		return nil, err
	}

	// 3. Build rows
	rows, err := b.services.ReportService.GenerateForDates(ctx, *dates, req.Tags, opts)
	if err != nil {
		return nil, err
	}

	return &Report{
		Dates:    *dates,
		Rows:     rows,
		Filename: ReportFilename(*dates),
	}, nil
}

func (b *businessAPIImpl) resolveDates(req ReportRequest) (*DateRange, error) {
	if req.From == "" && req.To == "" {
		return b.services.TimeService.ParseRange(req.Range)
	}

	dates := &DateRange{From: req.From, To: req.To}
	if dates.From == "" {
		dates.From = dates.To
	}
	if dates.To == "" {
		dates.To = b.services.TimeService.Today()
	}
	if err := b.reportValidator.ValidateDateRange(dates.From, dates.To); err != nil {
		return nil, err
	}
	return dates, nil
}

// ReportFilename names a CSV report: timetagger-YYYYMMDD.csv for a single day,
// timetagger-YYYYMMDD-YYYYMMDD.csv otherwise
func ReportFilename(dates DateRange) string {
	d1 := strings.ReplaceAll(dates.From, "-", "")
	d2 := strings.ReplaceAll(dates.To, "-", "")
	if d1 == d2 {
		return fmt.Sprintf("timetagger-%s.csv", d1)
	}
	return fmt.Sprintf("timetagger-%s-%s.csv", d1, d2)
}

// ========== Export ==========

func (b *businessAPIImpl) ExportRecords(ctx context.Context, w io.Writer, dateTimeFormat string) (int, error) {
	format := services.DateTimeFormat(dateTimeFormat)
	switch format {
	case "":
		format = services.DateTimeLocal
	case services.DateTimeLocal, services.DateTimeUnix, services.DateTimeISO:
	default:
		return 0, errors.NewInvalidInputError("dt", dateTimeFormat, "must be one of local, unix, iso")
	}
	return b.services.ExportService.Export(ctx, w, format)
}

// ========== Tags ==========

func (b *businessAPIImpl) ListTags(ctx context.Context, rebuild bool) ([]TagSuggestion, error) {
	return b.services.TagService.Suggestions(ctx, rebuild)
}

func (b *businessAPIImpl) SetTagPriority(ctx context.Context, tag string, priority int) (*domain.TagInfo, error) {
	return b.services.TagService.SetPriority(ctx, tag, priority)
}

func (b *businessAPIImpl) ListTagPriorities(ctx context.Context) ([]domain.TagInfo, error) {
	return b.services.TagService.Priorities(ctx)
}
