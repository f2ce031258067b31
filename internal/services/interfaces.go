package services

import (
	"context"
	"io"

	"time-tagger/internal/domain"
	"time-tagger/internal/ingest"
	"time-tagger/internal/report"
)

// DateRange is an inclusive pair of YYYY-MM-DD dates
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ImportSummary describes the outcome of an import
type ImportSummary struct {
	Rows      int      `json:"rows"`
	Found     int      `json:"found"`
	New       int      `json:"new"`
	Committed int      `json:"committed"`
	DryRun    bool     `json:"dry_run"`
	Log       []string `json:"log"`
}

// TagSuggestion is a tag that has been used, with the last time it was used
type TagSuggestion struct {
	Tag      string `json:"tag"`
	LastUsed int64  `json:"last_used"`
}

// DateTimeFormat selects how export timestamps are written
type DateTimeFormat string

const (
	DateTimeLocal DateTimeFormat = "local" // 2006-01-02 15:04:05 in the configured zone
	DateTimeUnix  DateTimeFormat = "unix"  // seconds since the epoch
	DateTimeISO   DateTimeFormat = "iso"   // RFC 3339 in UTC
)

// TimeService handles dates, ranges and timestamp formatting
type TimeService interface {
	// Range operations
	ParseRange(shorthand string) (*DateRange, error)
	Today() string

	// Formatting
	FormatTimestamp(t int64, format DateTimeFormat) string
	FormatDate(t int64) string
}

// ImportService turns foreign tables into stored records
type ImportService interface {
	// Analyse parses text without writing anything
	Analyse(ctx context.Context, text string, hooks ingest.Hooks) (*ingest.Result, error)
	// Commit upserts an analysed batch and returns the number of records written
	Commit(ctx context.Context, result *ingest.Result) (int, error)
	// Import analyses text and, unless dryRun is set, commits it
	Import(ctx context.Context, text string, hooks ingest.Hooks, dryRun bool) (*ImportSummary, error)
}

// ReportService builds reports over stored records
type ReportService interface {
	Generate(ctx context.Context, req report.Request) ([]report.Row, error)
	GenerateForDates(ctx context.Context, dates DateRange, tags []string, opts report.Options) ([]report.Row, error)
	DefaultOptions() report.Options
}

// ExportService writes stored records in a format the importer reads back
type ExportService interface {
	Export(ctx context.Context, w io.Writer, format DateTimeFormat) (int, error)
}

// TagService handles tag suggestions and priorities
type TagService interface {
	Suggestions(ctx context.Context, force bool) ([]TagSuggestion, error)
	Invalidate()
	SetPriority(ctx context.Context, tag string, priority int) (*domain.TagInfo, error)
	Priorities(ctx context.Context) ([]domain.TagInfo, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TimeService   TimeService
	ImportService ImportService
	ReportService ReportService
	ExportService ExportService
	TagService    TagService
}
