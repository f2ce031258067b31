package services

import (
	"context"
	"log/slog"
	"time"

	"time-tagger/internal/config"
	"time-tagger/internal/report"
)

// reportServiceImpl implements the ReportService interface
type reportServiceImpl struct {
	engine   *report.Engine
	defaults report.Options
}

// NewReportService creates a new ReportService reading from source
func NewReportService(source report.Source, cfg *config.Config, loc *time.Location, logger *slog.Logger) ReportService {
	return &reportServiceImpl{
		engine:   report.NewEngine(source, loc, logger),
		defaults: OptionsFromConfig(cfg.Report),
	}
}

// OptionsFromConfig converts the configured report defaults
func OptionsFromConfig(rc config.ReportConfig) report.Options {
	return report.Options{
		Grouping:      report.Grouping(rc.Grouping),
		Period:        report.Period(rc.Period),
		HideSecondary: rc.HideSecondary,
		Format:        report.Format(rc.DurationFormat),
		ShowRecords:   rc.ShowRecords,
	}
}

// DefaultOptions returns the configured report options
func (r *reportServiceImpl) DefaultOptions() report.Options {
	return r.defaults
}

// Generate builds a report over an interval of Unix seconds
func (r *reportServiceImpl) Generate(ctx context.Context, req report.Request) ([]report.Row, error) {
	return r.engine.Generate(ctx, req)
}

// GenerateForDates builds a report over whole days
func (r *reportServiceImpl) GenerateForDates(ctx context.Context, dates DateRange, tags []string, opts report.Options) ([]report.Row, error) {
	return r.engine.GenerateForDates(ctx, dates.From, dates.To, tags, opts)
}
