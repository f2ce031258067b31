package services

import (
	"log/slog"

	"time-tagger/internal/config"
	"time-tagger/internal/ingest"
	"time-tagger/internal/repository/sqlite"
	"time-tagger/internal/validation"
)

// NewServiceContainer wires all services over one repository
func NewServiceContainer(repo sqlite.Repository, cfg *config.Config, logger *slog.Logger) *ServiceContainer {
	if logger == nil {
		logger = slog.Default()
	}
	loc := cfg.Location()

	store := NewRecordStore(repo, validation.NewRecordValidatorWithConfig(cfg))
	timeService := NewTimeService(loc)
	tagService := NewTagService(repo)

	return &ServiceContainer{
		TimeService: timeService,
		ImportService: NewImportService(repo, store, tagService, ingest.Options{
			Location:   loc,
			YieldEvery: cfg.Import.YieldEvery,
			Logger:     logger.With("component", "import"),
		}),
		ReportService: NewReportService(store, cfg, loc, logger.With("component", "report")),
		ExportService: NewExportService(repo, timeService),
		TagService:    tagService,
	}
}
