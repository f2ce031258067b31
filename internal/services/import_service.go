package services

import (
	"context"
	"log/slog"

	"time-tagger/internal/domain"
	"time-tagger/internal/ingest"
	"time-tagger/internal/repository/sqlite"
)

// importServiceImpl implements the ImportService interface
type importServiceImpl struct {
	repo       sqlite.Repository
	parser     *ingest.Parser
	tagService TagService
	mapper     *domain.Mapper
	logger     *slog.Logger
}

// NewImportService creates a new ImportService. Imports share one parser, so
// a newer import supersedes one still being analysed.
func NewImportService(repo sqlite.Repository, store ingest.Store, tagService TagService, opts ingest.Options) ImportService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &importServiceImpl{
		repo:       repo,
		parser:     ingest.NewParser(store, opts),
		tagService: tagService,
		mapper:     domain.NewMapper(),
		logger:     opts.Logger,
	}
}

// Analyse parses text without writing anything
func (s *importServiceImpl) Analyse(ctx context.Context, text string, hooks ingest.Hooks) (*ingest.Result, error) {
	return s.parser.Parse(ctx, text, hooks)
}

// Commit writes all records of an analysed batch in one transaction
func (s *importServiceImpl) Commit(ctx context.Context, result *ingest.Result) (int, error) {
	if result == nil || len(result.Records) == 0 {
		return 0, nil
	}

	dbRecords := make([]*sqlite.Record, len(result.Records))
	for i, record := range result.Records {
		dbRecord := s.mapper.Record.ToDatabase(record)
		dbRecords[i] = &dbRecord
	}

	if err := s.repo.PutRecords(ctx, dbRecords); err != nil {
		return 0, err
	}
	s.tagService.Invalidate()

	s.logger.Info("import committed", "records", len(dbRecords))
	return len(dbRecords), nil
}

// Import analyses text and commits it unless dryRun is set
func (s *importServiceImpl) Import(ctx context.Context, text string, hooks ingest.Hooks, dryRun bool) (*ImportSummary, error) {
	result, err := s.Analyse(ctx, text, hooks)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{
		Rows:   result.Rows,
		Found:  len(result.Records),
		New:    result.NewCount,
		DryRun: dryRun,
		Log:    result.Log,
	}
	if dryRun {
		return summary, nil
	}

	summary.Committed, err = s.Commit(ctx, result)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
