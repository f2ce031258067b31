package services

import (
	"context"

	"time-tagger/internal/domain"
	"time-tagger/internal/errors"
	"time-tagger/internal/repository/sqlite"
	"time-tagger/internal/validation"
)

// RecordStore adapts the repository to what the importer and the report
// engine read from.
type RecordStore struct {
	repo      sqlite.Repository
	validator *validation.RecordValidator
	mapper    *domain.Mapper
}

// NewRecordStore creates a store over repo that accepts what validator accepts
func NewRecordStore(repo sqlite.Repository, validator *validation.RecordValidator) *RecordStore {
	return &RecordStore{
		repo:      repo,
		validator: validator,
		mapper:    domain.NewMapper(),
	}
}

// KeyForTimes returns the key of the record with exactly these times, or ""
func (s *RecordStore) KeyForTimes(ctx context.Context, t1, t2 int64) (string, error) {
	return s.repo.FindKeyByTimes(ctx, t1, t2)
}

// GetByKey returns the stored record, or nil if there is none
func (s *RecordStore) GetByKey(ctx context.Context, key string) (*domain.Record, error) {
	dbRecord, err := s.repo.GetRecord(ctx, key)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	record := s.mapper.Record.FromDatabase(*dbRecord)
	return &record, nil
}

// Validate returns the records that may be written
func (s *RecordStore) Validate(records []domain.Record) []domain.Record {
	return s.validator.Valid(records)
}

// RecordsBetween returns the records overlapping [t1, t2)
func (s *RecordStore) RecordsBetween(ctx context.Context, t1, t2 int64) ([]domain.Record, error) {
	opts := s.mapper.TimeRange.ToDatabase(domain.TimeRange{T1: t1, T2: t2})
	dbRecords, err := s.repo.SearchRecords(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.mapper.Record.FromDatabaseSlice(dbRecords), nil
}

// TagPriorities returns the stored priority per tag
func (s *RecordStore) TagPriorities(ctx context.Context) (map[string]int, error) {
	infos, err := s.repo.ListTagPriorities(ctx)
	if err != nil {
		return nil, err
	}
	priorities := make(map[string]int, len(infos))
	for _, info := range infos {
		priorities[info.Tag] = info.Priority
	}
	return priorities, nil
}
