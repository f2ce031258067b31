package domain

import (
	"time-tagger/internal/repository/sqlite"
)

// RecordMapper handles conversion between domain and database Record models.
type RecordMapper struct{}

// NewRecordMapper creates a new RecordMapper instance.
func NewRecordMapper() *RecordMapper {
	return &RecordMapper{}
}

// ToDatabase converts a domain Record to a database Record.
func (m *RecordMapper) ToDatabase(r Record) sqlite.Record {
	return sqlite.Record{
		Key: r.Key,
		T1:  r.T1,
		T2:  r.T2,
		Ds:  r.Ds,
		Mt:  r.Mt,
	}
}

// FromDatabase converts a database Record to a domain Record.
func (m *RecordMapper) FromDatabase(r sqlite.Record) Record {
	return Record{
		Key: r.Key,
		T1:  r.T1,
		T2:  r.T2,
		Ds:  r.Ds,
		Mt:  r.Mt,
	}
}

// ToDatabaseSlice converts a slice of domain Records to database Records.
func (m *RecordMapper) ToDatabaseSlice(records []Record) []sqlite.Record {
	out := make([]sqlite.Record, len(records))
	for i, r := range records {
		out[i] = m.ToDatabase(r)
	}
	return out
}

// FromDatabaseSlice converts database Records to domain Records.
func (m *RecordMapper) FromDatabaseSlice(records []*sqlite.Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = m.FromDatabase(*r)
	}
	return out
}

// TagInfoMapper handles conversion between domain and database TagInfo models.
type TagInfoMapper struct{}

// NewTagInfoMapper creates a new TagInfoMapper instance.
func NewTagInfoMapper() *TagInfoMapper {
	return &TagInfoMapper{}
}

// ToDatabase converts a domain TagInfo to a database TagInfo.
func (m *TagInfoMapper) ToDatabase(t TagInfo) sqlite.TagInfo {
	return sqlite.TagInfo{Tag: t.Tag, Priority: t.Priority}
}

// FromDatabase converts a database TagInfo to a domain TagInfo.
func (m *TagInfoMapper) FromDatabase(t sqlite.TagInfo) TagInfo {
	return TagInfo{Tag: t.Tag, Priority: t.Priority}
}

// TimeRangeMapper converts domain time ranges to database search options.
type TimeRangeMapper struct{}

// NewTimeRangeMapper creates a new TimeRangeMapper instance.
func NewTimeRangeMapper() *TimeRangeMapper {
	return &TimeRangeMapper{}
}

// ToDatabase converts a domain TimeRange to database SearchOptions.
func (m *TimeRangeMapper) ToDatabase(tr TimeRange) sqlite.SearchOptions {
	return sqlite.SearchOptions{T1: tr.T1, T2: tr.T2}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Record    *RecordMapper
	TagInfo   *TagInfoMapper
	TimeRange *TimeRangeMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Record:    NewRecordMapper(),
		TagInfo:   NewTagInfoMapper(),
		TimeRange: NewTimeRangeMapper(),
	}
}
