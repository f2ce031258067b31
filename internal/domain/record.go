package domain

import (
	"strings"
	"time"
)

// HiddenPrefix marks a record as deleted without removing it from the store.
const HiddenPrefix = "HIDDEN"

// Record represents a tracked span of time in the domain model.
// T1 and T2 are Unix seconds; a record with T1 == T2 is still running.
// The description Ds carries the record's #tags inline.
type Record struct {
	Key string
	T1  int64
	T2  int64
	Ds  string
	Mt  int64
}

// NewRecord creates a record for the given interval and description.
func NewRecord(t1, t2 int64, ds string) Record {
	return Record{T1: t1, T2: t2, Ds: ds}
}

// IsRunning returns true if the record has not been stopped yet.
func (r Record) IsRunning() bool {
	return r.T1 == r.T2
}

// IsHidden returns true if the record has been marked as hidden.
func (r Record) IsHidden() bool {
	return strings.HasPrefix(r.Ds, HiddenPrefix)
}

// Duration returns the length of the record. A running record lasts until now.
func (r Record) Duration(now time.Time) time.Duration {
	t2 := r.T2
	if r.IsRunning() {
		t2 = max(now.Unix(), r.T1)
	}
	return time.Duration(t2-r.T1) * time.Second
}

// Tags returns the sorted unique tags of the description, or #untagged.
func (r Record) Tags() []string {
	tags := ExtractTags(r.Ds)
	if len(tags) == 0 {
		return []string{UntaggedTag}
	}
	return tags
}

// Tagz returns the record's tags joined by a space, the key records are grouped on.
func (r Record) Tagz() string {
	return strings.Join(r.Tags(), " ")
}
