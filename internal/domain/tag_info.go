package domain

// Tag priorities. Anything above PriorityPrimary is secondary.
const (
	PriorityPrimary   = 1
	PrioritySecondary = 2
)

// TagInfo holds per-tag settings.
type TagInfo struct {
	Tag      string
	Priority int
}

// NewTagInfo creates a TagInfo with the default priority.
func NewTagInfo(tag string) TagInfo {
	return TagInfo{Tag: tag, Priority: PriorityPrimary}
}

// EffectivePriority treats an unset priority as primary.
func (t TagInfo) EffectivePriority() int {
	if t.Priority <= 0 {
		return PriorityPrimary
	}
	return t.Priority
}

// IsSecondary returns true for tags that can be hidden from reports.
func (t TagInfo) IsSecondary() bool {
	return t.EffectivePriority() > PriorityPrimary
}

// TimeRange selects records overlapping [T1, T2).
type TimeRange struct {
	T1 int64
	T2 int64
}
