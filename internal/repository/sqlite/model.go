package sqlite

// Record is a row of the records table. Times are Unix seconds.
type Record struct {
	Key string
	T1  int64
	T2  int64
	Ds  string
	Mt  int64
}

// TagInfo is a row of the tag_info table.
type TagInfo struct {
	Tag      string
	Priority int
}
