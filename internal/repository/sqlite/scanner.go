package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanRecord scans a single record from a database row
func ScanRecord(scanner Scanner) (*Record, error) {
	record := &Record{}
	if err := scanner.Scan(&record.Key, &record.T1, &record.T2, &record.Ds, &record.Mt); err != nil {
		return nil, err
	}
	return record, nil
}

// ScanRecords scans multiple records from database rows
func ScanRecords(rows Rows) ([]*Record, error) {
	return scanAll(rows, ScanRecord)
}

// ScanTagInfo scans a single tag_info row
func ScanTagInfo(scanner Scanner) (*TagInfo, error) {
	info := &TagInfo{}
	if err := scanner.Scan(&info.Tag, &info.Priority); err != nil {
		return nil, err
	}
	return info, nil
}

// ScanTagInfos scans multiple tag_info rows
func ScanTagInfos(rows Rows) ([]*TagInfo, error) {
	return scanAll(rows, ScanTagInfo)
}

func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	var out []*T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
