package report

// Row is one line of a report: a TotalRow, BlankRow, HeadRow or RecordRow.
type Row interface {
	row()
}

// TotalRow is always the first row and sums every group.
type TotalRow struct {
	Seconds  float64
	Duration string
}

// BlankRow separates groups when detail records are shown.
type BlankRow struct{}

// HeadRow opens a group. Indent is its nesting depth below the total;
// group heads sit at depth 1.
type HeadRow struct {
	Seconds  float64
	Duration string
	Title    string
	Indent   int
}

// RecordRow is a single record inside a group.
type RecordRow struct {
	Key         string
	Seconds     float64
	Duration    string
	Date        string
	Start       string
	Stop        string
	Description string
	Tagz        string
}

func (TotalRow) row()  {}
func (BlankRow) row()  {}
func (HeadRow) row()   {}
func (RecordRow) row() {}
