package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"time-tagger/internal/report"
)

const (
	csvHeader   = "subtotals,tag_groups,duration,date,start,stop,description,user,tags"
	csvBlankRow = ",,,,,,,,"
	csvNewline  = "\r\n"

	totalTitle = "Total"
	gutter     = "  "
	ellipsis   = "…"
)

// renderText writes rows as aligned plain text. Descriptions are cut to fit
// width; width 0 disables truncation.
func renderText(w io.Writer, rows []report.Row, width int) error {
	durWidth := 0
	for _, r := range rows {
		durWidth = max(durWidth, runewidth.StringWidth(rowDuration(r)))
	}

	var b strings.Builder
	for _, r := range rows {
		switch r := r.(type) {
		case report.TotalRow:
			b.WriteString(runewidth.FillLeft(r.Duration, durWidth) + gutter + totalTitle + "\n")
		case report.BlankRow:
			b.WriteString("\n")
		case report.HeadRow:
			indent := strings.Repeat(gutter, max(r.Indent-1, 0))
			b.WriteString(runewidth.FillLeft(r.Duration, durWidth) + gutter + indent + r.Title + "\n")
		case report.RecordRow:
			line := strings.Repeat(" ", durWidth) + gutter +
				fmt.Sprintf("%s %s-%s", r.Date, r.Start, r.Stop) + gutter +
				runewidth.FillLeft(r.Duration, durWidth) + gutter
			ds := r.Description
			if width > 0 {
				room := width - runewidth.StringWidth(line)
				if room <= 0 {
					ds = ""
				} else if runewidth.StringWidth(ds) > room {
					ds = runewidth.Truncate(ds, room, ellipsis)
				}
			}
			b.WriteString(strings.TrimRight(line+ds, " ") + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func rowDuration(r report.Row) string {
	switch r := r.(type) {
	case report.TotalRow:
		return r.Duration
	case report.HeadRow:
		return r.Duration
	case report.RecordRow:
		return r.Duration
	}
	return ""
}

// renderCSV lays rows out in the spreadsheet format: a header, an empty line,
// then one line per row joined with CRLF. Descriptions are always quoted.
func renderCSV(rows []report.Row) string {
	lines := []string{csvHeader, ""}
	for _, r := range rows {
		switch r := r.(type) {
		case report.TotalRow:
			lines = append(lines, csvHeadLine(r.Duration, totalTitle))
		case report.BlankRow:
			lines = append(lines, csvBlankRow)
		case report.HeadRow:
			lines = append(lines, csvHeadLine(r.Duration, r.Title))
		case report.RecordRow:
			lines = append(lines, strings.Join([]string{
				"", "", r.Duration, r.Date, r.Start, r.Stop,
				quoteCSV(r.Description), "", r.Tagz,
			}, ","))
		}
	}
	return strings.Join(lines, csvNewline)
}

func csvHeadLine(duration, title string) string {
	if strings.ContainsAny(title, ",\"\r\n") {
		title = quoteCSV(title)
	}
	return duration + "," + title + ",,,,,,,"
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
