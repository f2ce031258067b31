package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time-tagger/internal/report"
)

func sampleRows() []report.Row {
	return []report.Row{
		report.TotalRow{Seconds: 9000, Duration: "2:30"},
		report.BlankRow{},
		report.HeadRow{Seconds: 5400, Duration: "1:30", Title: "#aa"},
		report.RecordRow{Key: "k1", Seconds: 5400, Duration: "1:30", Date: "2024-01-15", Start: "09:00", Stop: "10:30", Description: `#aa "big" work`, Tagz: "#aa"},
		report.BlankRow{},
		report.HeadRow{Seconds: 3600, Duration: "1:00", Title: "#bb"},
		report.RecordRow{Key: "k2", Seconds: 3600, Duration: "1:00", Date: "2024-01-15", Start: "11:00", Stop: "12:00", Description: "#bb review", Tagz: "#bb"},
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderText(&buf, sampleRows(), 0))

	expected := strings.Join([]string{
		"2:30  Total",
		"",
		"1:30  #aa",
		`      2024-01-15 09:00-10:30  1:30  #aa "big" work`,
		"",
		"1:00  #bb",
		"      2024-01-15 11:00-12:00  1:00  #bb review",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestRenderText_AlignsDurations(t *testing.T) {
	rows := []report.Row{
		report.TotalRow{Duration: "12:00"},
		report.HeadRow{Duration: "1:00", Title: "#aa"},
	}
	var buf bytes.Buffer
	require.NoError(t, renderText(&buf, rows, 0))
	assert.Equal(t, "12:00  Total\n 1:00  #aa\n", buf.String())
}

func TestRenderText_IndentsNestedHeads(t *testing.T) {
	rows := []report.Row{
		report.TotalRow{Duration: "2:00"},
		report.HeadRow{Duration: "2:00", Title: "2024W3", Indent: 1},
		report.HeadRow{Duration: "1:00", Title: "#aa", Indent: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, renderText(&buf, rows, 0))
	assert.Equal(t, "2:00  Total\n2:00  2024W3\n1:00    #aa\n", buf.String())
}

func TestRenderText_TruncatesDescriptions(t *testing.T) {
	rows := []report.Row{
		report.RecordRow{Duration: "1:30", Date: "2024-01-15", Start: "09:00", Stop: "10:30", Description: "#aa work"},
	}

	tests := []struct {
		name     string
		width    int
		expected string
	}{
		{"fits", 80, "      2024-01-15 09:00-10:30  1:30  #aa work\n"},
		{"cut", 40, "      2024-01-15 09:00-10:30  1:30  #aa…\n"},
		{"no room", 20, "      2024-01-15 09:00-10:30  1:30\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderText(&buf, rows, tt.width))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestRenderCSV(t *testing.T) {
	expected := strings.Join([]string{
		"subtotals,tag_groups,duration,date,start,stop,description,user,tags",
		"",
		"2:30,Total,,,,,,,",
		",,,,,,,,",
		"1:30,#aa,,,,,,,",
		`,,1:30,2024-01-15,09:00,10:30,"#aa ""big"" work",,#aa`,
		",,,,,,,,",
		"1:00,#bb,,,,,,,",
		`,,1:00,2024-01-15,11:00,12:00,"#bb review",,#bb`,
	}, "\r\n")
	assert.Equal(t, expected, renderCSV(sampleRows()))
}

func TestRenderCSV_QuotesTitlesWithCommas(t *testing.T) {
	rows := []report.Row{
		report.TotalRow{Duration: "1:00"},
		report.HeadRow{Duration: "1:00", Title: "meeting, weekly"},
	}
	lines := strings.Split(renderCSV(rows), "\r\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `1:00,"meeting, weekly",,,,,,,`, lines[3])
}
