package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"time-tagger/internal/api"
	"time-tagger/internal/config"
	"time-tagger/internal/domain"
	"time-tagger/internal/errors"
	"time-tagger/internal/report"
)

// mockBusinessAPI implements the BusinessAPI interface for testing
type mockBusinessAPI struct {
	// import
	importedText string
	importDryRun bool
	importLog    []string
	importErr    error

	// report
	defaults   report.Options
	lastReport api.ReportRequest
	reportRows []report.Row
	reportErr  error

	// export
	exportFormat string
	exportErr    error

	// tags
	tags        []api.TagSuggestion
	priorities  map[string]int
	lastRebuild bool
}

// newMockBusinessAPI creates a new mock BusinessAPI instance
func newMockBusinessAPI() *mockBusinessAPI {
	return &mockBusinessAPI{
		defaults: report.Options{
			Grouping:    report.GroupTagz,
			Period:      report.PeriodNone,
			Format:      report.FormatHourMinute,
			ShowRecords: true,
		},
		priorities: make(map[string]int),
	}
}

func (m *mockBusinessAPI) ImportText(ctx context.Context, text string, dryRun bool, onMessage func(string)) (*api.ImportSummary, error) {
	m.importedText = text
	m.importDryRun = dryRun
	for _, msg := range m.importLog {
		onMessage(msg)
	}
	if m.importErr != nil {
		return nil, m.importErr
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewEmptyInputError("No data")
	}

	rows := strings.Count(strings.TrimSpace(text), "\n")
	summary := &api.ImportSummary{Rows: rows, Found: rows, New: rows, DryRun: dryRun, Log: m.importLog}
	if !dryRun {
		summary.Committed = rows
	}
	return summary, nil
}

func (m *mockBusinessAPI) DefaultReportOptions() report.Options {
	return m.defaults
}

func (m *mockBusinessAPI) GenerateReport(ctx context.Context, req api.ReportRequest) (*api.Report, error) {
	m.lastReport = req
	if m.reportErr != nil {
		return nil, m.reportErr
	}

	dates := api.DateRange{From: req.From, To: req.To}
	if dates.From == "" {
		dates = api.DateRange{From: "2024-01-15", To: "2024-01-15"}
	}
	return &api.Report{
		Dates:    dates,
		Rows:     m.reportRows,
		Filename: api.ReportFilename(dates),
	}, nil
}

func (m *mockBusinessAPI) ExportRecords(ctx context.Context, w io.Writer, dateTimeFormat string) (int, error) {
	m.exportFormat = dateTimeFormat
	if m.exportErr != nil {
		return 0, m.exportErr
	}
	fmt.Fprintln(w, "key\tstart\tstop\ttags\tdescription")
	fmt.Fprintln(w, "k1\t1705309200\t1705314600\t#aa\t#aa work")
	return 1, nil
}

func (m *mockBusinessAPI) ListTags(ctx context.Context, rebuild bool) ([]api.TagSuggestion, error) {
	m.lastRebuild = rebuild
	return m.tags, nil
}

func (m *mockBusinessAPI) SetTagPriority(ctx context.Context, tag string, priority int) (*domain.TagInfo, error) {
	if priority != domain.PriorityPrimary && priority != domain.PrioritySecondary {
		return nil, errors.NewInvalidInputError("priority", priority, "must be 1 or 2")
	}
	tag = domain.ConvertTextToValidTag(tag)
	m.priorities[tag] = priority
	return &domain.TagInfo{Tag: tag, Priority: priority}, nil
}

func (m *mockBusinessAPI) ListTagPriorities(ctx context.Context) ([]domain.TagInfo, error) {
	infos := make([]domain.TagInfo, 0, len(m.priorities))
	for tag, p := range m.priorities {
		infos = append(infos, domain.TagInfo{Tag: tag, Priority: p})
	}
	return infos, nil
}

// testApp bundles an App wired to the mock with captured output
type testApp struct {
	*App
	mock   *mockBusinessAPI
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// setupTestAppWithMockBusinessAPI creates an App that reads stdin from input
func setupTestAppWithMockBusinessAPI(t *testing.T, input string) *testApp {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Time.Timezone = "UTC"
	mock := newMockBusinessAPI()
	app := NewApp(mock, cfg)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	app.SetIO(strings.NewReader(input), out, errOut)

	return &testApp{App: app, mock: mock, out: out, errOut: errOut}
}
