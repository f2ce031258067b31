package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"time-tagger/internal/api"
	"time-tagger/internal/report"
)

// ReportParams carries the report flags. Nil option fields keep the
// configured default.
type ReportParams struct {
	From string
	To   string
	Tags []string

	Grouping      *string
	Period        *string
	Format        *string
	HideSecondary *bool
	ShowRecords   *bool

	// CSV writes the spreadsheet layout to stdout; Save writes it to the
	// suggested file name instead.
	CSV  bool
	Save bool
}

// ReportCommand handles the report command
type ReportCommand struct {
	businessAPI  api.BusinessAPI
	out          io.Writer
	outputWidth  func() int
	errorHandler *ErrorHandler
	writeFile    func(name string, data []byte) error
}

// NewReportCommand creates a new report command handler
func NewReportCommand(app *App) *ReportCommand {
	return &ReportCommand{
		businessAPI:  app.businessAPI,
		out:          app.out,
		outputWidth:  app.outputWidth,
		errorHandler: NewErrorHandler(app.logger),
		writeFile: func(name string, data []byte) error {
			return os.WriteFile(name, data, 0644)
		},
	}
}

// Execute builds the report for the range in args (default today) and prints it
func (c *ReportCommand) Execute(ctx context.Context, args []string, params ReportParams) error {
	req := api.ReportRequest{
		From:    params.From,
		To:      params.To,
		Tags:    params.Tags,
		Options: c.options(params),
	}
	if len(args) > 0 {
		req.Range = args[0]
	}

	rep, err := c.businessAPI.GenerateReport(ctx, req)
	if err != nil {
		return c.errorHandler.Handle("generate report", err)
	}

	switch {
	case params.Save:
		if err := c.writeFile(rep.Filename, []byte(renderCSV(rep.Rows))); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Fprintf(c.out, "Saved report to %s\n", rep.Filename)
		return nil
	case params.CSV:
		_, err := io.WriteString(c.out, renderCSV(rep.Rows)+csvNewline)
		return err
	}

	if rep.Dates.From == rep.Dates.To {
		fmt.Fprintf(c.out, "Report for %s\n\n", rep.Dates.From)
	} else {
		fmt.Fprintf(c.out, "Report for %s to %s\n\n", rep.Dates.From, rep.Dates.To)
	}
	if len(rep.Rows) == 0 {
		fmt.Fprintln(c.out, "No records.")
		return nil
	}
	width := 0
	if c.outputWidth != nil {
		width = c.outputWidth()
	}
	return renderText(c.out, rep.Rows, width)
}

func (c *ReportCommand) options(params ReportParams) report.Options {
	opts := c.businessAPI.DefaultReportOptions()
	if params.Grouping != nil {
		opts.Grouping = report.Grouping(*params.Grouping)
	}
	if params.Period != nil {
		opts.Period = report.Period(*params.Period)
	}
	if params.Format != nil {
		opts.Format = report.Format(*params.Format)
	}
	if params.HideSecondary != nil {
		opts.HideSecondary = *params.HideSecondary
	}
	if params.ShowRecords != nil {
		opts.ShowRecords = *params.ShowRecords
	}
	return opts
}
