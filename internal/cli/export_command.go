package cli

import (
	"context"
	"fmt"
	"io"

	"time-tagger/internal/api"
)

// ExportCommand handles the export command
type ExportCommand struct {
	businessAPI  api.BusinessAPI
	out          io.Writer
	errOut       io.Writer
	errorHandler *ErrorHandler
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{
		businessAPI:  app.businessAPI,
		out:          app.out,
		errOut:       app.errOut,
		errorHandler: NewErrorHandler(app.logger),
	}
}

// Execute writes every visible record as tab separated text that import reads back
func (c *ExportCommand) Execute(ctx context.Context, dateTimeFormat string) error {
	n, err := c.businessAPI.ExportRecords(ctx, c.out, dateTimeFormat)
	if err != nil {
		return c.errorHandler.Handle("export records", err)
	}
	fmt.Fprintf(c.errOut, "Exported %d records.\n", n)
	return nil
}
