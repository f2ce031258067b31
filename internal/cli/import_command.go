package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"time-tagger/internal/api"
	"time-tagger/internal/errors"
)

// ImportCommand handles the import command
type ImportCommand struct {
	businessAPI     api.BusinessAPI
	in              io.Reader
	out             io.Writer
	stdinIsTerminal func() bool
	errorHandler    *ErrorHandler
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App) *ImportCommand {
	return &ImportCommand{
		businessAPI:     app.businessAPI,
		in:              app.in,
		out:             app.out,
		stdinIsTerminal: app.stdinIsTerminal,
		errorHandler:    NewErrorHandler(app.logger),
	}
}

// Execute imports the file named in args, or stdin when there is none or it is "-"
func (c *ImportCommand) Execute(ctx context.Context, args []string, dryRun bool) error {
	text, err := c.readInput(args)
	if err != nil {
		return err
	}

	summary, err := c.businessAPI.ImportText(ctx, text, dryRun, func(msg string) {
		fmt.Fprintln(c.out, msg)
	})
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	c.printSummary(summary)
	return nil
}

func (c *ImportCommand) readInput(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}

	if c.stdinIsTerminal != nil && c.stdinIsTerminal() {
		return "", errors.NewInvalidInputError("input", "stdin", "pass a file or pipe the data in")
	}
	data, err := io.ReadAll(c.in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func (c *ImportCommand) printSummary(summary *api.ImportSummary) {
	fmt.Fprintf(c.out, "Found %d records in %d rows, %d new.\n", summary.Found, summary.Rows, summary.New)
	if summary.DryRun {
		fmt.Fprintln(c.out, "Dry run: nothing was saved.")
		return
	}
	fmt.Fprintf(c.out, "Imported %d records.\n", summary.Committed)
}
