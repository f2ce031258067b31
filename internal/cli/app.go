package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"time-tagger/internal/api"
	"time-tagger/internal/config"
)

// App holds what every command handler needs: the business API, the loaded
// configuration and the process streams.
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	logger      *slog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// stdinIsTerminal reports whether input would come from an interactive terminal
	stdinIsTerminal func() bool
	// outputWidth returns the terminal width of out, or 0 when out is not a terminal
	outputWidth func() int
}

// NewApp creates a CLI application bound to the process streams
func NewApp(businessAPI api.BusinessAPI, cfg *config.Config) *App {
	return &App{
		businessAPI:     businessAPI,
		config:          cfg,
		logger:          slog.Default(),
		in:              os.Stdin,
		out:             os.Stdout,
		errOut:          os.Stderr,
		stdinIsTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		outputWidth:     stdoutWidth,
	}
}

// SetIO replaces the streams, e.g. with buffers in tests. Streams that are
// not files are never treated as terminals.
func (a *App) SetIO(in io.Reader, out, errOut io.Writer) {
	a.in = in
	a.out = out
	a.errOut = errOut
	a.stdinIsTerminal = func() bool { return isTerminal(in) }
	a.outputWidth = func() int { return terminalWidth(out) }
}

func stdoutWidth() int {
	return terminalWidth(os.Stdout)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(v any) int {
	f, ok := v.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
