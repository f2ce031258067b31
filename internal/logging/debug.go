package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	traceMu  sync.Mutex
	traceOut io.Writer = os.Stderr
)

// DebugEnabled reports whether TG_DEBUG is set to a non-empty value
func DebugEnabled() bool {
	return os.Getenv("TG_DEBUG") != ""
}

// SetTraceOutput redirects traces and returns the previous writer
func SetTraceOutput(w io.Writer) io.Writer {
	traceMu.Lock()
	defer traceMu.Unlock()
	prev := traceOut
	traceOut = w
	return prev
}

// Tracef prints "[component] message" when TG_DEBUG is set. Traces bypass
// slog so they show up regardless of the configured level.
func Tracef(component, format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	traceMu.Lock()
	defer traceMu.Unlock()
	fmt.Fprintf(traceOut, "[%s] %s\n", component, fmt.Sprintf(format, args...))
}
