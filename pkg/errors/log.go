package errors

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LogHandler is an ErrorHandler that writes one line per error.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Out receives log lines. Nil means stderr.
	Out io.Writer

	mu sync.Mutex
}

func (h *LogHandler) writer() io.Writer {
	if h.Out == nil {
		return os.Stderr
	}
	return h.Out
}

// HandleError logs a CarouselError.
func (h *LogHandler) HandleError(err *CarouselError) {
	if err == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	w := h.writer()
	if h.Verbose {
		fmt.Fprintf(w, "[carousel error] %s %s [%s]: %v\n",
			err.Timestamp.Format("15:04:05.000"), err.Op, err.Kind, err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
		}
		return
	}
	fmt.Fprintf(w, "[carousel error] %s: %v\n", err.Op, err.Err)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	w := h.writer()
	switch {
	case err.Op != "" && err.Kind == KindCallback:
		fmt.Fprintf(w, "[carousel panic] %s [%s]: %v\n", err.Op, err.Kind, err.Value)
	case err.Op != "":
		fmt.Fprintf(w, "[carousel panic] %s: %v\n", err.Op, err.Value)
	default:
		fmt.Fprintf(w, "[carousel panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}
