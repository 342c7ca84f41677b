package errors

import (
	stderrors "errors"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler is the global error handler.
	// It defaults to LogHandler writing to stderr.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = &LogHandler{}
	} else {
		DefaultHandler = h
	}
}

func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report sends an error to the global handler.
// If err.Timestamp is zero, it is set to the current time.
func Report(err *CarouselError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleError(err)
	}
}

// ReportPanic sends a panic error to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandlePanic(err)
	}
}

// Recover reports a panic raised inside the carousel itself.
// Usage: defer errors.Recover("carousel.autoAdvance")
func Recover(op string) {
	if r := recover(); r != nil {
		reportRecovered(op, KindPanic, r)
	}
}

// RecoverCallback reports a panic raised by a caller-supplied callback such
// as Content or OnSelectedIndexChange. The carousel keeps its state and
// carries on.
func RecoverCallback(op string) {
	if r := recover(); r != nil {
		reportRecovered(op, KindCallback, r)
	}
}

func reportRecovered(op string, kind ErrorKind, r any) {
	ReportPanic(&PanicError{
		Op:         op,
		Kind:       kind,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	})
}

// Wrap classifies err as a CarouselError for op. Nil stays nil and an err
// that already carries a CarouselError is returned unchanged.
func Wrap(op string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var ce *CarouselError
	if stderrors.As(err, &ce) {
		return err
	}
	return &CarouselError{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// Classify returns the CarouselError carried by err, wrapping it as
// KindUnknown under op when there is none.
func Classify(op string, err error) *CarouselError {
	if err == nil {
		return nil
	}
	var ce *CarouselError
	if stderrors.As(err, &ce) {
		return ce
	}
	return &CarouselError{Op: op, Kind: KindUnknown, Err: err}
}

// CaptureStack returns the current call stack as a string, skipping the
// frames of CaptureStack and reportRecovered.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
