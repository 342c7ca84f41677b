// Package errors provides structured error reporting for the carousel and
// its hosts.
//
// The carousel core has no recoverable failure modes: invalid geometry and
// empty item sets degrade to no-ops. What remains are problems outside the
// state machine (configuration, host runtime detection) and panics raised by
// caller-supplied callbacks. Those are wrapped in [CarouselError] or
// [PanicError] and routed to a single replaceable [ErrorHandler].
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates an invalid or unreadable configuration.
	KindConfig
	// KindPhase indicates a scroll-phase source could not be set up.
	KindPhase
	// KindCallback indicates a caller-supplied callback failed.
	KindCallback
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindPhase:
		return "phase"
	case KindCallback:
		return "callback"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// CarouselError is a structured error raised around a carousel.
type CarouselError struct {
	// Op is the operation that failed (e.g., "scrollphase.ForRuntime").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *CarouselError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *CarouselError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "carousel.autoAdvance").
	Op string
	// Kind is KindCallback when caller code panicked, KindPanic otherwise.
	Kind ErrorKind
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives reported errors.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *CarouselError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
