// Package scrollphase abstracts how a scroll host reports gesture phases.
//
// Hosts differ in how they surface scroll state: newer runtimes push phase
// notifications directly, older ones only expose "is dragging" and
// "is decelerating" flags that must be polled each frame. Both are hidden
// behind [Source] so consumers see a single stream of [Event] values.
//
// Use [ForRuntime] to pick the right implementation for a host version.
package scrollphase

import "fmt"

// Phase is the state of a scroll gesture.
type Phase int

const (
	// Idle means the viewport is at rest.
	Idle Phase = iota
	// Dragging means the user is actively moving the viewport.
	Dragging
	// Decelerating means the viewport is coasting toward its target after
	// the user lifted their finger, or animating programmatically.
	Decelerating
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Decelerating:
		return "decelerating"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Event is a phase transition together with the scroll offset observed at
// the moment of the transition.
type Event struct {
	From   Phase
	To     Phase
	Offset float64
}

// Source delivers phase transitions.
type Source interface {
	// Subscribe registers fn for every transition and returns a function
	// that detaches it. Detaching also releases any hook installed on the
	// host for this subscription.
	Subscribe(fn func(Event)) (cancel func())
	// Sync gives polling sources a chance to sample host state. Hosts call
	// it once per frame; push-based sources ignore it.
	Sync()
}

// ScrollState is the minimal state every scroll host exposes.
type ScrollState interface {
	Offset() float64
	IsDragging() bool
	IsDecelerating() bool
}

// Notifier is implemented by hosts that can push phase changes.
type Notifier interface {
	ScrollState
	// OnPhaseChange installs a hook called on every transition and returns
	// a function that removes it.
	OnPhaseChange(fn func(from, to Phase, offset float64)) (remove func())
}

// Derive maps host flags onto a phase. Dragging wins over decelerating so a
// finger landing on a coasting view reads as a new drag.
func Derive(state ScrollState) Phase {
	switch {
	case state.IsDragging():
		return Dragging
	case state.IsDecelerating():
		return Decelerating
	default:
		return Idle
	}
}
