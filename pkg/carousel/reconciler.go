package carousel

import "github.com/go-drift/carousel/pkg/scrollphase"

// position holds the two parallel views of where the carousel is.
// display roams over [0, 3n); selected is always display mod n.
type position struct {
	display  int
	selected int
	n        int
}

func (p *position) set(slot int) {
	p.display = slot
	p.selected = logicalIndex(slot, p.n)
}

// reconcilerHooks are the side effects the reconciler asks its owner for.
type reconcilerHooks struct {
	// ready gates every position mutation on valid geometry.
	ready func() bool
	// committed is called after a page commit with the new selected index.
	committed func(selected int)
	// jumped is called after loopback with the new display position. The
	// owner repositions the viewport without animation.
	jumped func(display int)
	// phaseChanged is called when the phase differs from the previous one.
	phaseChanged func(phase scrollphase.Phase)
}

// Reconciler applies scroll-phase transitions to the carousel position.
//
//	Idle ──drag──► Dragging ──lift──► Decelerating ──settle──► Idle
//
// Entering Decelerating commits the snap resolver's page. Entering Idle
// runs loopback normalization. Dragging only restarts the auto-advance
// countdown. Every handler is idempotent, so re-delivered or duplicated
// events are harmless.
type Reconciler struct {
	phase scrollphase.Phase
	snap  *SnapState
	pos   *position
	hooks reconcilerHooks
}

func newReconciler(snap *SnapState, pos *position, hooks reconcilerHooks) *Reconciler {
	return &Reconciler{phase: scrollphase.Idle, snap: snap, pos: pos, hooks: hooks}
}

// Phase returns the last phase applied.
func (r *Reconciler) Phase() scrollphase.Phase {
	return r.phase
}

// Handle applies one transition. Only the destination phase matters; the
// source phase in the event is informational.
func (r *Reconciler) Handle(event scrollphase.Event) {
	previous := r.phase
	r.phase = event.To

	switch event.To {
	case scrollphase.Decelerating:
		r.commitResolved()
	case scrollphase.Idle:
		// A polled host can miss the decelerating frame entirely.
		if previous == scrollphase.Dragging {
			r.commitResolved()
		}
		r.settle()
	}

	if previous != event.To && r.hooks.phaseChanged != nil {
		r.hooks.phaseChanged(event.To)
	}
}

func (r *Reconciler) canMutate() bool {
	if r.pos.n <= 0 {
		return false
	}
	return r.hooks.ready == nil || r.hooks.ready()
}

func (r *Reconciler) commitResolved() {
	if !r.canMutate() {
		return
	}
	page := min(max(r.snap.ResolvedPage, 0), 3*r.pos.n-1)
	r.pos.set(page)
	r.snap.CurrentIndex = page
	if r.hooks.committed != nil {
		r.hooks.committed(r.pos.selected)
	}
}

func (r *Reconciler) settle() {
	if !r.canMutate() {
		return
	}
	next, jumped := Normalize(r.pos.display, r.pos.n)
	if !jumped {
		return
	}
	r.pos.set(next)
	r.snap.Commit(next)
	if r.hooks.jumped != nil {
		r.hooks.jumped(next)
	}
}
