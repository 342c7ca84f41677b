package carousel

import "math"

// SnapState is the cell shared between the snap resolver and the phase
// reconciler.
//
// The resolver writes ResolvedPage from the host's target-adjustment hook;
// the reconciler reads it when the host reports the decelerating phase. Both
// happen on the UI thread, and the host emits that phase in the same call
// stack as the hook, so the write is always visible to the read with no
// frame in between. The cell must not be shared across goroutines.
type SnapState struct {
	// ResolvedPage is the page the current gesture will land on.
	ResolvedPage int
	// CurrentIndex is the committed page used as the center of the ±1 clamp.
	CurrentIndex int
}

// Commit records page as both the resolved and current page.
func (s *SnapState) Commit(page int) {
	s.ResolvedPage = page
	s.CurrentIndex = page
}

// ResolvePage rounds a raw scroll offset to the nearest page and clamps the
// result to at most one page away from current, within [0, slotCount).
// With no valid step or no slots it returns current unchanged.
func ResolvePage(rawOffset, stepWidth float64, current, slotCount int) int {
	if slotCount <= 0 || stepWidth <= 0 || math.IsNaN(rawOffset) || math.IsInf(rawOffset, 0) {
		return current
	}
	page := int(math.Round(rawOffset / stepWidth))
	lo := max(0, current-1)
	hi := min(slotCount-1, current+1)
	if lo > hi {
		// current itself is out of range; fall back to the full range.
		lo, hi = 0, slotCount-1
	}
	return min(max(page, lo), hi)
}

// SnapResolver overrides the host's natural deceleration target with the
// nearest neighboring page.
type SnapResolver struct {
	state     *SnapState
	geometry  *Geometry
	slotCount int
}

// NewSnapResolver returns a resolver writing into state.
func NewSnapResolver(state *SnapState, geometry *Geometry, slotCount int) *SnapResolver {
	return &SnapResolver{state: state, geometry: geometry, slotCount: slotCount}
}

// ResolveTarget resolves rawOffsetX around the state's CurrentIndex and
// stores the result in ResolvedPage before returning it. Without geometry
// or slots it returns CurrentIndex and writes nothing.
func (r *SnapResolver) ResolveTarget(rawOffsetX float64) int {
	step := r.geometry.StepWidth()
	if r.slotCount <= 0 || step <= 0 {
		return r.state.CurrentIndex
	}
	page := ResolvePage(rawOffsetX, step, r.state.CurrentIndex, r.slotCount)
	r.state.ResolvedPage = page
	return page
}
