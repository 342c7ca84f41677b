package carousel

// Normalize moves a position that settled in a clone region to the
// congruent position in the real (middle) region. It reports whether a jump
// is needed. Because clones render identically to the real cards, the jump
// is invisible when applied without animation.
func Normalize(displayPosition, n int) (int, bool) {
	if n <= 0 {
		return displayPosition, false
	}
	switch {
	case displayPosition < n:
		return displayPosition + n, true
	case displayPosition >= 2*n:
		return displayPosition - n, true
	default:
		return displayPosition, false
	}
}

// logicalIndex projects a slot index onto [0, n).
func logicalIndex(slot, n int) int {
	if n <= 0 {
		return 0
	}
	i := slot % n
	if i < 0 {
		i += n
	}
	return i
}
