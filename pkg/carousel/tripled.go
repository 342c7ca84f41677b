package carousel

// Copy numbers of the three regions of a tripled sequence.
const (
	CopyFront = 0
	CopyReal  = 1
	CopyBack  = 2
)

// Slot is one materialized position in the tripled sequence.
//
// ID is unique across all three copies (ID = Copy*N + LogicalIndex), so a
// renderer keyed by ID never conflates a clone with the real card it mirrors.
type Slot[T any] struct {
	ID           int
	LogicalIndex int
	Copy         int
	Item         T
}

// IsClone reports whether the slot lies outside the middle (real) region.
func (s Slot[T]) IsClone() bool {
	return s.Copy != CopyReal
}

// Build lays items out three times: front clones, real items, back clones.
// It returns nil for an empty input.
func Build[T any](items []T) []Slot[T] {
	n := len(items)
	if n == 0 {
		return nil
	}
	slots := make([]Slot[T], 0, 3*n)
	for copyNumber := CopyFront; copyNumber <= CopyBack; copyNumber++ {
		for i, item := range items {
			slots = append(slots, Slot[T]{
				ID:           copyNumber*n + i,
				LogicalIndex: i,
				Copy:         copyNumber,
				Item:         item,
			})
		}
	}
	return slots
}
