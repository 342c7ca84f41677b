package testing

// ScrollCommand is one call recorded by Viewport.
type ScrollCommand struct {
	Offset   float64
	Animated bool
}

// Viewport records scroll commands issued by a carousel so tests can assert
// on animated versus instant repositioning.
type Viewport struct {
	Commands []ScrollCommand
}

// ScrollTo records the command.
func (v *Viewport) ScrollTo(offset float64, animated bool) {
	v.Commands = append(v.Commands, ScrollCommand{Offset: offset, Animated: animated})
}

// Last returns the most recent command and whether there was one.
func (v *Viewport) Last() (ScrollCommand, bool) {
	if len(v.Commands) == 0 {
		return ScrollCommand{}, false
	}
	return v.Commands[len(v.Commands)-1], true
}

// Reset forgets recorded commands.
func (v *Viewport) Reset() {
	v.Commands = nil
}
