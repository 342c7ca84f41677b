package carousel

import "math"

// DefaultSpacing is the gap between cards when Config.Spacing is zero.
const DefaultSpacing = 16.0

// Size is a measured card size.
type Size struct {
	Width  float64
	Height float64
}

// Geometry caches the measured card size and the container width.
//
// The card size is captured from the first measurement with a positive
// width and then frozen: the carousel assumes uniform cards. The container
// width is overwritten on every report since the container may resize.
type Geometry struct {
	card           Size
	captured       bool
	containerWidth float64
	spacing        float64
	everReady      bool
}

// NewGeometry returns an empty cache using the given spacing.
// Negative or NaN spacing is treated as zero.
func NewGeometry(spacing float64) *Geometry {
	return &Geometry{spacing: nonNegative(spacing)}
}

// RecordMeasurement captures the card size if none has been captured yet.
// It reports whether this call made the geometry ready for the first time.
func (g *Geometry) RecordMeasurement(size Size) bool {
	if g.captured {
		return false
	}
	width := nonNegative(size.Width)
	if width == 0 {
		return false
	}
	g.card = Size{Width: width, Height: nonNegative(size.Height)}
	g.captured = true
	return g.markReady()
}

// RecordContainerWidth stores the latest container width. It reports
// whether this call made the geometry ready for the first time.
func (g *Geometry) RecordContainerWidth(width float64) bool {
	g.containerWidth = nonNegative(width)
	return g.markReady()
}

func (g *Geometry) markReady() bool {
	if g.everReady || !g.IsReady() {
		return false
	}
	g.everReady = true
	return true
}

// IsReady reports whether both the card width and container width are known.
func (g *Geometry) IsReady() bool {
	return g.card.Width > 0 && g.containerWidth > 0
}

// StepWidth is the scroll distance of one page: card width plus spacing.
// It is zero until a card has been measured.
func (g *Geometry) StepWidth() float64 {
	if g.card.Width <= 0 {
		return 0
	}
	return g.card.Width + g.spacing
}

// HorizontalInset is the leading and trailing content padding that centers
// the first and last card in the viewport. It is zero until ready.
func (g *Geometry) HorizontalInset() float64 {
	if !g.IsReady() {
		return 0
	}
	return (g.containerWidth - g.card.Width) / 2
}

// CardSize returns the frozen card size.
func (g *Geometry) CardSize() Size { return g.card }

// ContainerWidth returns the last reported container width.
func (g *Geometry) ContainerWidth() float64 { return g.containerWidth }

// Spacing returns the gap between cards.
func (g *Geometry) Spacing() float64 { return g.spacing }

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return 0
	}
	return v
}
