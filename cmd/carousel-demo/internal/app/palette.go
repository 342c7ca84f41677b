package app

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"golang.org/x/image/colornames"
)

var (
	colorForeground = lipgloss.Color("#a9b1d6")
	colorMuted      = lipgloss.Color("#565f89")
	colorBorder     = lipgloss.Color("#292e42")
	colorFocus      = lipgloss.Color("#7aa2f7")
)

// textOn picks black or white text for a card background.
func textOn(bg color.RGBA) color.Color {
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma > 150 {
		return colornames.Black
	}
	return colornames.White
}
