package tui

import (
	"math"
	"strings"
)

const (
	thumbGlyph = "◆"
	thumbWidth = 1
)

// trackWidthFor is the full drawn width of the track line.
func trackWidthFor(width int) int {
	return max(width-2*margin, thumbWidth)
}

// trackLengthFor is the distance the thumb can travel: the drawn width minus
// the thumb itself.
func trackLengthFor(width int) int {
	return trackWidthFor(width) - thumbWidth
}

func renderTrack(width int, position float64, dragging bool) string {
	length := width - thumbWidth
	cell := int(math.Round(position))
	cell = min(max(cell, 0), length)
	style := thumbStyle
	if dragging {
		style = dragStyle
	}
	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("━", cell)))
	b.WriteString(style.Render(thumbGlyph))
	b.WriteString(trackStyle.Render(strings.Repeat("─", length-cell)))
	return b.String()
}
