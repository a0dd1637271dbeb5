package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
}

const (
	minBarWidth         = 10
	barFull             = '█'
	barSeparator        = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var barPartials = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

var colorPalette = []string{
	"\x1b[36m",
	"\x1b[35m",
	"\x1b[33m",
	"\x1b[32m",
	"\x1b[34m",
}

// RenderBars renders a horizontal bar chart scaled to the largest value.
// totalWidth <= 0 sizes the chart to the terminal.
func RenderBars(w io.Writer, title string, bars []Bar, totalWidth int, forceColor bool) error {
	if len(bars) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	labelWidth := 0
	valueWidth := 0
	maxVal := 0.0
	for _, b := range bars {
		labelWidth = max(labelWidth, runewidth.StringWidth(b.Label))
		valueWidth = max(valueWidth, len(formatBarValue(b.Value)))
		maxVal = math.Max(maxVal, b.Value)
	}
	width := BarWidthFor(totalWidth, labelWidth, valueWidth)
	useColor := shouldUseColor(w, forceColor)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, b := range bars {
		bar := renderBar(b.Value, maxVal, width)
		if useColor {
			bar = colorPalette[i%len(colorPalette)] + bar + colorReset
		}
		label := runewidth.FillRight(b.Label, labelWidth)
		if _, err := fmt.Fprintf(w, "%s%s%s %s\n", label, barSeparator, bar, formatBarValue(b.Value)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// BarWidthFor computes the bar area that fits next to labels and values.
func BarWidthFor(totalWidth, labelWidth, valueWidth int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	width := totalWidth - labelWidth - runewidth.StringWidth(barSeparator) - valueWidth - 1
	return max(width, minBarWidth)
}

func renderBar(value, maxVal float64, width int) string {
	if maxVal <= 0 || value <= 0 || width <= 0 {
		return strings.Repeat(" ", width)
	}
	eighths := int(math.Round(value / maxVal * float64(width*8)))
	eighths = min(eighths, width*8)
	full := eighths / 8
	rest := eighths % 8
	var b strings.Builder
	b.WriteString(strings.Repeat(string(barFull), full))
	cells := full
	if rest > 0 {
		b.WriteRune(barPartials[rest])
		cells++
	}
	b.WriteString(strings.Repeat(" ", width-cells))
	return b.String()
}

func formatBarValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
