package formatter

import (
	"fmt"
	"math"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// Progress renders a progress bar like [████░░░░]  45%.
// The bar is colored by completion: green from 66%, yellow from 33%, red below.
func (f *Formatter) Progress(pct float64, width int) string {
	pct = clampUnit(pct)
	if width < 2 {
		width = 2
	}

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := f.green
	if pct < 0.33 {
		style = f.red
	} else if pct < 0.66 {
		style = f.yellow
	}

	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), int(pct*100))
}

// Spark renders a bar of value relative to peak, at most width cells wide.
func (f *Formatter) Spark(value, peak, width int) string {
	if peak <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	n := max(value*width/peak, 1)
	return f.blue.Render(strings.Repeat(filledBlock, n))
}

func clampUnit(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
