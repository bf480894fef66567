// Package formatter renders evaluation results for the terminal.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Formatter renders text styled for one output stream.
type Formatter struct {
	green  lipgloss.Style
	yellow lipgloss.Style
	red    lipgloss.Style
	blue   lipgloss.Style
	dim    lipgloss.Style
	header lipgloss.Style
	bold   lipgloss.Style
}

// New returns a Formatter for w. With plain set, or when w is not a color
// terminal, no escape sequences are emitted.
func New(w io.Writer, plain bool) *Formatter {
	var r *lipgloss.Renderer
	if plain {
		r = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	} else {
		r = lipgloss.NewRenderer(w)
	}
	return &Formatter{
		green:  r.NewStyle().Foreground(ColorGreen),
		yellow: r.NewStyle().Foreground(ColorYellow),
		red:    r.NewStyle().Foreground(ColorRed),
		blue:   r.NewStyle().Foreground(ColorBlue),
		dim:    r.NewStyle().Foreground(ColorDim),
		header: r.NewStyle().Foreground(ColorHeader).Bold(true),
		bold:   r.NewStyle().Foreground(ColorFg).Bold(true),
	}
}

// Header renders a section header with an underline.
func (f *Formatter) Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", f.header.Render(upper), f.dim.Render(line))
}

// Dim renders text in the muted color.
func (f *Formatter) Dim(text string) string { return f.dim.Render(text) }

// Bold renders text in bold.
func (f *Formatter) Bold(text string) string { return f.bold.Render(text) }

// Warn renders a warning line.
func (f *Formatter) Warn(text string) string { return f.yellow.Render("! " + text) }
