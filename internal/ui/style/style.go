// Package style holds the colors and glyphs shared by the renderers and the
// logger.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Leaf   = lipgloss.Color("#3FA34D")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
)
