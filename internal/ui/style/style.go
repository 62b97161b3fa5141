// Package style holds the colors and glyphs shared by the log handler and the renderer.
package style

import "github.com/charmbracelet/lipgloss"

// Log level colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Glyphs prefixed to outcomes and log lines.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
)
