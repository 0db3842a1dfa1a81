// Package style holds the shared color palette and icons used by the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Ember = lipgloss.Color("#F97316")
	Ash   = lipgloss.Color("#6B7280")
	Char  = lipgloss.Color("#111827")
	Smoke = lipgloss.Color("#F3F4F6")
	Moss  = lipgloss.Color("#22A06B")
	Flame = lipgloss.Color("#D93025")
	Amber = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)
