package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#F1F5F9") // Off-white
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// levelColors runs from fresh (red) to well known (green).
var levelColors = []color.Color{
	lipgloss.Color("#EF4444"),
	lipgloss.Color("#F97316"),
	lipgloss.Color("#F59E0B"),
	lipgloss.Color("#EAB308"),
	lipgloss.Color("#84CC16"),
	lipgloss.Color("#22C55E"),
	lipgloss.Color("#10B981"),
}

// LevelColor returns the color of a Leitner level. Levels past the palette
// share its last color.
func LevelColor(level int) color.Color {
	if level < 0 {
		level = 0
	}
	if level >= len(levelColors) {
		level = len(levelColors) - 1
	}
	return levelColors[level]
}

// Hint styles secondary instructions such as "Space to reveal".
var Hint = lipgloss.NewStyle().
	Foreground(TextDim).
	Italic(true)

// Answer outcomes
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)
