package home

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/ui/components"
	"github.com/abhisek/leitbox/internal/ui/theme"
)

const titleFull = `╦  ╔═╗╦╔╦╗╔╗ ╔═╗═╗ ╦
║  ║╣ ║ ║ ╠╩╗║ ║╔╩╦╝
╩═╝╚═╝╩ ╩ ╚═╝╚═╝╩ ╚═`

const titleCompact = "L · E · I · T · B · O · X"

// renderTitle returns the styled title block or its compact fallback.
func renderTitle(cw int, compact bool) string {
	text := titleFull
	if compact {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(text))
}

// renderStatsBar shows the counts of the selected category in a bordered box.
func renderStatsBar(c *deck.Category, now time.Time, cw int) string {
	total := c.Len()
	unlearned := len(c.UnlearnedCards())
	due := len(c.ExpiredCards(now))

	dueStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if due > 0 {
		dueStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	}

	stats := fmt.Sprintf("%s  %s  %s",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(fmt.Sprintf("%d CARDS", total)),
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("%d NEW", unlearned)),
		dueStyle.Render(fmt.Sprintf("%d DUE", due)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderLevels draws the per-level card distribution.
func renderLevels(counts []int, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Render(components.LevelBars(counts, cw))
}

// renderCategoryMenu renders the category rows in a box matching content
// width.
func renderCategoryMenu(m components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(m.View(cw - 6))
}
