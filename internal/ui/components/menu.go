package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/leitbox/internal/ui/theme"
)

// MenuItem is a single row of a Menu.
type MenuItem struct {
	Label    string
	Detail   string // right-aligned, e.g. card counts
	Indent   int
	Disabled bool
}

// Menu is a vertical list with a movable selection.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.next(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// SetItems replaces the rows and keeps the selection in range.
func (m *Menu) SetItems(items []MenuItem) {
	m.Items = items
	if m.Selected >= len(items) {
		m.Selected = len(items) - 1
	}
	if m.Selected < 0 || (m.Selected < len(items) && items[m.Selected].Disabled) {
		m.Selected = max(m.next(-1, 1), 0)
	}
}

// next returns the first enabled index after from in direction dir, or -1.
func (m Menu) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if i := m.next(m.Selected, -1); i >= 0 {
			m.Selected = i
		}
	case "down", "j":
		if i := m.next(m.Selected, 1); i >= 0 {
			m.Selected = i
		}
	case "home", "g":
		if i := m.next(-1, 1); i >= 0 {
			m.Selected = i
		}
	case "end", "G":
		if i := m.next(len(m.Items), -1); i >= 0 {
			m.Selected = i
		}
	}

	return m, nil
}

// View renders the menu at the given width.
func (m Menu) View(width int) string {
	lines := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case item.Disabled:
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		label := prefix + strings.Repeat("  ", item.Indent) + item.Label
		detail := lipgloss.NewStyle().Foreground(theme.TextDim).Render(item.Detail)
		gap := max(width-lipgloss.Width(label)-lipgloss.Width(detail), 1)
		lines = append(lines, style.Render(label)+strings.Repeat(" ", gap)+detail)
	}
	return strings.Join(lines, "\n")
}
