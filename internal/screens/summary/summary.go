package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/leitbox/internal/learn"
	"github.com/abhisek/leitbox/internal/router"
	"github.com/abhisek/leitbox/internal/screen"
	"github.com/abhisek/leitbox/internal/ui/layout"
	"github.com/abhisek/leitbox/internal/ui/theme"
)

// SummaryScreen displays the outcome of a finished learn session.
type SummaryScreen struct {
	summary learn.Summary
	saveErr error
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. saveErr is the result of persisting the
// category tree after the session, shown as a warning when set.
func New(summary learn.Summary, saveErr error) *SummaryScreen {
	return &SummaryScreen{summary: summary, saveErr: saveErr}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, router.PopToRoot
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString("\n")

	if sum.Total == 0 {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
			"Nothing to learn here right now."))
		if sum.CategoryPath != "" {
			b.WriteString("\n")
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), sum.CategoryPath))
		}
		return b.String()
	}

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Session complete!"))
	b.WriteString("\n\n")

	duration := humanize.RelTime(sum.Start, sum.End, "", "")
	if sum.Duration() < time.Second {
		duration = "under a second"
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Duration: %s   Checks: %d", strings.TrimSpace(duration), sum.Checks)))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 48)))
	b.WriteString(layout.Centered(divider, width))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		n     int
		style lipgloss.Style
	}{
		{"Passed", sum.Passed, theme.Correct},
		{"Relearned", sum.Relearned, lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)},
		{"Failed", sum.Failed, theme.Incorrect},
		{"Skipped", sum.Skipped, lipgloss.NewStyle().Foreground(theme.Accent)},
		{"Not reached", sum.Left, lipgloss.NewStyle().Foreground(theme.TextDim)},
	}
	for _, r := range rows {
		line := fmt.Sprintf("%-12s %4d", r.label, r.n)
		b.WriteString(layout.Centered(r.style.Render(line), width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text),
		fmt.Sprintf("Accuracy: %.0f%% of %d cards", sum.Accuracy()*100, sum.Total)))

	if s.saveErr != nil {
		b.WriteString("\n\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error),
			"Progress could not be saved: "+s.saveErr.Error()))
	}

	return b.String()
}
