package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/leitbox/internal/router"
	"github.com/abhisek/leitbox/internal/screen"
	"github.com/abhisek/leitbox/internal/store"
	"github.com/abhisek/leitbox/internal/ui/layout"
	"github.com/abhisek/leitbox/internal/ui/theme"
)

// pageSize is how many sessions the screen loads.
const pageSize = 50

type historyLoadedMsg struct {
	Sessions []store.HistoryRecord
	Err      error
}

// HistoryScreen lists past learn sessions, most recent first.
type HistoryScreen struct {
	env      *screen.Env
	sessions []store.HistoryRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(env *screen.Env) *HistoryScreen {
	return &HistoryScreen{
		env:      env,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.env.History
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		sessions, err := repo.List(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.env.Log().Error("load history", "err", msg.Err)
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet.")
	}

	now := s.env.Time()
	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		line := fmt.Sprintf("%s%-14s  %-20s  ✓%d ✗%d ↷%d",
			prefix, humanize.RelTime(rec.Start, now, "ago", "from now"),
			pathLabel(rec.CategoryPath), rec.Passed+rec.Relearned, rec.Failed, rec.Skipped)
		b.WriteString(layout.Centered(style.Render(line), width))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(layout.Centered(renderDetails(rec), width))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderDetails(rec store.HistoryRecord) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	lines := []string{
		fmt.Sprintf("    Started   %s", rec.Start.Local().Format("Jan 02, 2006 15:04")),
		fmt.Sprintf("    Duration  %s", rec.Duration().Round(time.Second)),
		fmt.Sprintf("    Passed %d  Relearned %d  Failed %d  Skipped %d",
			rec.Passed, rec.Relearned, rec.Failed, rec.Skipped),
	}
	return dim.Render(strings.Join(lines, "\n"))
}

func pathLabel(p string) string {
	if p == "" {
		return "(all)"
	}
	return p
}
