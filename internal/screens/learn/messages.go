package learn

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// tickMsg drives the session time limit and the countdown.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
