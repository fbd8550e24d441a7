package learn

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/ui/components"
	"github.com/abhisek/leitbox/internal/ui/layout"
	"github.com/abhisek/leitbox/internal/ui/theme"
)

// renderCard renders the info line, the progress bar and the current card.
func (s *LearnScreen) renderCard(width, height int) string {
	card := s.session.Current()
	if card == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Wrapping up...")
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	sum := s.session.Summary()
	done := sum.Passed + sum.Failed + sum.Relearned
	pct := 0.0
	if sum.Total > 0 {
		pct = float64(done) / float64(sum.Total)
	}
	cw := components.ContentWidth(width)
	b.WriteString(layout.Centered(components.NewProgressBar("", pct, true, cw).View(), width))
	b.WriteString("\n\n")

	tested := s.session.CurrentSide()
	other := deck.FaceBack
	if tested == deck.FaceBack {
		other = deck.FaceFront
	}

	badge := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.LevelColor(card.Level())).
		Padding(0, 1).
		Render(fmt.Sprintf("Level %d · %s", card.Level(), tested))

	content := badge + "\n\n" + renderSide(card.Side(tested), cw-6)
	if s.revealed {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("╌", max(cw-6, 1)))
		content += "\n\n" + divider + "\n\n" + renderSide(card.Side(other), cw-6)
	} else {
		content += "\n\n" + theme.Hint.Render("Space to reveal")
	}

	b.WriteString(layout.Centered(components.Panel(content, cw, theme.LevelColor(card.Level())), width))
	return b.String()
}

func (s *LearnScreen) renderInfoLine(width int) string {
	sum := s.session.Summary()

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %d left", sum.Left))

	parts := []string{
		lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("✓ %d", sum.Passed+sum.Relearned)),
		lipgloss.NewStyle().Foreground(theme.Error).Render(fmt.Sprintf("✗ %d", sum.Failed)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("↷ %d", sum.Skipped)),
	}
	if rem := s.session.Remaining(s.lastTick); rem >= 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Render(formatClock(rem)))
	}
	infoRight := strings.Join(parts, "  ")

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	return infoLine
}

func renderSide(side *deck.Side, width int) string {
	text := lipgloss.NewStyle().
		Width(max(width, 10)).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(side.Text())
	for _, img := range side.Images() {
		text += "\n" + theme.Hint.Render("[image] "+img)
	}
	return text
}

func formatClock(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	line := func(s string, c color.Color, bold bool) string {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(c).
			Bold(bold).
			Render(s)
	}

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(line("End session early?", theme.Text, true))
	b.WriteString("\n")
	b.WriteString(line("Answered cards keep their new level.", theme.TextDim, false))
	b.WriteString("\n\n")
	b.WriteString(line("[Y] Yes, end session", theme.Success, false))
	b.WriteString("\n")
	b.WriteString(line("[N] No, keep going", theme.Primary, false))
	return b.String()
}
