package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/learn"
	"github.com/abhisek/leitbox/internal/router"
	"github.com/abhisek/leitbox/internal/screen"
	"github.com/abhisek/leitbox/internal/screens/home"
	learnscreen "github.com/abhisek/leitbox/internal/screens/learn"
	"github.com/abhisek/leitbox/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Env *screen.Env

	// Learn, when set, opens a learn session on this category on top of the
	// home screen.
	Learn *deck.Category
	Mode  learn.Mode
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	start  tea.Cmd
	width  int
	height int
}

// newAppModel creates an AppModel with the home screen at the bottom.
func newAppModel(opts Options) AppModel {
	m := AppModel{
		env:    opts.Env,
		router: router.New(home.New(opts.Env)),
	}
	if opts.Learn != nil {
		m.start = m.router.Push(learnscreen.New(opts.Env, opts.Learn, opts.Mode))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.start
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.closeActive()
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// closeActive lets the active screen flush its state before the program
// exits.
func (m AppModel) closeActive() {
	if c, ok := m.router.Active().(screen.Closer); ok {
		c.Close()
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render lays out the header, the active screen and the footer for the
// current window size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	root := m.env.Root
	header := layout.RenderHeader(title, len(root.ExpiredCards(m.env.Time())), root.Len(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
