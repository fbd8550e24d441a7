// Package learn is the screen that runs a learn session: it shows the tested
// side of the current card, reveals the other one and grades the answer.
package learn

import (
	"context"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/leitbox/internal/deck"
	leitner "github.com/abhisek/leitbox/internal/learn"
	"github.com/abhisek/leitbox/internal/router"
	"github.com/abhisek/leitbox/internal/screen"
	"github.com/abhisek/leitbox/internal/screens/summary"
	"github.com/abhisek/leitbox/internal/ui/layout"
)

// LearnScreen implements screen.Screen for an active learn session.
type LearnScreen struct {
	env         *screen.Env
	session     *leitner.Session
	revealed    bool
	confirmQuit bool
	finished    bool
	lastTick    time.Time
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)
var _ screen.Closer = (*LearnScreen)(nil)

// New creates a screen learning the cards of category picked by mode.
func New(env *screen.Env, category *deck.Category, mode leitner.Mode) *LearnScreen {
	return &LearnScreen{
		env: env,
		session: leitner.New(leitner.Config{
			Category: category,
			Settings: env.Settings,
			Mode:     mode,
			Now:      env.Time,
			History:  env.History,
			Logger:   env.Log(),
		}),
	}
}

// Session returns the running session.
func (s *LearnScreen) Session() *leitner.Session {
	return s.session
}

func (s *LearnScreen) Init() tea.Cmd {
	s.session.Start()
	s.lastTick = s.env.Time()
	if s.session.IsQuit() {
		return s.finish()
	}
	return tickCmd()
}

func (s *LearnScreen) Title() string {
	if p := s.session.Category().Path(); p != "" {
		return "Learn " + p
	}
	return "Learn"
}

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return hints(keys.Yes, keys.No)
	case s.revealed:
		return hints(keys.Pass, keys.Fail, keys.Skip, keys.Quit)
	default:
		return hints(keys.Reveal, keys.Skip, keys.Quit)
	}
}

func hints(bindings ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return out
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.finished {
		return s, nil
	}
	switch msg := msg.(type) {
	case tickMsg:
		s.lastTick = time.Time(msg)
		if s.session.OnTimer(s.lastTick) {
			return s, s.finish()
		}
		return s, tickCmd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LearnScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.confirmQuit {
		switch {
		case key.Matches(msg, keys.Yes):
			return s, s.finish()
		case key.Matches(msg, keys.No):
			s.confirmQuit = false
		}
		return s, nil
	}

	if key.Matches(msg, keys.Quit) {
		if !s.session.Relevant() {
			return s, s.finish()
		}
		s.confirmQuit = true
		return s, nil
	}
	if key.Matches(msg, keys.Skip) {
		s.session.Skip()
		return s, s.advance()
	}

	if !s.revealed {
		if key.Matches(msg, keys.Reveal) {
			s.revealed = true
		}
		return s, nil
	}

	switch {
	case key.Matches(msg, keys.Pass):
		s.session.Check(true, s.flipped())
		return s, s.advance()
	case key.Matches(msg, keys.Fail):
		s.session.Check(false, s.flipped())
		return s, s.advance()
	}
	return s, nil
}

// flipped reports that the back side is the one being tested.
func (s *LearnScreen) flipped() bool {
	return s.session.CurrentSide() == deck.FaceBack
}

func (s *LearnScreen) advance() tea.Cmd {
	s.revealed = false
	if s.session.IsQuit() {
		return s.finish()
	}
	return nil
}

// finish ends the session, saves the tree and shows the summary in place of
// this screen.
func (s *LearnScreen) finish() tea.Cmd {
	if s.finished {
		return nil
	}
	s.finished = true
	s.session.End()
	err := s.env.Save(context.Background())
	return router.Replace(summary.New(s.session.Summary(), err))
}

// Close ends the session and saves progress when the program exits.
func (s *LearnScreen) Close() {
	s.finish()
}

func (s *LearnScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	return s.renderCard(width, height)
}
