package addcard

import (
	"context"
	"errors"
	"io"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/router"
	"github.com/abhisek/leitbox/internal/screen"
)

type mockRepo struct {
	saves int
	err   error
}

func (m *mockRepo) Save(context.Context, *deck.Category) error { m.saves++; return m.err }
func (m *mockRepo) Load(context.Context) (*deck.Category, error) {
	return deck.NewCategory(""), nil
}

func newScreen(t *testing.T, path string) (*AddCardScreen, *screen.Env, *mockRepo) {
	t.Helper()
	repo := &mockRepo{}
	root := deck.NewCategory("")
	var cat *deck.Category
	if path != "" {
		cat = root.Ensure(path)
	}
	env := &screen.Env{Root: root, Repo: repo, Logger: log.New(io.Discard)}
	s := New(env, cat)
	s.Init()
	return s, env, repo
}

func typeText(s *AddCardScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func special(s *AddCardScreen, code rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestAddCard_Submit(t *testing.T) {
	s, env, repo := newScreen(t, "german")

	typeText(s, "der Hund")
	special(s, tea.KeyEnter)
	assert.Equal(t, fieldBack, s.focus)
	typeText(s, "dog")
	special(s, tea.KeyEnter)

	cards := env.Root.Find("german").UnlearnedCards()
	require.Len(t, cards, 1)
	assert.Equal(t, "der Hund", cards[0].Front.Text())
	assert.Equal(t, "dog", cards[0].Back.Text())
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, 1, s.Added())

	assert.Equal(t, fieldFront, s.focus)
	assert.Empty(t, s.inputs[fieldFront].Value())
	assert.Empty(t, s.inputs[fieldBack].Value())
	assert.Equal(t, "german", s.inputs[fieldCategory].Value(), "category is kept")
	assert.Contains(t, s.View(80, 24), "Added to german")
}

func TestAddCard_NewCategory(t *testing.T) {
	s, env, _ := newScreen(t, "")
	s.inputs[fieldCategory].Model.SetValue("spanish/animals")

	typeText(s, "el gato")
	special(s, tea.KeyTab)
	typeText(s, "cat")
	special(s, tea.KeyEnter)

	cat := env.Root.Find("spanish/animals")
	require.NotNil(t, cat)
	assert.Equal(t, 1, cat.Len())
}

func TestAddCard_TopLevel(t *testing.T) {
	s, env, _ := newScreen(t, "")
	typeText(s, "q")
	special(s, tea.KeyTab)
	typeText(s, "a")
	special(s, tea.KeyEnter)

	assert.Len(t, env.Root.LocalCards(0), 1)
	assert.Contains(t, s.View(80, 24), "Added to the top level")
}

func TestAddCard_Validation(t *testing.T) {
	s, env, repo := newScreen(t, "german")

	special(s, tea.KeyEnter)
	special(s, tea.KeyEnter)
	assert.Equal(t, "front is required", s.inputs[fieldFront].Err())
	assert.Equal(t, fieldFront, s.focus)

	typeText(s, "hallo")
	assert.Empty(t, s.inputs[fieldFront].Err(), "editing clears the error")
	special(s, tea.KeyTab)
	special(s, tea.KeyEnter)
	assert.Equal(t, "back is required", s.inputs[fieldBack].Err())

	assert.Zero(t, env.Root.Len())
	assert.Zero(t, repo.saves)
	assert.Zero(t, s.Added())
}

func TestAddCard_SaveError(t *testing.T) {
	s, env, repo := newScreen(t, "")
	repo.err = errors.New("disk full")

	typeText(s, "q")
	special(s, tea.KeyTab)
	typeText(s, "a")
	special(s, tea.KeyEnter)

	assert.Equal(t, 1, env.Root.Len(), "card stays in the tree")
	assert.Contains(t, s.View(80, 24), "saving failed: disk full")
}

func TestAddCard_FocusCycle(t *testing.T) {
	s, _, _ := newScreen(t, "")
	require.Equal(t, fieldFront, s.focus)

	special(s, tea.KeyTab)
	assert.Equal(t, fieldBack, s.focus)
	special(s, tea.KeyTab)
	assert.Equal(t, fieldCategory, s.focus)
	assert.True(t, s.inputs[fieldCategory].Focused())
	assert.False(t, s.inputs[fieldBack].Focused())

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, fieldBack, s.focus)
	special(s, tea.KeyUp)
	assert.Equal(t, fieldFront, s.focus)
}

func TestAddCard_Esc(t *testing.T) {
	s, _, _ := newScreen(t, "")
	cmd := special(s, tea.KeyEscape)
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}
