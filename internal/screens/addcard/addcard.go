// Package addcard is the screen for adding unlearned cards to a category.
package addcard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/router"
	"github.com/abhisek/leitbox/internal/screen"
	"github.com/abhisek/leitbox/internal/ui/components"
	"github.com/abhisek/leitbox/internal/ui/layout"
	"github.com/abhisek/leitbox/internal/ui/theme"
)

const (
	fieldCategory = iota
	fieldFront
	fieldBack
	fieldCount
)

// AddCardScreen collects a category path and the two sides of a card. It
// stays open after a card is added so several can be entered in a row.
type AddCardScreen struct {
	env    *screen.Env
	inputs [fieldCount]components.TextInput
	focus  int
	added  int
	status string
}

var _ screen.Screen = (*AddCardScreen)(nil)
var _ screen.KeyHintProvider = (*AddCardScreen)(nil)

// New creates the screen with the category path prefilled from category.
func New(env *screen.Env, category *deck.Category) *AddCardScreen {
	s := &AddCardScreen{env: env, focus: fieldFront}
	s.inputs[fieldCategory] = components.NewTextInput("Category", "e.g. german/verbs", 0)
	s.inputs[fieldFront] = components.NewTextInput("Front", "question", 0)
	s.inputs[fieldBack] = components.NewTextInput("Back", "answer", 0)
	if category != nil {
		s.inputs[fieldCategory].Model.SetValue(category.Path())
	}
	return s
}

func (s *AddCardScreen) Init() tea.Cmd {
	return s.inputs[s.focus].Focus()
}

func (s *AddCardScreen) Title() string {
	return "Add Card"
}

func (s *AddCardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

// Added returns how many cards the screen has added.
func (s *AddCardScreen) Added() int {
	return s.added
}

func (s *AddCardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, router.Pop
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
		case "enter":
			if s.focus != fieldBack {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submit()
		}
		s.status = ""
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *AddCardScreen) setFocus(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = i
	return s.inputs[i].Focus()
}

// submit validates the fields, files the card and saves the tree.
func (s *AddCardScreen) submit() tea.Cmd {
	front := s.inputs[fieldFront].Value()
	back := s.inputs[fieldBack].Value()
	switch {
	case front == "":
		s.inputs[fieldFront].SetError("front is required")
		return s.setFocus(fieldFront)
	case back == "":
		s.inputs[fieldBack].SetError("back is required")
		return nil
	}

	path := s.inputs[fieldCategory].Value()
	category := s.env.Root.Ensure(path)
	card := deck.NewCard(front, back)
	category.AddCard(card)
	s.added++

	if err := s.env.Save(context.Background()); err != nil {
		s.status = "Added, but saving failed: " + err.Error()
	} else {
		s.status = fmt.Sprintf("Added to %s", pathLabel(category.Path()))
	}
	s.env.Log().Debug("card added", "category", category.Path())

	s.inputs[fieldFront].Reset()
	s.inputs[fieldBack].Reset()
	return s.setFocus(fieldFront)
}

func (s *AddCardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	parts := make([]string, 0, fieldCount+1)
	for _, in := range s.inputs {
		parts = append(parts, in.View())
	}
	form := lipgloss.NewStyle().Width(cw).Render(strings.Join(parts, "\n\n"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(form, width))
	if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Success).Render(s.status), width))
	}
	return b.String()
}

func pathLabel(p string) string {
	if p == "" {
		return "the top level"
	}
	return p
}
