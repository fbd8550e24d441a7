// Package home is the start screen: the category tree with card counts and
// the entry points to learning, adding cards and history.
package home

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/leitbox/internal/deck"
	leitner "github.com/abhisek/leitbox/internal/learn"
	"github.com/abhisek/leitbox/internal/router"
	"github.com/abhisek/leitbox/internal/screen"
	"github.com/abhisek/leitbox/internal/screens/addcard"
	"github.com/abhisek/leitbox/internal/screens/history"
	learnscreen "github.com/abhisek/leitbox/internal/screens/learn"
	"github.com/abhisek/leitbox/internal/ui/components"
	"github.com/abhisek/leitbox/internal/ui/layout"
)

type keyMap struct {
	Learn     key.Binding
	Unlearned key.Binding
	Expired   key.Binding
	Add       key.Binding
	History   key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Learn:     key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "Learn")),
	Unlearned: key.NewBinding(key.WithKeys("n"), key.WithHelp("N", "New only")),
	Expired:   key.NewBinding(key.WithKeys("d"), key.WithHelp("D", "Due only")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("A", "Add card")),
	History:   key.NewBinding(key.WithKeys("h"), key.WithHelp("H", "History")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("Q", "Quit")),
}

// HomeScreen is the main screen of the application.
type HomeScreen struct {
	env        *screen.Env
	categories []*deck.Category
	menu       components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a HomeScreen over env.Root.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	h.refresh()
	return h
}

// refresh rebuilds the category rows from the tree.
func (h *HomeScreen) refresh() {
	now := h.env.Time()
	h.categories = h.categories[:0]
	var items []components.MenuItem
	h.env.Root.Walk(func(c *deck.Category) {
		h.categories = append(h.categories, c)
		label := c.Name()
		if c.Parent() == nil {
			label = "All cards"
		}
		items = append(items, components.MenuItem{
			Label:  label,
			Indent: depth(c),
			Detail: fmt.Sprintf("%d new · %d due · %d", len(c.UnlearnedCards()), len(c.ExpiredCards(now)), c.Len()),
		})
	})
	h.menu.SetItems(items)
}

func depth(c *deck.Category) int {
	d := 0
	for p := c.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

// Selected returns the highlighted category.
func (h *HomeScreen) Selected() *deck.Category {
	if h.menu.Selected < 0 || h.menu.Selected >= len(h.categories) {
		return h.env.Root
	}
	return h.categories[h.menu.Selected]
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume refreshes the counts after a learn session or added cards.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	out := []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}}
	for _, b := range []key.Binding{keys.Learn, keys.Add, keys.History, keys.Quit} {
		out = append(out, layout.KeyHint{Key: b.Help().Key, Description: b.Help().Desc})
	}
	return out
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch {
	case key.Matches(kmsg, keys.Learn):
		return h, h.learn(leitner.ModeAll)
	case key.Matches(kmsg, keys.Unlearned):
		return h, h.learn(leitner.ModeUnlearned)
	case key.Matches(kmsg, keys.Expired):
		return h, h.learn(leitner.ModeExpired)
	case key.Matches(kmsg, keys.Add):
		return h, router.Push(addcard.New(h.env, h.Selected()))
	case key.Matches(kmsg, keys.History):
		return h, router.Push(history.New(h.env))
	case key.Matches(kmsg, keys.Quit):
		return h, tea.Quit
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) learn(mode leitner.Mode) tea.Cmd {
	return router.Push(learnscreen.New(h.env, h.Selected(), mode))
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)
	sel := h.Selected()

	sections := []string{renderTitle(cw, compact)}
	sections = append(sections, renderStatsBar(sel, h.env.Time(), cw))
	if !compact {
		sections = append(sections, renderLevels(sel.LevelCounts(), cw))
	}
	sections = append(sections, renderCategoryMenu(h.menu, cw))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
