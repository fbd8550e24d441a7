package deck

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// PathSeparator separates category names in a path.
const PathSeparator = "/"

// ErrInvalidName is returned by ValidName for names that cannot be a path
// element.
var ErrInvalidName = errors.New("deck: invalid category name")

// ValidName checks that name is non-empty and free of PathSeparator.
func ValidName(name string) error {
	if strings.TrimSpace(name) == "" || strings.Contains(name, PathSeparator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Category is a node of the category tree. It owns its children and the cards
// filed in its decks; decks[L] holds the local cards at level L.
//
// A category always has at least one deck. Its deck count never drops below
// that of any child, grows when a card reaches a new level, and shrinks again
// when trailing decks become empty.
type Category struct {
	name      string
	parent    *Category
	children  []*Category
	decks     [][]*Card
	listeners []*listenerEntry
}

// NewCategory creates a detached, empty category.
func NewCategory(name string) *Category {
	return &Category{name: name, decks: make([][]*Card, 1)}
}

func (c *Category) Name() string          { return c.name }
func (c *Category) Parent() *Category     { return c.parent }
func (c *Category) Children() []*Category { return slices.Clone(c.children) }

// Root returns the topmost ancestor.
func (c *Category) Root() *Category {
	n := c
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Path returns the names from below the root down to c, joined by
// PathSeparator. The root's path is empty.
func (c *Category) Path() string {
	var names []string
	for n := c; n.parent != nil; n = n.parent {
		names = append(names, n.name)
	}
	slices.Reverse(names)
	return strings.Join(names, PathSeparator)
}

// Child returns the direct child named name, or nil.
func (c *Category) Child(name string) *Category {
	for _, ch := range c.children {
		if ch.name == name {
			return ch
		}
	}
	return nil
}

// Find resolves a PathSeparator-separated path relative to c. An empty path
// resolves to c.
func (c *Category) Find(path string) *Category {
	n := c
	for _, name := range splitPath(path) {
		if n = n.Child(name); n == nil {
			return nil
		}
	}
	return n
}

// Ensure resolves path like Find, creating missing categories on the way.
func (c *Category) Ensure(path string) *Category {
	n := c
	for _, name := range splitPath(path) {
		ch := n.Child(name)
		if ch == nil {
			ch = n.AddChild(name)
		}
		n = ch
	}
	return n
}

func splitPath(path string) []string {
	var out []string
	for _, p := range strings.Split(path, PathSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AddChild creates a child category named name and returns it.
func (c *Category) AddChild(name string) *Category {
	ch := NewCategory(name)
	c.AttachChild(ch)
	return ch
}

// AttachChild makes the detached category ch a child of c. Children stay in
// natural name order.
func (c *Category) AttachChild(ch *Category) {
	if ch.parent != nil {
		panic(fmt.Sprintf("deck: category %q already has a parent", ch.name))
	}
	for n := c; n != nil; n = n.parent {
		if n == ch {
			panic(fmt.Sprintf("deck: attaching %q would create a cycle", ch.name))
		}
	}
	i, _ := slices.BinarySearchFunc(c.children, ch, func(a, b *Category) int {
		return compareNatural(a.name, b.name)
	})
	c.children = slices.Insert(c.children, i, ch)
	ch.parent = c
	c.fitDecks()
	for _, card := range ch.Cards() {
		c.publish(Event{Kind: Added, Card: card, Category: card.owner, OldLevel: card.level, Level: card.level})
	}
}

// RemoveChild detaches ch from c. Subscribers of c and its ancestors receive
// a Removed event for every card of the detached subtree.
func (c *Category) RemoveChild(ch *Category) {
	i := slices.Index(c.children, ch)
	if i < 0 {
		panic(fmt.Sprintf("deck: %q is not a child of %q", ch.name, c.name))
	}
	c.children = slices.Delete(c.children, i, i+1)
	ch.parent = nil
	c.fitDecks()
	for _, card := range ch.Cards() {
		c.publish(Event{Kind: Removed, Card: card, Category: card.owner, OldLevel: card.level, Level: card.level})
	}
}

// Rename changes the name and restores natural order among the siblings. It
// panics if name fails ValidName.
func (c *Category) Rename(name string) {
	if err := ValidName(name); err != nil {
		panic(err.Error())
	}
	c.name = name
	if p := c.parent; p != nil {
		slices.SortStableFunc(p.children, func(a, b *Category) int {
			return compareNatural(a.name, b.name)
		})
	}
}

// AddCard files an unowned card at level 0.
func (c *Category) AddCard(card *Card) {
	c.AddCardAt(card, 0)
}

// AddCardAt files an unowned card at level. A card placed above level 0 must
// already carry an expiration date; a card placed at level 0 loses it.
func (c *Category) AddCardAt(card *Card, level int) {
	if card.owner != nil {
		panic(fmt.Sprintf("deck: card already belongs to %q", card.owner.name))
	}
	if level < 0 {
		panic(fmt.Sprintf("deck: negative level %d", level))
	}
	if level > 0 && card.expired.IsZero() {
		panic(fmt.Sprintf("deck: card added at level %d without expiration", level))
	}
	if level == 0 {
		card.expired = time.Time{}
	}
	card.level = level
	card.owner = c
	card.touch()
	c.file(card)
	c.fitDecks()
	c.publish(Event{Kind: Added, Card: card, Category: c, OldLevel: level, Level: level})
}

// RemoveCard takes card out of c. The card becomes unowned.
func (c *Category) RemoveCard(card *Card) {
	c.mustOwn(card)
	c.unfile(card)
	card.owner = nil
	c.fitDecks()
	c.publish(Event{Kind: Removed, Card: card, Category: c, OldLevel: card.level, Level: card.level})
}

// MoveCard transfers card to dst, keeping its level. A single Moved event
// reaches every ancestor of c and dst.
func (c *Category) MoveCard(card *Card, dst *Category) {
	c.mustOwn(card)
	if dst == c {
		return
	}
	c.unfile(card)
	card.owner = dst
	card.touch()
	dst.file(card)
	c.fitDecks()
	dst.fitDecks()
	publishMove(c, dst, Event{Kind: Moved, Card: card, Category: dst, From: c, OldLevel: card.level, Level: card.level})
}

// RaiseLevel promotes card one level after a passed test at testDate and sets
// its next expiration.
func (c *Category) RaiseLevel(card *Card, testDate, expiration time.Time) {
	c.mustOwn(card)
	if expiration.IsZero() {
		panic("deck: raising level without expiration")
	}
	card.expired = expiration
	card.testsPassed++
	c.setLevel(card, card.level+1, testDate)
}

// ResetLevel demotes card to level 0 after a failed test at testDate.
func (c *Category) ResetLevel(card *Card, testDate time.Time) {
	c.mustOwn(card)
	card.expired = time.Time{}
	c.setLevel(card, 0, testDate)
}

// ResetCard returns card to level 0 and forgets all of its test history.
func (c *Category) ResetCard(card *Card) {
	c.mustOwn(card)
	old := card.level
	c.unfile(card)
	card.level = 0
	card.expired = time.Time{}
	card.tested = time.Time{}
	card.testsTotal = 0
	card.testsPassed = 0
	card.clearLearned()
	card.touch()
	c.file(card)
	c.fitDecks()
	c.publish(Event{Kind: DeckChanged, Card: card, Category: c, OldLevel: old, Level: 0})
}

// Reappend moves card to the end of its deck.
func (c *Category) Reappend(card *Card) {
	c.mustOwn(card)
	c.unfile(card)
	card.touch()
	c.file(card)
}

func (c *Category) setLevel(card *Card, level int, testDate time.Time) {
	old := card.level
	c.unfile(card)
	card.level = level
	card.tested = testDate
	card.testsTotal++
	card.clearLearned()
	card.touch()
	c.file(card)
	c.fitDecks()
	c.publish(Event{Kind: DeckChanged, Card: card, Category: c, OldLevel: old, Level: level})
}

func (c *Category) mustOwn(card *Card) {
	if card.owner != c {
		panic(fmt.Sprintf("deck: card is not owned by %q", c.name))
	}
}

// file appends card to the deck of its level, growing the decks as needed.
func (c *Category) file(card *Card) {
	for len(c.decks) <= card.level {
		c.decks = append(c.decks, nil)
	}
	c.decks[card.level] = append(c.decks[card.level], card)
}

func (c *Category) unfile(card *Card) {
	d := c.decks[card.level]
	i := slices.Index(d, card)
	if i < 0 {
		panic("deck: card missing from its deck")
	}
	c.decks[card.level] = slices.Delete(d, i, i+1)
}

// fitDecks recomputes the deck count of c and its ancestors.
func (c *Category) fitDecks() {
	for n := c; n != nil; n = n.parent {
		want := 1
		for l := len(n.decks) - 1; l >= 0; l-- {
			if len(n.decks[l]) > 0 {
				want = l + 1
				break
			}
		}
		for _, ch := range n.children {
			want = max(want, len(ch.decks))
		}
		for len(n.decks) < want {
			n.decks = append(n.decks, nil)
		}
		n.decks = n.decks[:want]
	}
}

// DeckCount returns the number of decks.
func (c *Category) DeckCount() int {
	return len(c.decks)
}

// Contains reports whether card is filed in c or a descendant.
func (c *Category) Contains(card *Card) bool {
	for n := card.owner; n != nil; n = n.parent {
		if n == c {
			return true
		}
	}
	return false
}

// Walk calls fn for c and every descendant, parents before children.
func (c *Category) Walk(fn func(*Category)) {
	fn(c)
	for _, ch := range c.children {
		ch.Walk(fn)
	}
}

// LocalCards returns a copy of c's own deck at level.
func (c *Category) LocalCards(level int) []*Card {
	if level < 0 || level >= len(c.decks) {
		return nil
	}
	return slices.Clone(c.decks[level])
}

// CardsAt returns the cards at level in c and all descendants.
func (c *Category) CardsAt(level int) []*Card {
	var out []*Card
	c.Walk(func(n *Category) {
		if level >= 0 && level < len(n.decks) {
			out = append(out, n.decks[level]...)
		}
	})
	return out
}

// Cards returns every card in c and its descendants.
func (c *Category) Cards() []*Card {
	var out []*Card
	c.Walk(func(n *Category) {
		for _, d := range n.decks {
			out = append(out, d...)
		}
	})
	return out
}

// Len returns the number of cards in c and its descendants.
func (c *Category) Len() int {
	n := 0
	c.Walk(func(x *Category) {
		for _, d := range x.decks {
			n += len(d)
		}
	})
	return n
}

// LevelCounts returns the number of cards per level across the subtree.
func (c *Category) LevelCounts() []int {
	counts := make([]int, len(c.decks))
	c.Walk(func(n *Category) {
		for l, d := range n.decks {
			counts[l] += len(d)
		}
	})
	return counts
}

// UnlearnedCards returns the level-0 cards of the subtree.
func (c *Category) UnlearnedCards() []*Card {
	return c.CardsAt(0)
}

// ExpiredCards returns the learned cards of the subtree that are due at t.
func (c *Category) ExpiredCards(t time.Time) []*Card {
	var out []*Card
	for _, card := range c.Cards() {
		if card.IsExpired(t) {
			out = append(out, card)
		}
	}
	return out
}

// LearnableCards returns the unlearned cards followed by the expired ones.
func (c *Category) LearnableCards(t time.Time) []*Card {
	return append(c.UnlearnedCards(), c.ExpiredCards(t)...)
}
