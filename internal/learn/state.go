package learn

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/leitbox/internal/deck"
)

// State is the lifecycle phase of a session.
type State int

const (
	StateCreated  State = iota // built, not started
	StateLearning              // presenting cards
	StateEnded                 // finished, terminal
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLearning:
		return "learning"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Mode selects which cards of the category a session learns when no explicit
// card subset is given.
type Mode int

const (
	ModeAll        Mode = iota // unlearned and expired cards
	ModeUnlearned              // level 0 only
	ModeExpired                // due learned cards only
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeUnlearned:
		return "unlearned"
	case ModeExpired:
		return "expired"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses the String form of a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ModeAll, nil
	case "unlearned", "new":
		return ModeUnlearned, nil
	case "expired", "due":
		return ModeExpired, nil
	default:
		return 0, fmt.Errorf("learn: unknown mode %q", s)
	}
}

// bag is an insertion-ordered set of cards.
type bag struct {
	cards []*deck.Card
}

func (b *bag) add(c *deck.Card) {
	if !b.has(c) {
		b.cards = append(b.cards, c)
	}
}

func (b *bag) remove(c *deck.Card) bool {
	i := slices.Index(b.cards, c)
	if i < 0 {
		return false
	}
	b.cards = slices.Delete(b.cards, i, i+1)
	return true
}

func (b *bag) has(c *deck.Card) bool {
	return slices.Contains(b.cards, c)
}

func (b *bag) len() int {
	return len(b.cards)
}

func (b *bag) list() []*deck.Card {
	return slices.Clone(b.cards)
}
