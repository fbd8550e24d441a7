package deck

import "slices"

// EventKind identifies what changed in a category tree.
type EventKind int

const (
	// Added fires when a card joins a category.
	Added EventKind = iota
	// Removed fires when a card leaves a category, including when its
	// category is detached from the tree.
	Removed
	// Moved fires once per affected ancestor when a card changes category.
	Moved
	// DeckChanged fires when a card changes level inside its category.
	DeckChanged
	// Edited fires when a side of a card changes.
	Edited
)

var eventKindNames = [...]string{
	Added:       "added",
	Removed:     "removed",
	Moved:       "moved",
	DeckChanged: "deck_changed",
	Edited:      "edited",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event describes a change. Category is the category the change happened in;
// From is the source category of a move. OldLevel and Level are the card's
// level before and after the change.
type Event struct {
	Kind     EventKind
	Card     *Card
	Category *Category
	From     *Category
	OldLevel int
	Level    int
}

// Listener receives category events.
type Listener func(Event)

type listenerEntry struct {
	fn Listener
}

// Subscribe registers l for events happening in c or any of its descendants.
func (c *Category) Subscribe(l Listener) (unsubscribe func()) {
	e := &listenerEntry{fn: l}
	c.listeners = append(c.listeners, e)
	return func() {
		if i := slices.Index(c.listeners, e); i >= 0 {
			c.listeners = slices.Delete(c.listeners, i, i+1)
		}
	}
}

// publish delivers ev to c and every ancestor up to the root.
func (c *Category) publish(ev Event) {
	for n := c; n != nil; n = n.parent {
		n.deliver(ev)
	}
}

// publishMove delivers ev once to every ancestor of both src and dst.
func publishMove(src, dst *Category, ev Event) {
	seen := make(map[*Category]bool)
	for _, start := range []*Category{src, dst} {
		for n := start; n != nil; n = n.parent {
			if seen[n] {
				continue
			}
			seen[n] = true
			n.deliver(ev)
		}
	}
}

func (c *Category) deliver(ev Event) {
	for _, e := range slices.Clone(c.listeners) {
		e.fn(ev)
	}
}
