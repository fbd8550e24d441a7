// Package deck holds the Leitner data model: cards with two sides, and a tree
// of categories that partition their cards into decks indexed by level.
package deck

import (
	"slices"
	"sync/atomic"
	"time"
)

// now is the clock used for creation and modification timestamps.
var now = time.Now

// touches is the process-wide counter behind Card.Touched.
var touches atomic.Uint64

// Card is a flash card. Its level and owning category only change through
// Category operations. A zero Tested or Expired time means "never" and
// "no expiration"; a card has an expiration exactly when its level is above 0.
type Card struct {
	// ID is the persistence identifier, zero until stored.
	ID int

	Front *Side
	Back  *Side

	level       int
	created     time.Time
	modified    time.Time
	tested      time.Time
	expired     time.Time
	touched     uint64
	testsTotal  int
	testsPassed int
	learned     [2]int // per-face learned amounts, indexed by Face

	owner *Category
}

// NewCard creates an unlearned card.
func NewCard(front, back string) *Card {
	t := now()
	c := &Card{
		Front:    NewSide(front),
		Back:     NewSide(back),
		created:  t,
		modified: t,
	}
	c.touch()
	c.watchSides()
	return c
}

// Record is the persisted form of a card.
type Record struct {
	ID           int
	Front        string
	Back         string
	FrontImages  []string
	BackImages   []string
	Level        int
	Created      time.Time
	Modified     time.Time
	Tested       time.Time
	Expired      time.Time
	TestsTotal   int
	TestsPassed  int
	FrontLearned int
	BackLearned  int
}

// Record exports the card's persisted fields.
func (c *Card) Record() Record {
	return Record{
		ID:           c.ID,
		Front:        c.Front.Text(),
		Back:         c.Back.Text(),
		FrontImages:  c.Front.Images(),
		BackImages:   c.Back.Images(),
		Level:        c.level,
		Created:      c.created,
		Modified:     c.modified,
		Tested:       c.tested,
		Expired:      c.expired,
		TestsTotal:   c.testsTotal,
		TestsPassed:  c.testsPassed,
		FrontLearned: c.learned[FaceFront],
		BackLearned:  c.learned[FaceBack],
	}
}

// RestoreCard rebuilds an unowned card from a record. The record's level is
// not applied: the caller places the card with Category.AddCardAt.
func RestoreCard(r Record) *Card {
	c := &Card{
		ID:          r.ID,
		Front:       NewSide(r.Front),
		Back:        NewSide(r.Back),
		created:     r.Created,
		modified:    r.Modified,
		tested:      r.Tested,
		expired:     r.Expired,
		testsTotal:  r.TestsTotal,
		testsPassed: r.TestsPassed,
		learned:     [2]int{r.FrontLearned, r.BackLearned},
	}
	c.Front.images = slices.Clone(r.FrontImages)
	c.Back.images = slices.Clone(r.BackImages)
	if c.modified.Before(c.created) {
		c.modified = c.created
	}
	c.touch()
	c.watchSides()
	return c
}

// CloneWithoutProgress returns an unowned copy with the same text and images
// and none of the learning progress.
func (c *Card) CloneWithoutProgress() *Card {
	n := NewCard(c.Front.Text(), c.Back.Text())
	n.Front.images = c.Front.Images()
	n.Back.images = c.Back.Images()
	return n
}

// Level returns the card's deck level; 0 means unlearned.
func (c *Card) Level() int { return c.level }

// Category returns the owning category, or nil.
func (c *Card) Category() *Category { return c.owner }

func (c *Card) Created() time.Time  { return c.created }
func (c *Card) Modified() time.Time { return c.modified }

// Tested returns the time of the last test, zero if never tested.
func (c *Card) Tested() time.Time { return c.tested }

// Expiration returns when the card becomes due again, zero for unlearned cards.
func (c *Card) Expiration() time.Time { return c.expired }

// Touched orders cards by their last placement or test. It has no meaning
// beyond ordering within one process.
func (c *Card) Touched() uint64 { return c.touched }

func (c *Card) TestsTotal() int  { return c.testsTotal }
func (c *Card) TestsPassed() int { return c.testsPassed }

// Learned returns how often face f was answered correctly since the card
// last changed level.
func (c *Card) Learned(f Face) int { return c.learned[f] }

// Side returns the front or back side.
func (c *Card) Side(f Face) *Side {
	if f == FaceBack {
		return c.Back
	}
	return c.Front
}

func (c *Card) IsUnlearned() bool { return c.level == 0 }

// IsExpired reports whether a learned card is due at t.
func (c *Card) IsExpired(t time.Time) bool {
	return c.level > 0 && !c.expired.After(t)
}

// MarkLearned records one more successful test of face f within the current
// level and returns the new amount.
func (c *Card) MarkLearned(f Face) int {
	c.learned[f]++
	return c.learned[f]
}

func (c *Card) touch() {
	c.touched = touches.Add(1)
}

func (c *Card) clearLearned() {
	c.learned = [2]int{}
}

func (c *Card) watchSides() {
	c.Front.Subscribe(c.sideChanged)
	c.Back.Subscribe(c.sideChanged)
}

func (c *Card) sideChanged() {
	c.modified = now()
	if c.owner != nil {
		c.owner.publish(Event{Kind: Edited, Card: c, Category: c.owner, OldLevel: c.level, Level: c.level})
	}
}
