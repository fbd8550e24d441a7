// Package learn runs Leitner learn sessions: it decides which card is shown
// next, applies the answers to the category, and reports the outcome.
package learn

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/eqset"
	"github.com/abhisek/leitbox/internal/schedule"
	"github.com/abhisek/leitbox/internal/store"
)

// Config describes a session to build.
type Config struct {
	// Category is the subtree to learn from.
	Category *deck.Category

	// Cards, when non-nil, restricts the session to these cards. Cards
	// outside Category are ignored.
	Cards []*deck.Card

	// Settings defaults to schedule.Default().
	Settings *schedule.Settings

	// Mode picks candidates when Cards is nil.
	Mode Mode

	// Now defaults to time.Now.
	Now func() time.Time

	// Rand drives shuffling. Defaults to a randomly seeded source.
	Rand *rand.Rand

	// History receives the summary of relevant sessions. Optional.
	History store.HistoryRepo

	// Logger defaults to log.Default().
	Logger *log.Logger
}

type cardSet = eqset.Set[*deck.Card, int]

// Session is a single learn session over one category. It is not safe for
// concurrent use; all calls are expected from one goroutine, such as a
// bubbletea update loop.
type Session struct {
	id       uuid.UUID
	category *deck.Category
	subset   []*deck.Card
	settings *schedule.Settings
	mode     Mode
	now      func() time.Time
	rng      *rand.Rand
	history  store.HistoryRepo
	logger   *log.Logger

	state      State
	start, end time.Time

	// shuffleLevel is the effective class of every candidate.
	shuffleLevel map[*deck.Card]int
	active       *cardSet
	reserve      *cardSet
	loop         *eqset.LoopIterator[*deck.Card, int]
	current      *deck.Card

	total                                    int
	left, passed, failed, skipped, relearned bag
	everFailed                               map[*deck.Card]bool
	checks                                   int

	unsubscribe func()
}

// New builds a session. It panics if cfg has no category.
func New(cfg Config) *Session {
	if cfg.Category == nil {
		panic("learn: session without category")
	}
	s := &Session{
		id:           uuid.New(),
		category:     cfg.Category,
		subset:       cfg.Cards,
		settings:     cfg.Settings,
		mode:         cfg.Mode,
		now:          cfg.Now,
		rng:          cfg.Rand,
		history:      cfg.History,
		logger:       cfg.Logger,
		shuffleLevel: make(map[*deck.Card]int),
		everFailed:   make(map[*deck.Card]bool),
	}
	if s.settings == nil {
		s.settings = schedule.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Start collects the candidate cards and begins learning. A session without
// candidates ends immediately.
func (s *Session) Start() {
	if s.state != StateCreated {
		panic("learn: Start on a session that already started")
	}
	s.state = StateLearning
	s.start = s.now()

	cands := s.candidates()
	slices.SortStableFunc(cands, func(a, b *deck.Card) int {
		return cmp.Compare(a.Touched(), b.Touched())
	})
	maxLevel := 0
	for _, c := range cands {
		maxLevel = max(maxLevel, c.Level())
	}
	for _, c := range cands {
		lvl := c.Level()
		if s.settings.ShuffleRatio > 0 && s.rng.Float64() < s.settings.ShuffleRatio {
			lvl = s.rng.IntN(maxLevel + 1)
		}
		s.shuffleLevel[c] = lvl
		s.left.add(c)
	}
	s.total = len(cands)

	set := eqset.New(s.classOf,
		eqset.WithShuffle(s.settings.ShuffleWithinLevel),
		eqset.WithRand(s.rng),
	)
	for _, c := range cands {
		set.Add(c)
	}
	if n := s.settings.BatchSize; n > 0 && set.Len() > n {
		s.active = set.Partition(n)
		s.reserve = set
	} else {
		s.active = set
	}
	s.loop = s.active.LoopIterator()
	s.unsubscribe = s.category.Subscribe(s.onEvent)

	s.logger.Info("learn session started",
		"id", s.id, "category", s.category.Path(), "mode", s.mode,
		"cards", s.total, "active", s.active.Len())

	if s.active.Len() == 0 {
		s.End()
	}
}

func (s *Session) classOf(c *deck.Card) int {
	return s.shuffleLevel[c]
}

func (s *Session) candidates() []*deck.Card {
	now := s.now()
	var pool []*deck.Card
	switch {
	case s.subset != nil:
		pool = s.subset
	case s.mode == ModeUnlearned:
		pool = s.category.UnlearnedCards()
	case s.mode == ModeExpired:
		pool = s.category.ExpiredCards(now)
	default:
		pool = s.category.LearnableCards(now)
	}

	seen := make(map[*deck.Card]bool, len(pool))
	out := make([]*deck.Card, 0, len(pool))
	for _, c := range pool {
		if seen[c] {
			continue
		}
		seen[c] = true
		if !s.category.Contains(c) {
			s.logger.Warn("ignoring card outside session category", "card", c.ID)
			continue
		}
		out = append(out, c)
	}
	return out
}

// Current returns the card to present, or nil when nothing is left or the
// session is not learning. The card stays current until Check or Skip.
func (s *Session) Current() *deck.Card {
	if s.state != StateLearning {
		return nil
	}
	if s.current == nil && s.active.Len() > 0 {
		s.current = s.loop.Next()
	}
	return s.current
}

// CurrentSide returns the side the current card should be tested on: the
// front until it reached its required amount, then the back.
func (s *Session) CurrentSide() deck.Face {
	c := s.Current()
	if c == nil {
		return deck.FaceFront
	}
	if c.Learned(deck.FaceFront) < s.settings.FrontAmount {
		return deck.FaceFront
	}
	return deck.FaceBack
}

// Check records an answer for the current card. flipped reports that the
// back side was the one tested. It panics without a current card.
func (s *Session) Check(passed, flipped bool) {
	card := s.mustCurrent("Check")
	s.checks++
	now := s.now()

	face := deck.FaceFront
	if flipped {
		face = deck.FaceBack
	}

	if !passed {
		s.fail(card, now)
	} else {
		card.MarkLearned(face)
		if s.fullyLearned(card) {
			s.pass(card, now)
		} else {
			card.Category().Reappend(card)
			if s.skipped.remove(card) {
				s.left.add(card)
			}
		}
	}

	s.logger.Debug("card checked", "card", card.ID, "passed", passed, "face", face, "level", card.Level())
	s.current = nil
	s.finishIfDone()
}

// Skip puts the current card back for the next lap. It panics without a
// current card.
func (s *Session) Skip() {
	card := s.mustCurrent("Skip")
	s.moveTo(card, &s.skipped)
	s.active.Remove(card)
	s.active.AddExpired(card)
	s.current = nil
}

func (s *Session) fullyLearned(c *deck.Card) bool {
	return c.Learned(deck.FaceFront) >= s.settings.FrontAmount &&
		c.Learned(deck.FaceBack) >= s.settings.BackAmount
}

func (s *Session) pass(card *deck.Card, now time.Time) {
	exp := schedule.ExpirationDate(now, s.settings.Index(card.Level()), s.settings)
	s.active.Remove(card)
	if s.everFailed[card] {
		s.moveTo(card, &s.relearned)
	} else {
		s.moveTo(card, &s.passed)
	}
	card.Category().RaiseLevel(card, now, exp)
	s.refill()
}

func (s *Session) fail(card *deck.Card, now time.Time) {
	card.Category().ResetLevel(card, now)
	s.everFailed[card] = true
	s.moveTo(card, &s.failed)
	s.active.Remove(card)
	if s.settings.RetestFailedCards {
		s.shuffleLevel[card] = 0
		s.active.AddExpired(card)
		return
	}
	s.refill()
}

// refill pulls the next reserve card into the active set.
func (s *Session) refill() {
	if s.reserve == nil || s.reserve.Len() == 0 {
		return
	}
	for c := range s.reserve.Partition(1).All() {
		s.active.Add(c)
	}
}

// moveTo removes card from every bag and puts it into dst.
func (s *Session) moveTo(card *deck.Card, dst *bag) {
	for _, b := range s.bags() {
		b.remove(card)
	}
	dst.add(card)
}

func (s *Session) bags() []*bag {
	return []*bag{&s.left, &s.passed, &s.failed, &s.skipped, &s.relearned}
}

func (s *Session) mustCurrent(op string) *deck.Card {
	if s.state != StateLearning {
		panic("learn: " + op + " while session is " + s.state.String())
	}
	c := s.Current()
	if c == nil {
		panic("learn: " + op + " without current card")
	}
	return c
}

func (s *Session) finishIfDone() {
	if s.state == StateLearning && s.poolEmpty() {
		s.End()
	}
}

func (s *Session) poolEmpty() bool {
	return s.active.Len() == 0 && (s.reserve == nil || s.reserve.Len() == 0)
}

// OnTimer ends the session once its time limit has elapsed at now and reports
// whether it did. A zero limit never expires.
func (s *Session) OnTimer(now time.Time) bool {
	if s.state != StateLearning || s.settings.TimeLimit <= 0 {
		return false
	}
	if now.Sub(s.start) < s.settings.TimeLimit {
		return false
	}
	s.logger.Info("learn session time limit reached", "id", s.id, "limit", s.settings.TimeLimit)
	s.End()
	return true
}

// Remaining returns the time left before the limit, or -1 without a limit.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.settings.TimeLimit <= 0 {
		return -1
	}
	return max(s.settings.TimeLimit-now.Sub(s.start), 0)
}

// End finishes the session and records its summary when it is relevant.
// Calling End again has no effect.
func (s *Session) End() {
	if s.state == StateEnded {
		return
	}
	now := s.now()
	if s.state == StateCreated {
		s.start = now
	}
	s.state = StateEnded
	s.end = now
	s.current = nil
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}

	sum := s.Summary()
	s.logger.Info("learn session ended",
		"id", s.id, "passed", sum.Passed, "failed", sum.Failed,
		"skipped", sum.Skipped, "relearned", sum.Relearned, "duration", sum.Duration())

	if !s.Relevant() || s.history == nil {
		return
	}
	if err := s.history.Record(context.Background(), sum.record()); err != nil {
		s.logger.Error("record learn session", "id", s.id, "err", err)
	}
}

// onEvent ejects cards that leave the category or move between categories.
// Outcomes already given (passed, failed, relearned) are kept; an ejected card
// of the active batch is replaced from the reserve.
func (s *Session) onEvent(ev deck.Event) {
	if ev.Kind != deck.Moved && ev.Kind != deck.Removed {
		return
	}
	card := ev.Card
	if _, ok := s.shuffleLevel[card]; !ok {
		return
	}
	if s.active.Remove(card) {
		s.refill()
	}
	if s.reserve != nil {
		s.reserve.Remove(card)
	}
	s.left.remove(card)
	s.skipped.remove(card)
	delete(s.shuffleLevel, card)
	if s.current == card {
		s.current = nil
	}
	s.logger.Debug("card ejected from session", "card", card.ID, "event", ev.Kind)
	s.finishIfDone()
}

// IsQuit reports whether no further card can be presented.
func (s *Session) IsQuit() bool {
	return s.state == StateEnded || (s.state == StateLearning && s.poolEmpty())
}

// Relevant reports whether at least one answer was checked.
func (s *Session) Relevant() bool {
	return s.checks > 0
}

func (s *Session) ID() string                   { return s.id.String() }
func (s *Session) State() State                 { return s.state }
func (s *Session) Category() *deck.Category     { return s.category }
func (s *Session) Settings() *schedule.Settings { return s.settings }
func (s *Session) Left() []*deck.Card           { return s.left.list() }
func (s *Session) Passed() []*deck.Card         { return s.passed.list() }
func (s *Session) Failed() []*deck.Card         { return s.failed.list() }
func (s *Session) Skipped() []*deck.Card        { return s.skipped.list() }
func (s *Session) Relearned() []*deck.Card      { return s.relearned.list() }

// Summary returns the counts so far.
func (s *Session) Summary() Summary {
	return Summary{
		ID:           s.ID(),
		CategoryPath: s.category.Path(),
		Start:        s.start,
		End:          s.end,
		Total:        s.total,
		Checks:       s.checks,
		Left:         s.left.len(),
		Passed:       s.passed.len(),
		Failed:       s.failed.len(),
		Skipped:      s.skipped.len(),
		Relearned:    s.relearned.len(),
	}
}
