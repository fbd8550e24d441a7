package learn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/schedule"
	"github.com/abhisek/leitbox/internal/store"
)

type mockHistory struct {
	records []store.HistoryRecord
	err     error
}

func (m *mockHistory) Record(_ context.Context, rec store.HistoryRecord) error {
	m.records = append(m.records, rec)
	return m.err
}

func (m *mockHistory) List(context.Context, store.QueryOpts) ([]store.HistoryRecord, error) {
	return m.records, nil
}

type clock struct{ t time.Time }

func newClock() *clock {
	return &clock{t: time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func categoryWith(n int) (*deck.Category, []*deck.Card) {
	cat := deck.NewCategory("")
	cards := make([]*deck.Card, n)
	for i := range n {
		cards[i] = deck.NewCard(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		cat.AddCard(cards[i])
	}
	return cat, cards
}

func settings(t *testing.T, cfg schedule.Config) *schedule.Settings {
	t.Helper()
	s, err := schedule.NewSettings(cfg)
	require.NoError(t, err)
	return s
}

type fixture struct {
	sess    *Session
	clock   *clock
	history *mockHistory
}

func newSession(t *testing.T, cat *deck.Category, cfg schedule.Config, mutate ...func(*Config)) fixture {
	t.Helper()
	f := fixture{clock: newClock(), history: &mockHistory{}}
	c := Config{
		Category: cat,
		Settings: settings(t, cfg),
		Now:      f.clock.now,
		Rand:     rand.New(rand.NewPCG(1, 2)),
		History:  f.history,
		Logger:   log.New(io.Discard),
	}
	for _, m := range mutate {
		m(&c)
	}
	f.sess = New(c)
	return f
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestSession_PassAll(t *testing.T) {
	cat, cards := categoryWith(3)
	f := newSession(t, cat, schedule.Config{})
	s := f.sess
	s.Start()
	require.Equal(t, StateLearning, s.State())

	var order []*deck.Card
	for !s.IsQuit() {
		order = append(order, s.Current())
		s.Check(true, false)
	}

	assert.Equal(t, cards, order, "cards come in touched order")
	assert.Len(t, s.Passed(), 3)
	assert.Empty(t, s.Failed())
	assert.Empty(t, s.Left())
	assert.Equal(t, StateEnded, s.State())
	assert.Nil(t, s.Current())

	for _, c := range cards {
		assert.Equal(t, 1, c.Level())
		assert.Equal(t, f.clock.t.Add(24*time.Hour), c.Expiration())
		assert.Equal(t, 1, c.TestsPassed())
	}

	require.Len(t, f.history.records, 1)
	rec := f.history.records[0]
	assert.Equal(t, s.ID(), rec.SessionID)
	assert.Equal(t, 3, rec.Passed)
	assert.Equal(t, 0, rec.Failed)
}

func TestSession_SkipAllThenLearnHalf(t *testing.T) {
	cat, _ := categoryWith(50)
	f := newSession(t, cat, schedule.Config{})
	s := f.sess
	s.Start()

	for range 50 {
		require.NotNil(t, s.Current())
		s.Skip()
	}
	assert.Len(t, s.Skipped(), 50)
	assert.Empty(t, s.Left())

	for range 25 {
		s.Check(true, false)
	}
	assert.Len(t, s.Passed(), 25)
	assert.Len(t, s.Skipped(), 25)
	assert.Equal(t, StateLearning, s.State())
	assert.False(t, s.IsQuit())
}

func TestSession_FailWithoutRetest(t *testing.T) {
	cat, cards := categoryWith(2)
	f := newSession(t, cat, schedule.Config{})
	s := f.sess
	s.Start()

	require.Same(t, cards[0], s.Current())
	s.Check(false, false)
	assert.Equal(t, []*deck.Card{cards[0]}, s.Failed())
	assert.Equal(t, 0, cards[0].Level())
	assert.Equal(t, 1, cards[0].TestsTotal())

	require.Same(t, cards[1], s.Current())
	s.Check(true, false)
	assert.True(t, s.IsQuit(), "failed cards are not retested")
	assert.Len(t, s.Passed(), 1)
	assert.Len(t, s.Failed(), 1)
	assert.Empty(t, s.Relearned())
}

func TestSession_RetestFailedCards(t *testing.T) {
	cat, cards := categoryWith(2)
	f := newSession(t, cat, schedule.Config{RetestFailedCards: true})
	s := f.sess
	s.Start()

	require.Same(t, cards[0], s.Current())
	s.Check(false, false)
	require.Same(t, cards[1], s.Current(), "failed card waits for the next lap")
	s.Check(true, false)
	require.Same(t, cards[0], s.Current())
	s.Check(true, false)

	assert.Equal(t, []*deck.Card{cards[1]}, s.Passed())
	assert.Equal(t, []*deck.Card{cards[0]}, s.Relearned())
	assert.Empty(t, s.Failed())
	assert.Equal(t, StateEnded, s.State())

	require.Len(t, f.history.records, 1)
	assert.Equal(t, 1, f.history.records[0].Relearned)
}

func TestSession_SkippedAfterFailRelearns(t *testing.T) {
	cat, cards := categoryWith(1)
	f := newSession(t, cat, schedule.Config{RetestFailedCards: true})
	s := f.sess
	s.Start()

	s.Check(false, false)
	require.Same(t, cards[0], s.Current())
	s.Skip()
	assert.Equal(t, []*deck.Card{cards[0]}, s.Skipped())
	assert.Empty(t, s.Failed())

	s.Check(true, false)
	assert.Equal(t, []*deck.Card{cards[0]}, s.Relearned())
	assert.Empty(t, s.Skipped())
}

func TestSession_FailResetsExpiredCard(t *testing.T) {
	cat, cards := categoryWith(1)
	clk := newClock()
	card := cards[0]
	cat.RaiseLevel(card, clk.t.Add(-72*time.Hour), clk.t.Add(-time.Hour))
	require.True(t, card.IsExpired(clk.t))

	f := newSession(t, cat, schedule.Config{}, func(c *Config) { c.Mode = ModeExpired })
	s := f.sess
	s.Start()
	require.Same(t, card, s.Current())
	s.Check(false, false)

	assert.Equal(t, 0, card.Level())
	assert.True(t, card.Expiration().IsZero())
	assert.True(t, card.IsUnlearned())
	assert.Equal(t, 2, card.TestsTotal())
	assert.Equal(t, 1, card.TestsPassed())
}

func TestSession_PromotionUsesLevelSchedule(t *testing.T) {
	cat, cards := categoryWith(1)
	clk := newClock()
	card := cards[0]
	cat.RaiseLevel(card, clk.t.Add(-72*time.Hour), clk.t.Add(-time.Hour))

	f := newSession(t, cat, schedule.Config{Preset: schedule.PresetLinear, Levels: 2, BaseMinutes: 60})
	s := f.sess
	s.Start()
	s.Check(true, false)
	assert.Equal(t, 2, card.Level())
	assert.Equal(t, f.clock.t.Add(2*time.Hour), card.Expiration())
}

func TestSession_FrontAndBackAmounts(t *testing.T) {
	cat, cards := categoryWith(1)
	f := newSession(t, cat, schedule.Config{FrontAmount: 1, BackAmount: 1})
	s := f.sess
	s.Start()

	assert.Equal(t, deck.FaceFront, s.CurrentSide())
	s.Check(true, false)
	assert.Equal(t, 0, cards[0].Level(), "a partial pass keeps the level")
	assert.Equal(t, []*deck.Card{cards[0]}, s.Left())

	require.Same(t, cards[0], s.Current())
	assert.Equal(t, deck.FaceBack, s.CurrentSide())
	s.Check(true, true)
	assert.Equal(t, 1, cards[0].Level())
	assert.Equal(t, []*deck.Card{cards[0]}, s.Passed())
	assert.Equal(t, 0, cards[0].Learned(deck.FaceFront))
}

func TestSession_Batch(t *testing.T) {
	cat, cards := categoryWith(5)
	f := newSession(t, cat, schedule.Config{BatchSize: 2})
	s := f.sess
	s.Start()

	require.Same(t, cards[0], s.Current())
	s.Skip()
	require.Same(t, cards[1], s.Current())
	s.Skip()
	require.Same(t, cards[0], s.Current(), "only the batch is in play")
	s.Check(true, false)
	require.Same(t, cards[1], s.Current())
	s.Check(true, false)
	require.Same(t, cards[2], s.Current(), "reserve card joins the running lap")

	for !s.IsQuit() {
		s.Check(true, false)
	}
	assert.ElementsMatch(t, cards, s.Passed())
}

func TestSession_ShuffleRatioPresentsEveryCard(t *testing.T) {
	cat, cards := categoryWith(20)
	for i, c := range cards[:10] {
		cat.RaiseLevel(c, time.Time{}, newClock().t.Add(-time.Duration(i+1)*time.Hour))
	}
	f := newSession(t, cat, schedule.Config{ShuffleRatio: 1, ShuffleWithinLevel: true})
	s := f.sess
	s.Start()

	seen := map[*deck.Card]bool{}
	for !s.IsQuit() {
		c := s.Current()
		require.False(t, seen[c], "card presented twice")
		seen[c] = true
		s.Check(true, false)
	}
	assert.Len(t, seen, 20)
}

func TestSession_EjectsMovedAndRemovedCards(t *testing.T) {
	root := deck.NewCategory("")
	src := root.AddChild("src")
	dst := root.AddChild("dst")
	var cards []*deck.Card
	for i := range 3 {
		c := deck.NewCard(fmt.Sprint(i), fmt.Sprint(i))
		src.AddCard(c)
		cards = append(cards, c)
	}

	f := newSession(t, src, schedule.Config{})
	s := f.sess
	s.Start()

	require.Same(t, cards[0], s.Current())
	src.MoveCard(cards[0], dst)
	assert.NotContains(t, s.Left(), cards[0])
	require.Same(t, cards[1], s.Current())

	src.RemoveCard(cards[2])
	s.Check(true, false)
	assert.True(t, s.IsQuit())
	assert.Equal(t, []*deck.Card{cards[1]}, s.Passed())
	assert.Empty(t, s.Left())
}

func TestSession_EjectRefillsBatch(t *testing.T) {
	root := deck.NewCategory("")
	src := root.AddChild("src")
	dst := root.AddChild("dst")
	var cards []*deck.Card
	for i := range 3 {
		c := deck.NewCard(fmt.Sprint(i), fmt.Sprint(i))
		src.AddCard(c)
		cards = append(cards, c)
	}

	f := newSession(t, src, schedule.Config{BatchSize: 1})
	s := f.sess
	s.Start()

	require.Same(t, cards[0], s.Current())
	src.MoveCard(cards[0], dst)

	require.False(t, s.IsQuit())
	next := s.Current()
	require.NotNil(t, next, "a reserve card takes the ejected one's place")
	assert.NotSame(t, cards[0], next)

	for !s.IsQuit() {
		s.Check(true, false)
	}
	assert.ElementsMatch(t, cards[1:], s.Passed())
	assert.Equal(t, StateEnded, s.State())
}

func TestSession_EjectKeepsOutcomes(t *testing.T) {
	root := deck.NewCategory("")
	src := root.AddChild("src")
	dst := root.AddChild("dst")
	a := deck.NewCard("a", "a")
	b := deck.NewCard("b", "b")
	c := deck.NewCard("c", "c")
	src.AddCard(a)
	src.AddCard(b)
	src.AddCard(c)

	f := newSession(t, src, schedule.Config{})
	s := f.sess
	s.Start()

	require.Same(t, a, s.Current())
	s.Check(true, false)
	require.Same(t, b, s.Current())
	s.Check(false, false)

	src.MoveCard(a, dst)
	src.RemoveCard(b)
	assert.Equal(t, []*deck.Card{a}, s.Passed(), "a finished answer stays counted")
	assert.Equal(t, []*deck.Card{b}, s.Failed())

	require.Same(t, c, s.Current())
	s.Check(true, false)
	require.True(t, s.IsQuit())

	require.Len(t, f.history.records, 1)
	assert.Equal(t, 2, f.history.records[0].Passed)
	assert.Equal(t, 1, f.history.records[0].Failed)
}

func TestSession_TimeLimit(t *testing.T) {
	cat, _ := categoryWith(2)
	f := newSession(t, cat, schedule.Config{TimeLimit: 10 * time.Minute})
	s := f.sess
	s.Start()
	start := f.clock.t

	assert.False(t, s.OnTimer(start.Add(5*time.Minute)))
	assert.Equal(t, 5*time.Minute, s.Remaining(start.Add(5*time.Minute)))
	assert.True(t, s.OnTimer(start.Add(10*time.Minute)))
	assert.Equal(t, StateEnded, s.State())
	assert.True(t, s.IsQuit())
	assert.False(t, s.Relevant())
	assert.Empty(t, f.history.records, "sessions without checks are not recorded")
}

func TestSession_NoTimeLimit(t *testing.T) {
	cat, _ := categoryWith(1)
	f := newSession(t, cat, schedule.Config{})
	f.sess.Start()
	assert.False(t, f.sess.OnTimer(f.clock.t.Add(1000*time.Hour)))
	assert.Equal(t, time.Duration(-1), f.sess.Remaining(f.clock.t))
}

func TestSession_EmptyEndsImmediately(t *testing.T) {
	cat := deck.NewCategory("")
	f := newSession(t, cat, schedule.Config{})
	f.sess.Start()
	assert.Equal(t, StateEnded, f.sess.State())
	assert.True(t, f.sess.IsQuit())
	assert.Nil(t, f.sess.Current())
}

func TestSession_EndIsIdempotent(t *testing.T) {
	cat, _ := categoryWith(3)
	f := newSession(t, cat, schedule.Config{})
	s := f.sess
	s.Start()
	s.Check(true, false)
	f.clock.advance(time.Minute)
	s.End()
	s.End()

	require.Len(t, f.history.records, 1)
	sum := s.Summary()
	assert.Equal(t, time.Minute, sum.Duration())
	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 2, sum.Left)
	assert.Equal(t, 3, sum.Total)
}

func TestSession_HistoryErrorIsLogged(t *testing.T) {
	cat, _ := categoryWith(1)
	f := newSession(t, cat, schedule.Config{})
	f.history.err = errors.New("disk full")
	f.sess.Start()
	f.sess.Check(true, false)
	assert.Equal(t, StateEnded, f.sess.State())
}

func TestSession_Misuse(t *testing.T) {
	cat, _ := categoryWith(1)
	f := newSession(t, cat, schedule.Config{})
	s := f.sess

	assertPanics(t, "check before start", func() { s.Check(true, false) })
	assertPanics(t, "skip before start", func() { s.Skip() })
	s.Start()
	assertPanics(t, "start twice", func() { s.Start() })
	s.End()
	assertPanics(t, "check after end", func() { s.Check(true, false) })
	assertPanics(t, "no category", func() { New(Config{}) })
}

func TestSession_ExplicitSubset(t *testing.T) {
	cat, cards := categoryWith(3)
	outsider := deck.NewCard("x", "y")
	f := newSession(t, cat, schedule.Config{}, func(c *Config) {
		c.Cards = []*deck.Card{cards[2], outsider, cards[2]}
	})
	f.sess.Start()
	assert.Equal(t, 1, f.sess.Summary().Total)
	assert.Same(t, cards[2], f.sess.Current())
}

func TestSession_TouchedOrder(t *testing.T) {
	cat, cards := categoryWith(3)
	cat.Reappend(cards[0])
	f := newSession(t, cat, schedule.Config{})
	s := f.sess
	s.Start()

	var order []*deck.Card
	for !s.IsQuit() {
		order = append(order, s.Current())
		s.Check(true, false)
	}
	assert.Equal(t, []*deck.Card{cards[1], cards[2], cards[0]}, order)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAll, false},
		{"all", ModeAll, false},
		{"New", ModeUnlearned, false},
		{"expired", ModeExpired, false},
		{"later", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSummary_Accuracy(t *testing.T) {
	assert.Zero(t, Summary{}.Accuracy())
	assert.InDelta(t, 0.5, Summary{Passed: 2, Failed: 1, Relearned: 1}.Accuracy(), 1e-9)
}
