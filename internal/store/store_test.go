package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/schedule"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range Tables {
		var name string
		err := s.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table.Name, err)
		}
	}
}

func TestCategoryRepo_LoadEmpty(t *testing.T) {
	s := openTestStore(t)
	root, err := s.CategoryRepo(nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, root.Len())
	assert.Empty(t, root.Children())
}

func TestCategoryRepo_SaveLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.CategoryRepo(nil)
	ctx := context.Background()

	tested := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	root := deck.NewCategory("")
	verbs := root.Ensure("german/verbs")
	nouns := root.Ensure("german/nouns")

	gehen := deck.NewCard("gehen", "to go")
	gehen.Back.AddImage("walk.png")
	verbs.AddCard(gehen)
	verbs.RaiseLevel(gehen, tested, tested.Add(48*time.Hour))
	gehen.MarkLearned(deck.FaceBack)

	first := deck.NewCard("der Hund", "dog")
	second := deck.NewCard("die Katze", "cat")
	nouns.AddCard(first)
	nouns.AddCard(second)
	nouns.Reappend(first)

	require.NoError(t, repo.Save(ctx, root))
	assert.NotZero(t, gehen.ID)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())

	gotVerbs := got.Find("german/verbs")
	require.NotNil(t, gotVerbs)
	require.Len(t, gotVerbs.CardsAt(1), 1)
	c := gotVerbs.CardsAt(1)[0]
	assert.Equal(t, "gehen", c.Front.Text())
	assert.Equal(t, []string{"walk.png"}, c.Back.Images())
	assert.True(t, c.Tested().Equal(tested))
	assert.True(t, c.Expiration().Equal(tested.Add(48*time.Hour)))
	assert.Equal(t, 1, c.TestsTotal())
	assert.Equal(t, 1, c.TestsPassed())
	assert.Equal(t, 1, c.Learned(deck.FaceBack))
	assert.Equal(t, gehen.ID, c.ID)
	assert.True(t, c.Created().Equal(gehen.Created()))

	gotNouns := got.Find("german/nouns")
	require.NotNil(t, gotNouns)
	var order []string
	for _, c := range gotNouns.LocalCards(0) {
		order = append(order, c.Front.Text())
	}
	assert.Equal(t, []string{"die Katze", "der Hund"}, order, "deck order survives")
}

func TestCategoryRepo_SaveReplaces(t *testing.T) {
	s := openTestStore(t)
	repo := s.CategoryRepo(nil)
	ctx := context.Background()

	root := deck.NewCategory("")
	a := root.AddChild("a")
	a.AddCard(deck.NewCard("1", "1"))
	require.NoError(t, repo.Save(ctx, root))

	root.RemoveChild(a)
	root.AddChild("b").AddCard(deck.NewCard("2", "2"))
	require.NoError(t, repo.Save(ctx, root))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.Find("a"))
	require.NotNil(t, got.Find("b"))
	assert.Equal(t, 1, got.Len())
}

func TestCategoryRepo_FailedSaveKeepsIDs(t *testing.T) {
	s := openTestStore(t)
	repo := s.CategoryRepo(nil)
	ctx := context.Background()

	_, err := s.DB().Exec(`CREATE TRIGGER reject_card BEFORE INSERT ON cards
		WHEN NEW.front = 'reject' BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	root := deck.NewCategory("")
	ok := deck.NewCard("ok", "ok")
	root.AddCard(ok)
	root.AddChild("later").AddCard(deck.NewCard("reject", "x"))

	require.Error(t, repo.Save(ctx, root))
	assert.Zero(t, ok.ID, "rolled back rows hand out no IDs")

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestCategoryRepo_RepairsMissingExpiration(t *testing.T) {
	s := openTestStore(t)
	settings, err := schedule.NewSettings(schedule.Config{Preset: schedule.PresetConst, BaseMinutes: 60})
	require.NoError(t, err)
	repo := s.CategoryRepo(settings)
	ctx := context.Background()

	root := deck.NewCategory("")
	tested := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	card := deck.NewCard("q", "a")
	root.AddCard(card)
	root.RaiseLevel(card, tested, tested.Add(time.Hour))
	require.NoError(t, repo.Save(ctx, root))

	_, err = s.DB().Exec("UPDATE cards SET expires_at = NULL")
	require.NoError(t, err)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	cards := got.CardsAt(1)
	require.Len(t, cards, 1)
	assert.True(t, cards[0].Expiration().Equal(tested.Add(time.Hour)), "got %v", cards[0].Expiration())
}

func TestHistoryRepo_RecordList(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, path := range []string{"german", "french", "german"} {
		require.NoError(t, repo.Record(ctx, HistoryRecord{
			SessionID:    string(rune('a' + i)),
			CategoryPath: path,
			Start:        base.Add(time.Duration(i) * time.Hour),
			End:          base.Add(time.Duration(i)*time.Hour + 10*time.Minute),
			Passed:       i + 1,
			Failed:       1,
		}))
	}

	all, err := repo.List(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].SessionID, "most recent first")
	assert.Equal(t, 3, all[0].Passed)
	assert.Equal(t, 10*time.Minute, all[0].Duration())

	german, err := repo.List(ctx, QueryOpts{CategoryPath: "german", Limit: 1})
	require.NoError(t, err)
	require.Len(t, german, 1)
	assert.Equal(t, "c", german[0].SessionID)

	early, err := repo.List(ctx, QueryOpts{To: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, early, 1)
	assert.Equal(t, "a", early[0].SessionID)
}

func TestHistoryRepo_DuplicateSessionID(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()
	rec := HistoryRecord{SessionID: "same", Start: time.Now(), End: time.Now()}
	require.NoError(t, repo.Record(ctx, rec))
	assert.Error(t, repo.Record(ctx, rec))
}

func TestDefaultDBPath_Env(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sub", "x.db")
	t.Setenv("LEITBOX_DB", p)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Join(dir, "sub"))
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEITBOX_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "leitbox", "leitbox.db"), got)
}
