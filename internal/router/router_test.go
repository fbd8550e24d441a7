package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/leitbox/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	resumed int
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { s.updates++; return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

// resumingScreen counts Resume calls.
type resumingScreen struct {
	stubScreen
}

func (s *resumingScreen) Resume() tea.Cmd {
	s.resumed++
	return nil
}

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Push(&stubScreen{title: "second"})
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Pop()
	r.PopToRoot()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Push(&stubScreen{title: "second"})

	third := &stubScreen{title: "third"}
	r.Replace(third)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
	if !third.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestPopToRoot(t *testing.T) {
	root := &resumingScreen{stubScreen{title: "root"}}
	r := New(root)
	r.Push(&stubScreen{title: "learn"})
	r.Replace(&stubScreen{title: "summary"})
	r.Push(&stubScreen{title: "extra"})

	r.PopToRoot()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active() != root {
		t.Errorf("expected root active, got %q", r.Active().Title())
	}
	if root.resumed != 1 {
		t.Errorf("expected one Resume call, got %d", root.resumed)
	}
}

func TestPopResumes(t *testing.T) {
	root := &resumingScreen{stubScreen{title: "root"}}
	r := New(root)
	r.Push(&stubScreen{title: "second"})
	r.Pop()

	if root.resumed != 1 {
		t.Errorf("expected one Resume call, got %d", root.resumed)
	}
}

func TestNavigationMessages(t *testing.T) {
	root := &resumingScreen{stubScreen{title: "root"}}
	r := New(root)

	r.Update(PushScreenMsg{Screen: &stubScreen{title: "second"}})
	if r.Depth() != 2 {
		t.Fatalf("expected depth 2 after PushScreenMsg, got %d", r.Depth())
	}

	r.Update(ReplaceScreenMsg{Screen: &stubScreen{title: "third"}})
	if r.Active().Title() != "third" || r.Depth() != 2 {
		t.Errorf("expected 'third' at depth 2, got %q at %d", r.Active().Title(), r.Depth())
	}

	r.Update(PopScreenMsg{})
	if r.Active() != root {
		t.Errorf("expected root after PopScreenMsg, got %q", r.Active().Title())
	}

	r.Update(PushScreenMsg{Screen: &stubScreen{title: "a"}})
	r.Update(PushScreenMsg{Screen: &stubScreen{title: "b"}})
	r.Update(PopToRootMsg{})
	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after PopToRootMsg, got %d", r.Depth())
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)
	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	if s2.updates != 1 || s1.updates != 0 {
		t.Errorf("expected only the active screen updated, got %d/%d", s1.updates, s2.updates)
	}
	if got := r.View(80, 24); got != "second" {
		t.Errorf("expected view 'second', got %q", got)
	}
}

func TestCommandHelpers(t *testing.T) {
	s := &stubScreen{title: "x"}

	if msg, ok := Push(s)().(PushScreenMsg); !ok || msg.Screen != s {
		t.Errorf("Push returned %#v", msg)
	}
	if msg, ok := Replace(s)().(ReplaceScreenMsg); !ok || msg.Screen != s {
		t.Errorf("Replace returned %#v", msg)
	}
	if _, ok := Pop().(PopScreenMsg); !ok {
		t.Error("Pop should return PopScreenMsg")
	}
	if _, ok := PopToRoot().(PopToRootMsg); !ok {
		t.Error("PopToRoot should return PopToRootMsg")
	}
}
