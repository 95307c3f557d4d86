package app

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/geoquiz/internal/progress"
	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/store"
	"github.com/abhisek/geoquiz/internal/ui/layout"
)

type stubScreen struct {
	title  string
	hints  []layout.KeyHint
	closed bool
}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "stub body" }
func (s *stubScreen) Title() string                           { return s.title }
func (s *stubScreen) KeyHints() []layout.KeyHint              { return s.hints }
func (s *stubScreen) Close() error                            { s.closed = true; return nil }

func testEnv(t *testing.T) screen.Env {
	t.Helper()
	mem := progress.NewMemory()
	if _, err := mem.SaveDailyChallenge(context.Background(), "2026-03-14", store.DailyEntry{Score: 3}); err != nil {
		t.Fatal(err)
	}
	return screen.Env{
		Progress: mem,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      func() time.Time { return time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC) },
	}
}

func TestAppModel_LoadsStreak(t *testing.T) {
	m := newAppModel(testEnv(t), &stubScreen{title: "Home"})
	msg := m.loadStreak()()
	if got, ok := msg.(streakMsg); !ok || got != 1 {
		t.Fatalf("loadStreak = %#v, want streakMsg(1)", msg)
	}
	updated, _ := m.Update(msg)
	m = updated.(AppModel)
	if m.streak != 1 {
		t.Errorf("streak = %d, want 1", m.streak)
	}
}

func TestAppModel_EscPopsOnlyAboveRoot(t *testing.T) {
	m := newAppModel(testEnv(t), &stubScreen{title: "Home"})
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc on the root screen should do nothing")
	}

	top := &stubScreen{title: "Quiz"}
	m.router.Push(top)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg")
	}
	m.Update(router.PopScreenMsg{})
	if !top.closed {
		t.Error("popped screen was not closed")
	}
}

func TestAppModel_FooterUsesScreenHints(t *testing.T) {
	m := newAppModel(testEnv(t), &stubScreen{title: "Quiz", hints: []layout.KeyHint{{Key: "Ctrl+G", Description: "Give up"}}})
	hints := m.footerHints()
	if len(hints) != 2 || hints[0].Key != "Ctrl+G" {
		t.Errorf("footerHints = %v", hints)
	}
}

func TestAppModel_StacksScreens(t *testing.T) {
	root, top := &stubScreen{title: "Home"}, &stubScreen{title: "Daily challenge"}
	m := newAppModel(testEnv(t), root, top)
	if m.router.Depth() != 2 || m.router.Active() != top {
		t.Fatalf("depth = %d, want the pushed screen on top", m.router.Depth())
	}
	if m.Init() == nil {
		t.Error("Init should load the streak")
	}
}

func TestAppModel_View(t *testing.T) {
	m := newAppModel(testEnv(t), &stubScreen{title: "Home"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(AppModel)
	content := m.render()
	if !strings.Contains(content, "stub body") || !strings.Contains(content, "GeoQuiz") {
		t.Errorf("unexpected frame:\n%s", content)
	}

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	m = updated.(AppModel)
	if strings.Contains(m.render(), "stub body") {
		t.Error("small terminal should show the size message")
	}
}
