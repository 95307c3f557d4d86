package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/screens/history"
	"github.com/abhisek/geoquiz/internal/screens/play"
	"github.com/abhisek/geoquiz/internal/screens/setup"
	"github.com/abhisek/geoquiz/internal/spacedrep"
	"github.com/abhisek/geoquiz/internal/stats"
	"github.com/abhisek/geoquiz/internal/store"
	"github.com/abhisek/geoquiz/internal/ui/components"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

type dashboardMsg struct {
	streak      int
	playedToday bool
	due         int
	err         error
}

// HomeScreen offers the game modes and shows the player's standing.
type HomeScreen struct {
	env    screen.Env
	menu   components.Menu
	dash   dashboardMsg
	loaded bool
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(env screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	h.menu = components.NewMenu(h.items())
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) items() []components.MenuItem {
	daily, learn := "", ""
	if h.loaded {
		if h.dash.playedToday {
			daily = "done today"
		}
		learn = fmt.Sprintf("%d due", h.dash.due)
	}
	return []components.MenuItem{
		{Label: "Daily challenge", Detail: daily, Action: func() tea.Cmd {
			return push(play.New(h.env, play.Config{Mode: quiz.ModeDailyChallenge}))
		}},
		{Label: "Learn", Detail: learn, Disabled: h.loaded && h.dash.due == 0, Action: func() tea.Cmd {
			return push(play.New(h.env, play.Config{Mode: quiz.ModeLearning}))
		}},
		{Label: "Quiz", Action: func() tea.Cmd {
			return push(setup.New(h.env, quiz.ModeQuiz))
		}},
		{Label: "Sandbox", Detail: "explore freely", Action: func() tea.Cmd {
			return push(setup.New(h.env, quiz.ModeSandbox))
		}},
		{Label: "History", Action: func() tea.Cmd {
			return push(history.New(h.env))
		}},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadDashboard()
}

func (h *HomeScreen) loadDashboard() tea.Cmd {
	env := h.env
	return func() tea.Msg {
		p, err := env.Progress.LoadProgress(context.Background())
		if err != nil {
			return dashboardMsg{err: err}
		}
		now := env.Today()
		today := now.Format(store.DateLayout)
		msg := dashboardMsg{
			streak: stats.CurrentStreak(p.DailyChallenge.Streak, now),
			due:    len(spacedrep.DueCountries(p, now, env.Catalog.All())),
		}
		for _, e := range p.DailyChallenge.FullEntries {
			if e.Date == today {
				msg.playedToday = true
			}
		}
		return msg
	}
}

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		if msg.err != nil {
			h.env.Logger.Error("load dashboard", "err", msg.err)
		}
		h.dash, h.loaded = msg, true
		sel := h.menu.Selected
		h.menu = components.NewMenu(h.items())
		if !h.menu.Items[sel].Disabled {
			h.menu.Selected = sel
		}
		return h, nil
	case router.PoppedMsg:
		return h, h.loadDashboard()
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 18
	cw := min(width-6, 56)

	var status string
	switch {
	case !h.loaded:
		status = "loading…"
	case h.dash.err != nil:
		status = "progress unavailable"
	default:
		streak := "no streak yet"
		if h.dash.streak > 0 {
			streak = fmt.Sprintf("🔥 %d day streak", h.dash.streak)
			if tier := stats.StreakTier(h.dash.streak); tier != stats.TierNone {
				streak += " (" + string(tier) + ")"
			}
		}
		status = fmt.Sprintf("%s   ·   %d countries due", streak, h.dash.due)
	}

	sections := []string{
		renderBanner(cw, compact),
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.Accent).Render(status),
		theme.Card.Width(cw).Render(strings.TrimRight(h.menu.View(), "\n")),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
