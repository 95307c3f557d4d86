// Package app is the root Bubble Tea model: a screen router framed by a
// header and a footer.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/stats"
	"github.com/abhisek/geoquiz/internal/ui/layout"
)

type streakMsg int

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    screen.Env
	router *router.Router
	inits  []tea.Cmd
	streak int
	width  int
	height int
}

// newAppModel stacks screens bottom first.
func newAppModel(env screen.Env, root screen.Screen, more ...screen.Screen) AppModel {
	m := AppModel{env: env, router: router.New(root)}
	m.inits = append(m.inits, root.Init())
	for _, s := range more {
		m.inits = append(m.inits, m.router.Push(s))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(append(m.inits, m.loadStreak())...)
}

func (m AppModel) loadStreak() tea.Cmd {
	env := m.env
	return func() tea.Msg {
		p, err := env.Progress.LoadProgress(context.Background())
		if err != nil {
			env.Logger.Warn("load streak", "err", err)
			return nil
		}
		return streakMsg(stats.CurrentStreak(p.DailyChallenge.Streak, env.Today()))
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case streakMsg:
		m.streak = int(msg)
		return m, nil

	case router.PoppedMsg:
		return m, tea.Batch(m.router.Update(msg), m.loadStreak())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.streak, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the program with root as the bottom screen and more pushed
// on top of it. Every screen is closed on exit.
func Run(env screen.Env, root screen.Screen, more ...screen.Screen) error {
	model := newAppModel(env, root, more...)
	p := tea.NewProgram(model)
	_, err := p.Run()
	model.router.CloseAll()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
