// Package setup lets the player pick a quiz set and the prompt types
// before a free quiz or sandbox session.
package setup

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/screens/play"
	"github.com/abhisek/geoquiz/internal/ui/components"
	"github.com/abhisek/geoquiz/internal/ui/layout"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

type focus int

const (
	focusSets focus = iota
	focusTypes
)

type SetupScreen struct {
	env   screen.Env
	mode  quiz.GameMode
	sets  components.Menu
	types components.Checklist
	focus focus
	err   string
}

var (
	_ screen.Screen          = (*SetupScreen)(nil)
	_ screen.KeyHintProvider = (*SetupScreen)(nil)
)

func New(env screen.Env, mode quiz.GameMode) *SetupScreen {
	s := &SetupScreen{env: env, mode: mode}

	names := []string{countries.AllCountries}
	for _, qs := range env.Catalog.QuizSets() {
		names = append(names, qs.Name)
	}
	items := make([]components.MenuItem, len(names))
	for i, n := range names {
		label := n
		if n == countries.AllCountries {
			label = "All countries"
		}
		items[i] = components.MenuItem{Label: label, Action: func() tea.Cmd { return s.start(n) }}
	}
	s.sets = components.NewMenu(items)

	labels := make([]string, len(countries.AllPromptTypes))
	checked := make([]bool, len(labels))
	for i, t := range countries.AllPromptTypes {
		labels[i] = string(t)
		checked[i] = mode == quiz.ModeQuiz
	}
	s.types = components.NewChecklist(labels, checked)
	return s
}

func (s *SetupScreen) start(set string) tea.Cmd {
	var types []quiz.PromptType
	for _, v := range s.types.Values() {
		types = append(types, quiz.PromptType(v))
	}
	if s.mode == quiz.ModeQuiz && len(types) == 0 {
		s.err = "pick at least one prompt type"
		return nil
	}
	cfg := play.Config{Mode: s.mode, QuizSet: set, Types: types}
	return func() tea.Msg { return router.PushScreenMsg{Screen: play.New(s.env, cfg)} }
}

func (s *SetupScreen) Init() tea.Cmd { return nil }

func (s *SetupScreen) Title() string {
	if s.mode == quiz.ModeSandbox {
		return "Sandbox"
	}
	return "New quiz"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Sets / types"},
		{Key: "Space", Description: "Toggle type"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	s.err = ""
	switch kmsg.String() {
	case "tab":
		s.focus = 1 - s.focus
		return s, nil
	case "enter":
		var cmd tea.Cmd
		s.sets, cmd = s.sets.Update(msg)
		return s, cmd
	}
	if s.focus == focusTypes {
		s.types = s.types.Update(msg)
		return s, nil
	}
	var cmd tea.Cmd
	s.sets, cmd = s.sets.Update(msg)
	return s, cmd
}

func (s *SetupScreen) View(width, height int) string {
	heading := func(text string, active bool) string {
		st := lipgloss.NewStyle().Foreground(theme.TextDim)
		if active {
			st = st.Foreground(theme.Primary).Bold(true)
		}
		return st.Render(text)
	}
	typesLabel := "Prompt types"
	if s.mode == quiz.ModeSandbox {
		typesLabel = "Prompt types (none = all)"
	}
	left := heading("Quiz set", s.focus == focusSets) + "\n\n" + strings.TrimRight(s.sets.View(), "\n")
	right := heading(typesLabel, s.focus == focusTypes) + "\n\n" + strings.TrimRight(s.types.View(), "\n")
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Card.Width(34).Render(left), "  ", theme.Card.Width(32).Render(right))
	if s.err != "" {
		body += "\n\n" + theme.Incorrect.Render(s.err)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
