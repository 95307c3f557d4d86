package components

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// ChoiceOption is one answer. Value is what gets submitted.
type ChoiceOption struct {
	Label string
	Value string
}

// MultiChoice is a multiple-choice selector. Nothing is selected until the
// player moves the cursor or presses an option's number.
type MultiChoice struct {
	Options     []ChoiceOption
	Selected    int
	Submitted   bool
	ChosenIndex int
	missed      []bool
}

func NewMultiChoice(options []ChoiceOption) MultiChoice {
	return MultiChoice{
		Options:     options,
		Selected:    -1,
		ChosenIndex: -1,
		missed:      make([]bool, len(options)),
	}
}

func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles navigation. Enter submits the selected option; a digit
// selects and submits in one step.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted || len(m.Options) == 0 {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := kmsg.String(); k {
	case "up", "k":
		m.Selected = max(m.Selected-1, 0)
	case "down", "j":
		m.Selected = min(m.Selected+1, len(m.Options)-1)
	case "enter":
		if m.Selected >= 0 {
			m.Submitted = true
			m.ChosenIndex = m.Selected
		}
	default:
		if len(k) == 1 && k[0] >= '1' && int(k[0]-'1') < len(m.Options) {
			m.Selected = int(k[0] - '1')
			m.Submitted = true
			m.ChosenIndex = m.Selected
		}
	}
	return m, nil
}

// Chosen returns the submitted option.
func (m MultiChoice) Chosen() (ChoiceOption, bool) {
	if !m.Submitted || m.ChosenIndex < 0 || m.ChosenIndex >= len(m.Options) {
		return ChoiceOption{}, false
	}
	return m.Options[m.ChosenIndex], true
}

// Retry reopens the selector after a wrong pick. The missed option stays
// marked.
func (m MultiChoice) Retry() MultiChoice {
	if m.Submitted && m.ChosenIndex >= 0 && m.ChosenIndex < len(m.missed) {
		m.missed = slices.Clone(m.missed)
		m.missed[m.ChosenIndex] = true
	}
	m.Submitted = false
	m.ChosenIndex = -1
	return m
}

func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt.Label)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Submitted && i == m.ChosenIndex:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		case i < len(m.missed) && m.missed[i]:
			style = lipgloss.NewStyle().Foreground(theme.Error).Strikethrough(true)
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
