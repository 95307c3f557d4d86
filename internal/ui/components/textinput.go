package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// AnswerInput is a text field that completes country names. Tab accepts
// the current suggestion.
type AnswerInput struct {
	Model  textinput.Model
	marked bool
	ok     bool
}

func NewAnswerInput(placeholder string, suggestions []string, width int) AnswerInput {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	ti.ShowSuggestions = true
	ti.SetSuggestions(suggestions)
	if width > 0 {
		ti.SetWidth(width)
	}
	ti.Focus()
	return AnswerInput{Model: ti}
}

func (a AnswerInput) Init() tea.Cmd {
	return a.Model.Focus()
}

func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	if _, typing := msg.(tea.KeyMsg); typing {
		a.marked = false
	}
	return a, cmd
}

func (a AnswerInput) View() string {
	v := a.Model.View()
	if !a.marked {
		return v
	}
	if a.ok {
		return v + " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	}
	return v + " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
}

func (a AnswerInput) Value() string { return a.Model.Value() }

// Mark clears the field and shows whether the last answer was right.
func (a *AnswerInput) Mark(ok bool) {
	a.Model.Reset()
	a.marked, a.ok = true, ok
}
