package play

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

var typeLabels = map[quiz.PromptType]string{
	countries.PromptLocation: "Location",
	countries.PromptName:     "Name",
	countries.PromptFlag:     "Flag",
}

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

func (s *PlayScreen) View(width, height int) string {
	run := s.state.Quiz
	if run.Status == quiz.StatusNotStarted || run.Status == quiz.StatusCompleted {
		msg := s.notice
		if msg == "" {
			msg = "Preparing your quiz..."
		}
		return centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n\n"+msg)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	switch {
	case run.ReviewType != quiz.ReviewNone:
		b.WriteString(s.renderReview(width))
	case run.Prompt.Open():
		b.WriteString(s.renderPrompt(width))
	case s.cfg.Mode == quiz.ModeSandbox:
		b.WriteString(s.renderSandbox(width))
	}
	return b.String()
}

func (s *PlayScreen) renderInfoLine(width int) string {
	set := s.state.Config.QuizSet
	switch set {
	case countries.AllCountries:
		set = "All countries"
	case "":
		set = "Due for review"
	}
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  " + set)
	right := s.progress.View()
	if s.cfg.Mode == quiz.ModeSandbox {
		right = lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d explored", len(s.state.Quiz.Explored)))
	}
	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad <= 0 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

func (s *PlayScreen) renderPrompt(width int) string {
	c, ok := s.state.CurrentCountry()
	if !ok {
		return ""
	}
	p := s.state.Quiz.Prompt

	// Answering the prompted type itself: show the other facts as the clue.
	shown := []quiz.PromptType{p.Type}
	if s.target == p.Type {
		shown = clueTypes(c, p.Type)
	}
	var lines []string
	for _, t := range shown {
		lines = append(lines, s.promptValue(c, t))
	}
	if len(lines) == 0 {
		lines = []string{"?"}
	}

	var b strings.Builder
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "Which country is this?"))
	b.WriteString("\n\n")
	card := theme.Card.Render(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(strings.Join(lines, "\n")))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	var rows []string
	for _, t := range countries.AllPromptTypes {
		g := p.Guesses[t]
		if g.Status == quiz.GuessNone || g.Status == quiz.GuessPrompted {
			continue
		}
		rows = append(rows, s.renderGuessRow(t, g))
	}
	if len(rows) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(rows, "\n")))
		b.WriteString("\n\n")
	}

	if s.target != "" {
		label := lipgloss.NewStyle().Foreground(theme.Primary).Render(typeLabels[s.target] + ": ")
		if m, ok := s.choices[s.target]; ok {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, label+"\n"+m.View()))
		} else {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, label+s.input.View()))
		}
		b.WriteString("\n")
	}
	if hint := s.renderHint(width); hint != "" {
		b.WriteString("\n")
		b.WriteString(hint)
	}
	return b.String()
}

func (s *PlayScreen) renderGuessRow(t quiz.PromptType, g quiz.PromptGuess) string {
	marker := "  "
	if t == s.target {
		marker = "▸ "
	}
	status := lipgloss.NewStyle().Foreground(theme.GuessColor(string(g.Status))).Render(string(g.Status))
	line := fmt.Sprintf("%s%-9s %s", marker, typeLabels[t], status)
	if g.AttemptCount > 0 {
		tries := fmt.Sprintf("  %d/%d", g.AttemptCount, quiz.MaxDailyAttempts)
		if s.state.Config.GameMode != quiz.ModeDailyChallenge {
			tries = fmt.Sprintf("  %d tries", g.AttemptCount)
		}
		line += lipgloss.NewStyle().Foreground(theme.TextDim).Render(tries)
	}
	return line
}

func (s *PlayScreen) renderHint(width int) string {
	style := lipgloss.NewStyle().Width(min(width-8, 64)).Foreground(theme.Accent)
	switch {
	case s.hintPending:
		return centered(width, theme.Hint, "Thinking of a hint...")
	case s.hintErr != "":
		return centered(width, lipgloss.NewStyle().Foreground(theme.Error), s.hintErr)
	case s.hint != nil:
		text := "💡 " + s.hint.Text
		for _, f := range s.hint.Facts {
			text += "\n  • " + f
		}
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}
	return ""
}

func (s *PlayScreen) renderReview(width int) string {
	entry, ok := s.state.ReviewEntry()
	if !ok || entry.QuizDataIndex >= len(s.state.QuizData) {
		return ""
	}
	c := s.state.QuizData[entry.QuizDataIndex]

	var b strings.Builder
	if s.state.Quiz.ReviewType == quiz.ReviewHistory {
		b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			fmt.Sprintf("Reviewing question %d of %d", *s.state.Quiz.ReviewIndex+1, len(s.state.Quiz.History))))
		b.WriteString("\n\n")
	}
	if entry.Successful {
		b.WriteString(centered(width, theme.Correct, "Correct!"))
	} else {
		b.WriteString(centered(width, theme.Incorrect, "Not quite"))
	}
	b.WriteString("\n\n")

	answer := fmt.Sprintf("%s %s\n%s", flagEmoji(c.FlagCode), c.Name, formatLocation(c.Location))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(answer)))
	b.WriteString("\n\n")

	var rows []string
	for _, t := range countries.AllPromptTypes {
		g := entry.Guesses[t]
		if g.Status == quiz.GuessNone {
			continue
		}
		line := fmt.Sprintf("%-9s %s", typeLabels[t],
			lipgloss.NewStyle().Foreground(theme.GuessColor(string(g.Status))).Render(string(g.Status)))
		if len(g.Attempts) > 0 {
			line += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + strings.Join(g.Attempts, ", "))
		}
		rows = append(rows, line)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(rows, "\n")))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "Press any key to continue..."))
	return b.String()
}

func (s *PlayScreen) renderSandbox(width int) string {
	var b strings.Builder
	title := "Pick a country to explore"
	if len(s.state.Quiz.Explored) > 0 {
		if c, ok := s.state.CurrentCountry(); ok {
			var lines []string
			for _, t := range countries.AllPromptTypes {
				if c.HasPrompt(t) {
					lines = append(lines, s.promptValue(c, t))
				}
			}
			card := theme.Card.Render(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(strings.Join(lines, "\n")))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
			b.WriteString("\n\n")
			title = "Explore another country"
		}
	}
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true), title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Warning), s.notice))
	}
	return b.String()
}

// clueTypes are shown in place of t when t itself is the answer.
func clueTypes(c countries.Country, t quiz.PromptType) []quiz.PromptType {
	var out []quiz.PromptType
	for _, o := range countries.AllPromptTypes {
		if o == t || !c.HasPrompt(o) {
			continue
		}
		// Flag and location answers are clued by the name alone.
		if t != countries.PromptName && o != countries.PromptName {
			continue
		}
		out = append(out, o)
	}
	return out
}

// promptValue renders the value the engine derives for t.
func (s *PlayScreen) promptValue(c countries.Country, t quiz.PromptType) string {
	switch v := s.engine.DerivePromptValue(c, t).(type) {
	case quiz.Location:
		return "📍 " + formatLocation(countries.Location{Lat: v.Lat, Long: v.Long})
	case string:
		if t == countries.PromptFlag {
			return flagEmoji(v)
		}
		return v
	}
	return ""
}

func formatLocation(l countries.Location) string {
	ns, ew := "N", "E"
	if l.Lat < 0 {
		ns = "S"
	}
	if l.Long < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.2f°%s %.2f°%s", math.Abs(l.Lat), ns, math.Abs(l.Long), ew)
}

// flagEmoji turns a two-letter region code into regional indicator
// symbols. Other input is returned unchanged.
func flagEmoji(code string) string {
	code = strings.ToUpper(code)
	if len(code) != 2 {
		return code
	}
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return code
		}
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}
