// Package summary shows the results of a finished run.
package summary

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/stats"
	"github.com/abhisek/geoquiz/internal/store"
	"github.com/abhisek/geoquiz/internal/ui/layout"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// SummaryScreen displays the summary of a completed run.
type SummaryScreen struct {
	env     screen.Env
	state   quiz.State
	summary stats.Summary
	share   string
	status  string
}

var (
	_ screen.Screen          = (*SummaryScreen)(nil)
	_ screen.KeyHintProvider = (*SummaryScreen)(nil)
)

func New(env screen.Env, st quiz.State) *SummaryScreen {
	s := &SummaryScreen{env: env, state: st, summary: stats.BuildSummary(st)}
	if st.Config.GameMode == quiz.ModeDailyChallenge {
		s.share = stats.ShareText(st, env.Today().Format(store.DateLayout))
	}
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	keys := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.share != "" {
		keys = append(keys, layout.KeyHint{Key: "C", Description: "Copy result"})
	}
	return keys
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "c":
		if s.share == "" {
			return s, nil
		}
		if err := copyToClipboard(s.share); err != nil {
			s.env.Logger.Warn("copy share text", "err", err)
			s.status = "Could not reach the clipboard."
		} else {
			s.status = "Copied!"
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), headline(sum)))
	b.WriteString("\n\n")

	line := fmt.Sprintf("Countries: %d        Correct: %d        Accuracy: %.0f%%        Skill: %.0f%%",
		sum.Total, sum.Successful, sum.Accuracy*100, sum.SkillScore*100)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), line))
	b.WriteString("\n\n")

	if len(sum.Types) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 50)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("By prompt type")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		var rows []string
		for _, r := range sum.Types {
			row := fmt.Sprintf("%-10s %d/%d correct   %d attempts", r.Type, r.Completed, r.Asked, r.Attempts)
			style := lipgloss.NewStyle().Foreground(theme.Text)
			if r.Completed == r.Asked {
				style = style.Foreground(theme.Success)
			}
			rows = append(rows, style.Render(row))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(rows, "\n")))
		b.WriteString("\n\n")
	}

	if s.share != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(s.share)))
		b.WriteString("\n")
	}
	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(center(theme.Hint, s.status))
	}
	return b.String()
}

func headline(sum stats.Summary) string {
	switch {
	case sum.Total == 0:
		return "Quiz finished"
	case sum.Successful == sum.Total:
		return "Perfect round!"
	case sum.Accuracy >= 0.5:
		return "Nice work!"
	default:
		return "Keep exploring!"
	}
}
