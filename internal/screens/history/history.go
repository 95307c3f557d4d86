// Package history shows saved daily challenges and answer statistics.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/ui/layout"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

type reportLoadedMsg struct {
	Report Report
	Err    error
}

type tab int

const (
	tabDaily tab = iota
	tabStats
	tabSessions
)

var tabNames = []string{"Daily", "Stats", "Sessions"}

// HistoryScreen displays past daily challenges and answer statistics.
type HistoryScreen struct {
	env    screen.Env
	report Report
	tab    tab
	offset int
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(env screen.Env) *HistoryScreen {
	return &HistoryScreen{env: env}
}

func (s *HistoryScreen) Init() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		rep, err := LoadReport(context.Background(), env.Progress, env.Events, env.Today())
		return reportLoadedMsg{Report: rep, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Switch tab"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.report = msg.Report
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			s.tab = (s.tab + tab(len(tabNames)) - 1) % tab(len(tabNames))
			s.offset = 0
		case "right", "l", "tab":
			s.tab = (s.tab + 1) % tab(len(tabNames))
			s.offset = 0
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.report.Daily)-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}
	if s.errMsg != "" {
		return center(lipgloss.NewStyle().Foreground(theme.Error), "\n\nError: "+s.errMsg)
	}
	if !s.loaded {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n  Loading history...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderTabs()))
	b.WriteString("\n\n")

	var body string
	switch s.tab {
	case tabDaily:
		body = s.renderDaily(height - 6)
	case tabStats:
		body = s.renderStats()
	case tabSessions:
		body = s.renderSessions()
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
	return b.String()
}

func (s *HistoryScreen) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == s.tab {
			parts[i] = theme.Selected.Render("[" + name + "]")
		} else {
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(" " + name + " ")
		}
	}
	return strings.Join(parts, "  ")
}

func dim(text string) string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(text)
}

func (s *HistoryScreen) renderDaily(rows int) string {
	rep := s.report
	if len(rep.Daily) == 0 {
		return dim("No daily challenges yet. Play today's!")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("🔥 Current streak: %d", rep.Streak)))
	b.WriteString("\n")
	b.WriteString(dim(fmt.Sprintf("Best: %d correct on %s", rep.Best.Score, rep.Best.Date)))
	b.WriteString("\n\n")

	end := len(rep.Daily)
	if rows > 0 && end-s.offset > rows {
		end = s.offset + rows
	}
	for _, e := range rep.Daily[s.offset:end] {
		line := fmt.Sprintf("%s   %d correct   skill %3.0f%%", e.Date, e.Score, e.SkillScore*100)
		b.WriteString(theme.Body.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *HistoryScreen) renderStats() string {
	rep := s.report
	if s.env.Events == nil {
		return dim("Statistics are not recorded in this session.")
	}
	if len(rep.Types) == 0 {
		return dim("No answers recorded yet.")
	}

	var b strings.Builder
	for _, t := range rep.Types {
		var pct float64
		if t.Total > 0 {
			pct = float64(t.Correct) / float64(t.Total) * 100
		}
		b.WriteString(theme.Body.Render(fmt.Sprintf("%-10s %4d answers   %3.0f%% correct", t.PromptType, t.Total, pct)))
		b.WriteString("\n")
	}
	if len(rep.Missed) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Most missed"))
		b.WriteString("\n")
		for _, m := range rep.Missed {
			name := m.CountryCode
			if s.env.Catalog != nil {
				if c, ok := s.env.Catalog.ByCode(m.CountryCode); ok {
					name = c.Name
				}
			}
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render(fmt.Sprintf("  %-24s %d", name, m.Misses)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *HistoryScreen) renderSessions() string {
	if len(s.report.Sessions) == 0 {
		return dim("No finished sessions yet.")
	}
	var b strings.Builder
	for _, e := range s.report.Sessions {
		line := fmt.Sprintf("%s  %-15s %d/%d", e.Timestamp.Local().Format("Jan 02 15:04"), e.Mode, e.Successful, e.Prompts)
		b.WriteString(theme.Body.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
