package stats

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/quiz"
)

// Cell renders one guess for the share grid.
func Cell(g quiz.PromptGuess) string {
	switch g.Status {
	case quiz.GuessCompleted:
		if g.AttemptCount <= 1 {
			return "🟩"
		}
		return "🟨"
	case quiz.GuessFailed:
		return "🟥"
	case quiz.GuessPrompted:
		return "⬜"
	default:
		return "⬛"
	}
}

// ShareText renders a finished daily challenge as a spoiler-free grid:
// one row per country, one cell per prompt type.
func ShareText(s quiz.State, date string) string {
	var b strings.Builder
	entry := DailyEntry(s, date)
	fmt.Fprintf(&b, "GeoQuiz daily %s  %d/%d  skill %.0f%%\n", date, entry.Score, len(s.Quiz.History), entry.SkillScore*100)
	for _, h := range s.Quiz.History {
		inPlay := inPlayFor(s, h)
		for _, t := range countries.AllPromptTypes {
			g := h.Guesses[t]
			if !slices.Contains(inPlay, t) {
				g = quiz.PromptGuess{}
			}
			b.WriteString(Cell(g))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
