package components

import (
	"fmt"

	"charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// QuizProgress shows "n/total" beside a bar.
type QuizProgress struct {
	bar   progress.Model
	Done  int
	Total int
}

func NewQuizProgress(width int) QuizProgress {
	return QuizProgress{
		bar: progress.New(progress.WithWidth(width), progress.WithDefaultBlend(), progress.WithoutPercentage()),
	}
}

func (p QuizProgress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

func (p QuizProgress) View() string {
	count := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %d/%d", p.Done, p.Total))
	return p.bar.ViewAs(p.Percent()) + count
}
