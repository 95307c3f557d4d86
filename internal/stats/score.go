// Package stats turns finished quiz runs into scores, daily entries,
// streaks and shareable summaries.
package stats

import (
	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/store"
)

// SkillScore is 1/guesses for a type answered correctly after guesses
// attempts, bounded to (0,1]. Zero or fewer guesses score 0.
func SkillScore(guesses int) float64 {
	if guesses <= 0 {
		return 0
	}
	return 1 / float64(guesses)
}

// scoredTypes returns the types that count towards an entry's score: the
// in-play types other than the prompted one, or the prompted type alone
// when it was the only one in play.
func scoredTypes(entry quiz.HistoryEntry, inPlay []quiz.PromptType) []quiz.PromptType {
	var out []quiz.PromptType
	var prompted quiz.PromptType
	for _, t := range inPlay {
		if entry.Guesses[t].Status == quiz.GuessPrompted {
			prompted = t
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 && prompted != "" {
		out = append(out, prompted)
	}
	return out
}

// EntrySkill averages SkillScore over the scored types of entry. Failed or
// unanswered types count as 0.
func EntrySkill(entry quiz.HistoryEntry, inPlay []quiz.PromptType) float64 {
	types := scoredTypes(entry, inPlay)
	if len(types) == 0 {
		return 0
	}
	var sum float64
	for _, t := range types {
		g := entry.Guesses[t]
		if g.Status == quiz.GuessCompleted {
			sum += SkillScore(g.AttemptCount)
		}
	}
	return sum / float64(len(types))
}

// inPlayFor resolves the types that were asked for entry.
func inPlayFor(s quiz.State, entry quiz.HistoryEntry) []quiz.PromptType {
	if entry.QuizDataIndex >= 0 && entry.QuizDataIndex < len(s.QuizData) {
		return quiz.InPlayTypes(s.Config, s.QuizData[entry.QuizDataIndex])
	}
	return countries.AllPromptTypes
}

// DailyEntry converts a finished run into the persisted daily record:
// SkillScore is the mean entry skill and Score counts successful entries.
func DailyEntry(s quiz.State, date string) store.DailyEntry {
	out := store.DailyEntry{Date: date}
	if len(s.Quiz.History) == 0 {
		return out
	}
	var sum float64
	for _, h := range s.Quiz.History {
		sum += EntrySkill(h, inPlayFor(s, h))
		if h.Successful {
			out.Score++
		}
	}
	out.SkillScore = sum / float64(len(s.Quiz.History))
	return out
}

// TypeResult aggregates one prompt type across a run.
type TypeResult struct {
	Type      quiz.PromptType
	Asked     int
	Completed int
	Attempts  int
}

// Summary is shown when a run ends.
type Summary struct {
	Total      int
	Successful int
	Accuracy   float64
	SkillScore float64
	Types      []TypeResult
}

// BuildSummary summarizes the history of s.
func BuildSummary(s quiz.State) Summary {
	var sum Summary
	byType := make(map[quiz.PromptType]*TypeResult)
	for _, t := range countries.AllPromptTypes {
		byType[t] = &TypeResult{Type: t}
	}

	var skill float64
	for _, h := range s.Quiz.History {
		sum.Total++
		if h.Successful {
			sum.Successful++
		}
		inPlay := inPlayFor(s, h)
		skill += EntrySkill(h, inPlay)
		for _, t := range scoredTypes(h, inPlay) {
			r := byType[t]
			r.Asked++
			r.Attempts += h.Guesses[t].AttemptCount
			if h.Guesses[t].Status == quiz.GuessCompleted {
				r.Completed++
			}
		}
	}
	if sum.Total > 0 {
		sum.Accuracy = float64(sum.Successful) / float64(sum.Total)
		sum.SkillScore = skill / float64(sum.Total)
	}
	for _, t := range countries.AllPromptTypes {
		if byType[t].Asked > 0 {
			sum.Types = append(sum.Types, *byType[t])
		}
	}
	return sum
}
