package play

import (
	"slices"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/rng"
	"github.com/abhisek/geoquiz/internal/ui/components"
)

const choiceCount = 4

// answeredByChoice reports whether t is answered from a list. Names are
// typed.
func answeredByChoice(t quiz.PromptType) bool {
	return t == countries.PromptFlag || t == countries.PromptLocation
}

// choiceOption is how c appears as an answer for t.
func choiceOption(c countries.Country, t quiz.PromptType) components.ChoiceOption {
	if t == countries.PromptFlag {
		return components.ChoiceOption{Label: flagEmoji(c.FlagCode), Value: c.FlagCode}
	}
	return components.ChoiceOption{Label: "📍 " + formatLocation(c.Location), Value: c.Code}
}

// buildChoices returns the right answer for t plus up to three others
// drawn from pool, in shuffled order. Options never repeat a label.
func buildChoices(c countries.Country, t quiz.PromptType, pool []countries.Country, seed int64) []components.ChoiceOption {
	right := choiceOption(c, t)
	seen := map[string]bool{right.Label: true, right.Value: true}

	var others []components.ChoiceOption
	for _, o := range pool {
		if o.Code == c.Code || !o.HasPrompt(t) {
			continue
		}
		opt := choiceOption(o, t)
		if opt.Value == "" || seen[opt.Label] || seen[opt.Value] {
			continue
		}
		seen[opt.Label], seen[opt.Value] = true, true
		others = append(others, opt)
	}
	others = rng.Shuffle(others, seed)
	others = others[:min(len(others), choiceCount-1)]
	return rng.Shuffle(append(others, right), seed+1)
}

// choiceSeed keeps daily challenge options identical for every player.
func (s *PlayScreen) choiceSeed(t quiz.PromptType) int64 {
	idx := int64(s.state.Quiz.Prompt.QuizDataIndex)*10 + int64(slices.Index(countries.AllPromptTypes, t))
	if s.cfg.Mode == quiz.ModeDailyChallenge {
		return rng.DailySeed(s.now()) + idx
	}
	if s.engine.Seed != nil {
		return s.engine.Seed() + idx
	}
	return rng.WallClockSeed()
}

// currentChoices returns the options for the current target, building
// them on first use for this prompt.
func (s *PlayScreen) currentChoices() (components.MultiChoice, bool) {
	t := s.target
	if !answeredByChoice(t) {
		return components.MultiChoice{}, false
	}
	if m, ok := s.choices[t]; ok {
		return m, true
	}
	c, ok := s.state.CurrentCountry()
	if !ok {
		return components.MultiChoice{}, false
	}
	m := components.NewMultiChoice(buildChoices(c, t, s.env.Catalog.All(), s.choiceSeed(t)))
	s.choices[t] = m
	return m, true
}
