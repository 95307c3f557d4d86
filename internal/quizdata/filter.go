// Package quizdata derives the ordered list of countries a session asks
// about from the game mode, quiz set and prompt-type selection.
package quizdata

import (
	"io"
	"log/slog"
	"time"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/rng"
	"github.com/abhisek/geoquiz/internal/spacedrep"
	"github.com/abhisek/geoquiz/internal/store"
)

// DailyChallengeSize is the number of countries in a daily challenge.
const DailyChallengeSize = 5

// Filter selects quiz data from a catalog.
type Filter struct {
	Catalog *countries.Catalog
	Logger  *slog.Logger
	Now     func() time.Time
	Seed    func() int64
}

// NewFilter returns a filter on the wall clock.
func NewFilter(catalog *countries.Catalog, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Filter{Catalog: catalog, Logger: logger, Now: time.Now, Seed: rng.WallClockSeed}
}

func (f *Filter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

func (f *Filter) seed() int64 {
	if f.Seed == nil {
		return rng.WallClockSeed()
	}
	return f.Seed()
}

// Select returns the quiz data for one session. progress is only read in
// learning mode, where it is required. Failures are logged and yield an
// empty slice.
func (f *Filter) Select(mode quiz.GameMode, quizSet string, types []quiz.PromptType, progress *store.UserProgressData) []countries.Country {
	pool := eligible(f.Catalog.All())

	switch {
	case mode == quiz.ModeLearning:
		if progress == nil {
			f.Logger.Error("select quiz data: learning mode needs progress data")
			return []countries.Country{}
		}
		due := spacedrep.DueCountries(progress, f.now(), pool)
		out := make([]countries.Country, 0, len(due))
		for _, code := range due {
			if c, ok := f.Catalog.ByCode(code); ok {
				out = append(out, c)
			}
		}
		return rng.Shuffle(out, f.seed())

	case mode == quiz.ModeDailyChallenge || quizSet == countries.DailyChallengeSet:
		shuffled := rng.Shuffle(pool, rng.DailySeed(f.now()))
		if len(shuffled) > DailyChallengeSize {
			shuffled = shuffled[:DailyChallengeSize]
		}
		return shuffled

	default:
		if quizSet != countries.AllCountries {
			set, err := f.Catalog.CountriesInSet(quizSet)
			if err != nil {
				f.Logger.Error("select quiz data: quiz set lookup failed", "quiz_set", quizSet, "err", err)
				return []countries.Country{}
			}
			pool = eligible(set)
		}
		out := rng.Shuffle(pool, f.seed())
		if len(types) == 0 {
			return out
		}
		kept := out[:0]
		for _, c := range out {
			if c.PromptsIn(types) {
				kept = append(kept, c)
			}
		}
		return kept
	}
}

// eligible drops countries with nothing to ask.
func eligible(in []countries.Country) []countries.Country {
	out := make([]countries.Country, 0, len(in))
	for _, c := range in {
		if len(c.AvailablePrompts) > 0 {
			out = append(out, c)
		}
	}
	return out
}
