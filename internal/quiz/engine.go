package quiz

import (
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/rng"
)

// Engine holds the collaborators of the reducer and decision functions:
// a logger for guard violations, a clock for daily seeds and a seed
// source for non-deterministic choices.
type Engine struct {
	Logger *slog.Logger
	Now    func() time.Time
	Seed   func() int64
}

// NewEngine returns an engine on the wall clock. A nil logger discards.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{Logger: logger, Now: time.Now, Seed: rng.WallClockSeed}
}

func (e *Engine) log() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) seed() int64 {
	if e.Seed == nil {
		return rng.WallClockSeed()
	}
	return e.Seed()
}

// Location is the value shown for a location prompt.
type Location struct {
	Code string  `json:"code"`
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// CheckSubmission compares value exactly with the field asked for by t.
func CheckSubmission(c countries.Country, t PromptType, value string) bool {
	switch t {
	case countries.PromptFlag:
		return value == c.FlagCode
	case countries.PromptName:
		return value == c.Name
	case countries.PromptLocation:
		return value == c.Code
	}
	return false
}

// CheckPromptCompletion reports whether no guess is left incomplete.
func CheckPromptCompletion(s State) bool {
	for _, t := range countries.AllPromptTypes {
		switch s.Quiz.Prompt.Guesses[t].Status {
		case GuessCompleted, GuessFailed, GuessPrompted, GuessNone:
		default:
			return false
		}
	}
	return true
}

// CheckQuizCompletion reports whether the prompt index has passed the end
// of the quiz data. Empty quiz data is never complete.
func CheckQuizCompletion(s State) bool {
	if len(s.QuizData) == 0 {
		return false
	}
	return s.Quiz.Prompt.QuizDataIndex >= len(s.QuizData)
}

// InPlayTypes returns the prompt types asked for c under cfg, in
// canonical order.
func InPlayTypes(cfg Config, c countries.Country) []PromptType {
	var out []PromptType
	for _, t := range countries.AllPromptTypes {
		if !c.HasPrompt(t) {
			continue
		}
		if restrictsTypes(cfg) && !slices.Contains(cfg.SelectedPromptTypes, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// restrictsTypes reports whether the player's type selection applies.
func restrictsTypes(cfg Config) bool {
	switch cfg.GameMode {
	case ModeQuiz:
		return true
	case ModeSandbox:
		return len(cfg.SelectedPromptTypes) > 0
	}
	return false
}

// SelectPromptType picks the type to show for the current country. Daily
// challenges seed the choice from the date and question index so every
// player sees the same prompt. Returns false when nothing can be asked.
func (e *Engine) SelectPromptType(s State) (PromptType, bool) {
	c, ok := s.CurrentCountry()
	if !ok {
		e.log().Error("select prompt type: quiz data index out of range",
			"index", s.Quiz.Prompt.QuizDataIndex, "len", len(s.QuizData))
		return "", false
	}
	pool := InPlayTypes(s.Config, c)
	if len(pool) == 0 {
		e.log().Error("select prompt type: empty prompt pool", "country", c.Code, "mode", s.Config.GameMode)
		return "", false
	}

	var seed int64
	if s.Config.GameMode == ModeDailyChallenge {
		seed = rng.DailySeed(e.now()) + int64(s.Quiz.Prompt.QuizDataIndex)*1000
	} else {
		seed = e.seed()
	}
	return rng.Shuffle(pool, seed)[0], true
}

// DerivePromptValue returns what the player is shown for t: a Location,
// the display name, or the flag code. Unknown types yield nil.
func (e *Engine) DerivePromptValue(c countries.Country, t PromptType) any {
	switch t {
	case countries.PromptLocation:
		return Location{Code: c.Code, Lat: c.Location.Lat, Long: c.Location.Long}
	case countries.PromptName:
		return c.Name
	case countries.PromptFlag:
		return c.FlagCode
	}
	e.log().Error("derive prompt value: unknown prompt type", "type", t)
	return nil
}

// CanSubmit reports whether an answer for t would be accepted.
func CanSubmit(s State, t PromptType) bool {
	if s.Quiz.Status != StatusActive || !s.Quiz.Prompt.Open() {
		return false
	}
	if _, ok := s.CurrentCountry(); !ok {
		return false
	}
	g, ok := s.Quiz.Prompt.Guesses[t]
	if !ok || g.Status == GuessNone || g.Status.Final() {
		return false
	}
	if s.Config.GameMode == ModeDailyChallenge && g.AttemptCount >= MaxDailyAttempts {
		return false
	}
	return true
}

// CanGiveUp reports whether the open question still has an unanswered
// type in play.
func CanGiveUp(s State) bool {
	if s.Quiz.Status != StatusActive || !s.Quiz.Prompt.Open() {
		return false
	}
	for _, g := range s.Quiz.Prompt.Guesses {
		if g.Status == GuessIncomplete || g.Status == GuessPrompted {
			return true
		}
	}
	return false
}

// Successful reports whether every answered type in g was completed: all
// guesses that are in play and not the prompted one.
func Successful(g Guesses) bool {
	answered := false
	for _, t := range countries.AllPromptTypes {
		switch g[t].Status {
		case GuessCompleted:
			answered = true
		case GuessIncomplete, GuessFailed:
			return false
		}
	}
	return answered
}
