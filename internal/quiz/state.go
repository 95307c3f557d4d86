// Package quiz is the quiz state machine: a pure reducer over State plus
// the decision functions it relies on. Side effects (timers, persistence)
// belong to the session package.
package quiz

import (
	"slices"

	"github.com/abhisek/geoquiz/internal/countries"
)

// PromptType is re-exported for callers that only deal with the quiz.
type PromptType = countries.PromptType

// GameMode selects how countries are chosen and answers are judged.
type GameMode string

const (
	ModeDailyChallenge GameMode = "dailyChallenge"
	ModeLearning       GameMode = "learning"
	ModeQuiz           GameMode = "quiz"
	ModeSandbox        GameMode = "sandbox"
)

// GameModes lists every mode in menu order.
var GameModes = []GameMode{ModeDailyChallenge, ModeLearning, ModeQuiz, ModeSandbox}

// Valid reports whether m is a known mode.
func (m GameMode) Valid() bool {
	return slices.Contains(GameModes, m)
}

// DefaultQuizSet returns the quiz set a mode starts with.
func (m GameMode) DefaultQuizSet() string {
	switch m {
	case ModeDailyChallenge:
		return countries.DailyChallengeSet
	case ModeQuiz, ModeSandbox:
		return countries.AllCountries
	default:
		return ""
	}
}

// GuessStatus is the state of one prompt type within a question. The zero
// value means the type is not in play.
type GuessStatus string

const (
	GuessNone       GuessStatus = ""
	GuessPrompted   GuessStatus = "prompted"
	GuessIncomplete GuessStatus = "incomplete"
	GuessCompleted  GuessStatus = "completed"
	GuessFailed     GuessStatus = "failed"
)

// Final reports whether no more submissions are accepted.
func (s GuessStatus) Final() bool {
	return s == GuessCompleted || s == GuessFailed
}

// RunStatus is the root state of a quiz run.
type RunStatus string

const (
	StatusNotStarted RunStatus = "not_started"
	StatusActive     RunStatus = "active"
	StatusReviewing  RunStatus = "reviewing"
	StatusCompleted  RunStatus = "completed"
)

// ReviewType says why the run is showing a past answer.
type ReviewType string

const (
	ReviewNone     ReviewType = ""
	ReviewAuto     ReviewType = "auto"
	ReviewHistory  ReviewType = "history"
	ReviewLearning ReviewType = "learning"
)

// PromptStatus is in_progress while a question is open.
type PromptStatus string

const (
	PromptIdle       PromptStatus = ""
	PromptInProgress PromptStatus = "in_progress"
)

// MaxDailyAttempts caps submissions per prompt type in daily challenges.
const MaxDailyAttempts = 5

// PromptGuess tracks answers for one prompt type.
type PromptGuess struct {
	Status       GuessStatus `json:"status"`
	AttemptCount int         `json:"attemptCount"`
	Attempts     []string    `json:"attempts"`
}

// Guesses holds one PromptGuess per prompt type.
type Guesses map[PromptType]PromptGuess

// NewGuesses returns guesses with every type not in play.
func NewGuesses() Guesses {
	g := make(Guesses, len(countries.AllPromptTypes))
	for _, t := range countries.AllPromptTypes {
		g[t] = PromptGuess{Attempts: []string{}}
	}
	return g
}

// Clone deep-copies g.
func (g Guesses) Clone() Guesses {
	out := make(Guesses, len(g))
	for t, pg := range g {
		pg.Attempts = slices.Clone(pg.Attempts)
		if pg.Attempts == nil {
			pg.Attempts = []string{}
		}
		out[t] = pg
	}
	return out
}

// Prompt is the question currently being asked.
type Prompt struct {
	Status        PromptStatus `json:"status"`
	Type          PromptType   `json:"type"`
	QuizDataIndex int          `json:"quizDataIndex"`
	Guesses       Guesses      `json:"guesses"`
}

// Open reports whether a question is in progress.
func (p Prompt) Open() bool {
	return p.Status == PromptInProgress && p.Type != ""
}

// HistoryEntry is a finished question. Entries are never modified.
type HistoryEntry struct {
	QuizDataIndex int     `json:"quizDataIndex"`
	CountryCode   string  `json:"countryCode"`
	Guesses       Guesses `json:"guesses"`
	// Successful is true when every answered type was completed.
	Successful bool `json:"successful"`
}

// Run is the root of the state machine.
type Run struct {
	Status      RunStatus      `json:"status"`
	ReviewType  ReviewType     `json:"reviewType"`
	ReviewIndex *int           `json:"reviewIndex"`
	Prompt      Prompt         `json:"prompt"`
	History     []HistoryEntry `json:"history"`
	// Explored lists the codes selected in sandbox mode, oldest first,
	// each once. Sandbox runs never add to History.
	Explored []string `json:"explored"`
}

// Config is the session configuration chosen before a run starts.
type Config struct {
	QuizSet             string       `json:"quizSet"`
	SelectedPromptTypes []PromptType `json:"selectedPromptTypes"`
	GameMode            GameMode     `json:"gameMode"`
}

// State is everything the reducer owns.
type State struct {
	Config   Config              `json:"config"`
	QuizData []countries.Country `json:"quizData"`
	// DataVersion increases whenever QuizData must be reloaded.
	DataVersion int64 `json:"dataVersion"`
	// LoadedVersion is the DataVersion QuizData was loaded for, -1 before
	// the first load.
	LoadedVersion int64 `json:"loadedVersion"`
	Quiz          Run   `json:"quiz"`
}

// DataReady reports whether QuizData matches the current configuration.
func (s State) DataReady() bool {
	return s.LoadedVersion == s.DataVersion
}

// NewRun returns a run that has not started.
func NewRun() Run {
	return Run{
		Status:  StatusNotStarted,
		Prompt:  Prompt{Guesses: NewGuesses()},
		History:  []HistoryEntry{},
		Explored: []string{},
	}
}

// NewState returns the initial state: free quiz over all countries with
// every prompt type selected.
func NewState() State {
	return State{
		Config: Config{
			QuizSet:             ModeQuiz.DefaultQuizSet(),
			SelectedPromptTypes: slices.Clone(countries.AllPromptTypes),
			GameMode:            ModeQuiz,
		},
		QuizData:      []countries.Country{},
		LoadedVersion: -1,
		Quiz:          NewRun(),
	}
}

// clone copies the parts of s that the reducer mutates.
func (s State) clone() State {
	out := s
	out.Config.SelectedPromptTypes = slices.Clone(s.Config.SelectedPromptTypes)
	out.Quiz.Prompt.Guesses = s.Quiz.Prompt.Guesses.Clone()
	out.Quiz.History = slices.Clone(s.Quiz.History)
	out.Quiz.Explored = slices.Clone(s.Quiz.Explored)
	if s.Quiz.ReviewIndex != nil {
		v := *s.Quiz.ReviewIndex
		out.Quiz.ReviewIndex = &v
	}
	return out
}

// CurrentCountry returns the country at the prompt's index.
func (s State) CurrentCountry() (countries.Country, bool) {
	i := s.Quiz.Prompt.QuizDataIndex
	if i < 0 || i >= len(s.QuizData) {
		return countries.Country{}, false
	}
	return s.QuizData[i], true
}

// LastHistory returns the most recent history entry.
func (s State) LastHistory() (HistoryEntry, bool) {
	if len(s.Quiz.History) == 0 {
		return HistoryEntry{}, false
	}
	return s.Quiz.History[len(s.Quiz.History)-1], true
}

// ReviewEntry returns the history entry under review.
func (s State) ReviewEntry() (HistoryEntry, bool) {
	if s.Quiz.ReviewIndex == nil {
		return HistoryEntry{}, false
	}
	i := *s.Quiz.ReviewIndex
	if i < 0 || i >= len(s.Quiz.History) {
		return HistoryEntry{}, false
	}
	return s.Quiz.History[i], true
}
