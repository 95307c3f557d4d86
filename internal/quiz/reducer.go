package quiz

import (
	"slices"
	"strings"

	"github.com/abhisek/geoquiz/internal/countries"
)

// Reduce applies a to s and returns the next state. s is never modified.
// Actions whose guards fail are logged and leave the state unchanged.
func (e *Engine) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetQuizSet:
		return e.setQuizSet(s, a)
	case SetSelectedPromptTypes:
		return e.setSelectedPromptTypes(s, a)
	case SetGameMode:
		return e.setGameMode(s, a)
	case QuizDataLoaded:
		return e.quizDataLoaded(s, a)
	case StartQuiz:
		return e.startQuiz(s)
	case PromptGenerated:
		return e.promptGenerated(s)
	case AnswerSubmitted:
		return e.answerSubmitted(s, a)
	case GiveUp:
		return e.giveUp(s)
	case PromptFinished:
		return e.promptFinished(s)
	case ReviewCompleted:
		return e.reviewCompleted(s)
	case ManualReviewInitiated:
		return e.manualReview(s, a)
	case QuizCompleted:
		return e.quizCompleted(s)
	case SandboxSelect:
		return e.sandboxSelect(s, a)
	case ResetQuiz:
		return e.reset(s)
	case nil:
		e.log().Error("reduce: nil action")
		return s
	default:
		e.log().Error("reduce: unknown action", "action", a.Name())
		return s
	}
}

func (e *Engine) reject(s State, a Action, reason string, args ...any) State {
	e.log().Warn(a.Name()+" ignored: "+reason, append(args, "status", s.Quiz.Status)...)
	return s
}

// graded rejects actions that score a run when the session is a sandbox.
func (e *Engine) graded(s State, a Action) bool {
	if s.Config.GameMode == ModeSandbox {
		e.reject(s, a, "sandbox runs are not graded")
		return false
	}
	return true
}

func (e *Engine) configurable(s State, a Action) bool {
	if s.Quiz.Status != StatusNotStarted {
		e.reject(s, a, "quiz already started")
		return false
	}
	return true
}

func (e *Engine) setQuizSet(s State, a SetQuizSet) State {
	if !e.configurable(s, a) {
		return s
	}
	next := s.clone()
	next.Config.QuizSet = a.QuizSet
	next.DataVersion++
	return next
}

func (e *Engine) setSelectedPromptTypes(s State, a SetSelectedPromptTypes) State {
	if !e.configurable(s, a) {
		return s
	}
	types := make([]PromptType, 0, len(a.Types))
	for _, t := range countries.AllPromptTypes {
		if slices.Contains(a.Types, t) {
			types = append(types, t)
		}
	}
	for _, t := range a.Types {
		if !t.Valid() {
			e.log().Warn("SET_SELECTED_PROMPT_TYPES: dropping unknown prompt type", "type", t)
		}
	}
	next := s.clone()
	next.Config.SelectedPromptTypes = types
	next.DataVersion++
	return next
}

func (e *Engine) setGameMode(s State, a SetGameMode) State {
	if !e.configurable(s, a) {
		return s
	}
	if !a.Mode.Valid() {
		return e.reject(s, a, "unknown game mode", "mode", a.Mode)
	}
	next := s.clone()
	next.Config.GameMode = a.Mode
	next.Config.QuizSet = a.Mode.DefaultQuizSet()
	next.DataVersion++
	return next
}

func (e *Engine) quizDataLoaded(s State, a QuizDataLoaded) State {
	if a.Version != s.DataVersion {
		return e.reject(s, a, "stale quiz data", "version", a.Version, "current", s.DataVersion)
	}
	if s.Quiz.Status != StatusNotStarted {
		return e.reject(s, a, "quiz data is fixed while a quiz runs")
	}
	next := s.clone()
	next.LoadedVersion = a.Version
	next.QuizData = slices.Clone(a.Data)
	if next.QuizData == nil {
		next.QuizData = []countries.Country{}
	}
	return next
}

func (e *Engine) startQuiz(s State) State {
	a := StartQuiz{}
	if s.Quiz.Status != StatusNotStarted {
		return e.reject(s, a, "quiz already started")
	}
	if len(s.QuizData) == 0 {
		return e.reject(s, a, "no quiz data")
	}
	if s.Config.GameMode == ModeQuiz && len(s.Config.SelectedPromptTypes) == 0 {
		return e.reject(s, a, "no prompt types selected")
	}
	next := s.clone()
	next.Quiz = NewRun()
	next.Quiz.Status = StatusActive
	return next
}

func (e *Engine) promptGenerated(s State) State {
	a := PromptGenerated{}
	if !e.graded(s, a) {
		return s
	}
	if s.Quiz.Status != StatusActive {
		return e.reject(s, a, "quiz not active")
	}
	if s.Quiz.Prompt.Type != "" {
		return e.reject(s, a, "prompt already open")
	}
	if s.Quiz.ReviewType != ReviewNone {
		return e.reject(s, a, "review in progress")
	}
	c, ok := s.CurrentCountry()
	if !ok {
		return e.reject(s, a, "quiz data index out of range", "index", s.Quiz.Prompt.QuizDataIndex)
	}
	t, ok := e.SelectPromptType(s)
	if !ok {
		return s
	}

	guesses := NewGuesses()
	for _, pt := range InPlayTypes(s.Config, c) {
		g := guesses[pt]
		g.Status = GuessIncomplete
		guesses[pt] = g
	}
	g := guesses[t]
	g.Status = GuessPrompted
	guesses[t] = g

	next := s.clone()
	next.Quiz.Prompt = Prompt{
		Status:        PromptInProgress,
		Type:          t,
		QuizDataIndex: s.Quiz.Prompt.QuizDataIndex,
		Guesses:       guesses,
	}
	return next
}

func (e *Engine) answerSubmitted(s State, a AnswerSubmitted) State {
	if !e.graded(s, a) {
		return s
	}
	if s.Quiz.Status != StatusActive {
		return e.reject(s, a, "quiz not active")
	}
	if !s.Quiz.Prompt.Open() {
		return e.reject(s, a, "no open prompt")
	}
	c, ok := s.CurrentCountry()
	if !ok {
		return e.reject(s, a, "quiz data index out of range", "index", s.Quiz.Prompt.QuizDataIndex)
	}
	g, ok := s.Quiz.Prompt.Guesses[a.Type]
	if !ok || !a.Type.Valid() {
		return e.reject(s, a, "unknown prompt type", "type", a.Type)
	}
	if g.Status == GuessNone {
		return e.reject(s, a, "prompt type not in play", "type", a.Type)
	}
	if g.Status.Final() {
		return e.reject(s, a, "prompt type already finalized", "type", a.Type, "guess", g.Status)
	}
	mode := s.Config.GameMode
	if mode == ModeDailyChallenge && g.AttemptCount >= MaxDailyAttempts {
		return e.reject(s, a, "daily attempt limit reached", "type", a.Type)
	}

	g.Attempts = append(slices.Clone(g.Attempts), a.Value)
	g.AttemptCount++
	switch {
	case CheckSubmission(c, a.Type, a.Value):
		g.Status = GuessCompleted
	case mode == ModeLearning:
		g.Status = GuessFailed
	case mode == ModeDailyChallenge && g.AttemptCount >= MaxDailyAttempts:
		g.Status = GuessFailed
	default:
		g.Status = GuessIncomplete
	}

	next := s.clone()
	next.Quiz.Prompt.Guesses[a.Type] = g
	return next
}

func (e *Engine) giveUp(s State) State {
	a := GiveUp{}
	if !e.graded(s, a) {
		return s
	}
	if s.Quiz.Status != StatusActive || !s.Quiz.Prompt.Open() {
		return e.reject(s, a, "no open prompt")
	}
	next := s.clone()
	for t, g := range next.Quiz.Prompt.Guesses {
		if g.Status == GuessIncomplete || g.Status == GuessNone {
			g.Status = GuessFailed
			next.Quiz.Prompt.Guesses[t] = g
		}
	}
	return next
}

func (e *Engine) promptFinished(s State) State {
	a := PromptFinished{}
	if !e.graded(s, a) {
		return s
	}
	if s.Quiz.Status != StatusActive || !s.Quiz.Prompt.Open() {
		return e.reject(s, a, "no open prompt")
	}
	c, ok := s.CurrentCountry()
	if !ok {
		return e.reject(s, a, "quiz data index out of range", "index", s.Quiz.Prompt.QuizDataIndex)
	}
	if !CheckPromptCompletion(s) {
		return e.reject(s, a, "prompt not complete")
	}

	guesses := s.Quiz.Prompt.Guesses.Clone()
	entry := HistoryEntry{
		QuizDataIndex: s.Quiz.Prompt.QuizDataIndex,
		CountryCode:   c.Code,
		Successful:    Successful(guesses),
	}
	for t, g := range guesses {
		if g.Status == GuessNone {
			g.Status = GuessFailed
			guesses[t] = g
		}
	}
	entry.Guesses = guesses

	next := s.clone()
	next.Quiz.History = append(next.Quiz.History, entry)
	next.Quiz.Prompt = Prompt{
		QuizDataIndex: s.Quiz.Prompt.QuizDataIndex + 1,
		Guesses:       NewGuesses(),
	}
	idx := len(next.Quiz.History) - 1
	next.Quiz.Status = StatusReviewing
	next.Quiz.ReviewType = ReviewAuto
	next.Quiz.ReviewIndex = &idx
	return next
}

func (e *Engine) reviewCompleted(s State) State {
	a := ReviewCompleted{}
	switch {
	case s.Quiz.Status == StatusReviewing:
	case s.Quiz.ReviewType != ReviewNone && (s.Quiz.Status == StatusActive || s.Quiz.Status == StatusCompleted):
	default:
		return e.reject(s, a, "no review in progress")
	}
	next := s.clone()
	if next.Quiz.Status == StatusReviewing {
		next.Quiz.Status = StatusActive
	}
	next.Quiz.ReviewType = ReviewNone
	next.Quiz.ReviewIndex = nil
	return next
}

func (e *Engine) manualReview(s State, a ManualReviewInitiated) State {
	if s.Quiz.Status == StatusNotStarted {
		return e.reject(s, a, "quiz not started")
	}
	if a.Index < 0 || a.Index >= len(s.Quiz.History) {
		return e.reject(s, a, "history index out of range", "index", a.Index)
	}
	next := s.clone()
	idx := a.Index
	next.Quiz.ReviewType = ReviewHistory
	next.Quiz.ReviewIndex = &idx
	return next
}

func (e *Engine) quizCompleted(s State) State {
	a := QuizCompleted{}
	if !e.graded(s, a) {
		return s
	}
	if s.Quiz.Status != StatusActive && s.Quiz.Status != StatusReviewing {
		return e.reject(s, a, "quiz not running")
	}
	if !CheckQuizCompletion(s) {
		return e.reject(s, a, "questions remain", "index", s.Quiz.Prompt.QuizDataIndex, "len", len(s.QuizData))
	}
	next := s.clone()
	next.Quiz.Status = StatusCompleted
	next.Quiz.ReviewType = ReviewNone
	next.Quiz.ReviewIndex = nil
	next.Quiz.Prompt = Prompt{QuizDataIndex: s.Quiz.Prompt.QuizDataIndex, Guesses: NewGuesses()}
	return next
}

func (e *Engine) sandboxSelect(s State, a SandboxSelect) State {
	if s.Config.GameMode != ModeSandbox {
		return e.reject(s, a, "not in sandbox mode")
	}
	idx := -1
	for i, c := range s.QuizData {
		var field string
		switch a.Type {
		case countries.PromptLocation:
			field = c.Code
		case countries.PromptName:
			field = c.Name
		case countries.PromptFlag:
			field = c.FlagCode
		default:
			return e.reject(s, a, "unknown prompt type", "type", a.Type)
		}
		if strings.EqualFold(field, a.Value) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return e.reject(s, a, "no matching country", "value", a.Value)
	}
	next := s.clone()
	next.Quiz.Prompt.QuizDataIndex = idx
	if code := s.QuizData[idx].Code; !slices.Contains(next.Quiz.Explored, code) {
		next.Quiz.Explored = append(next.Quiz.Explored, code)
	}
	return next
}

// reset returns the initial state. DataVersion keeps increasing so loads
// started before the reset are dropped and the default data is fetched.
func (e *Engine) reset(s State) State {
	next := NewState()
	next.DataVersion = s.DataVersion + 1
	return next
}
