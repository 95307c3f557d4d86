package quiz

import "github.com/abhisek/geoquiz/internal/countries"

// Action is a dispatched intent. The set is closed; Reduce switches on the
// concrete type.
type Action interface {
	Name() string
}

type (
	// SetQuizSet selects a named quiz set, "all", or "" for none.
	SetQuizSet struct{ QuizSet string }

	// SetSelectedPromptTypes chooses the types asked in free-quiz mode.
	SetSelectedPromptTypes struct{ Types []PromptType }

	// SetGameMode switches mode and resets the quiz set to the mode default.
	SetGameMode struct{ Mode GameMode }

	// QuizDataLoaded delivers the result of a reload started for Version.
	QuizDataLoaded struct {
		Data    []countries.Country
		Version int64
	}

	StartQuiz       struct{}
	PromptGenerated struct{}

	// AnswerSubmitted is one answer for one prompt type.
	AnswerSubmitted struct {
		Type  PromptType
		Value string
	}

	GiveUp          struct{}
	PromptFinished  struct{}
	ReviewCompleted struct{}

	// ManualReviewInitiated inspects History[Index].
	ManualReviewInitiated struct{ Index int }

	QuizCompleted struct{}

	// SandboxSelect points the prompt at the country matching Value in the
	// field selected by Type.
	SandboxSelect struct {
		Type  PromptType
		Value string
	}

	ResetQuiz struct{}
)

func (SetQuizSet) Name() string             { return "SET_QUIZ_SET" }
func (SetSelectedPromptTypes) Name() string { return "SET_SELECTED_PROMPT_TYPES" }
func (SetGameMode) Name() string            { return "SET_GAME_MODE" }
func (QuizDataLoaded) Name() string         { return "QUIZ_DATA_LOADED" }
func (StartQuiz) Name() string              { return "START_QUIZ" }
func (PromptGenerated) Name() string        { return "PROMPT_GENERATED" }
func (AnswerSubmitted) Name() string        { return "ANSWER_SUBMITTED" }
func (GiveUp) Name() string                 { return "GIVE_UP" }
func (PromptFinished) Name() string         { return "PROMPT_FINISHED" }
func (ReviewCompleted) Name() string        { return "REVIEW_COMPLETED" }
func (ManualReviewInitiated) Name() string  { return "MANUAL_REVIEW_INITIATED" }
func (QuizCompleted) Name() string          { return "QUIZ_COMPLETED" }
func (SandboxSelect) Name() string          { return "SANDBOX_SELECT" }
func (ResetQuiz) Name() string              { return "RESET_QUIZ" }

// IsConfig reports whether a changes the session configuration.
func IsConfig(a Action) bool {
	switch a.(type) {
	case SetQuizSet, SetSelectedPromptTypes, SetGameMode:
		return true
	}
	return false
}
