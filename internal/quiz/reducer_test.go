package quiz

import (
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/geoquiz/internal/countries"
)

func loaded(e *Engine, s State, data ...countries.Country) State {
	return e.Reduce(s, QuizDataLoaded{Data: data, Version: s.DataVersion})
}

func started(t *testing.T, e *Engine, mode GameMode, types []PromptType, data ...countries.Country) State {
	t.Helper()
	s := NewState()
	s = e.Reduce(s, SetGameMode{Mode: mode})
	if types != nil {
		s = e.Reduce(s, SetSelectedPromptTypes{Types: types})
	}
	s = loaded(e, s, data...)
	s = e.Reduce(s, StartQuiz{})
	if s.Quiz.Status != StatusActive {
		t.Fatalf("status = %q after start, want active", s.Quiz.Status)
	}
	s = e.Reduce(s, PromptGenerated{})
	if !s.Quiz.Prompt.Open() {
		t.Fatal("expected an open prompt")
	}
	return s
}

func TestReduce_ConfigOnlyWhileNotStarted(t *testing.T) {
	e := fixedEngine(time.Now())
	s := started(t, e, ModeQuiz, []PromptType{countries.PromptName}, france)

	for _, a := range []Action{
		SetQuizSet{QuizSet: "Asia"},
		SetSelectedPromptTypes{Types: []PromptType{countries.PromptFlag}},
		SetGameMode{Mode: ModeLearning},
	} {
		next := e.Reduce(s, a)
		if !reflect.DeepEqual(next, s) {
			t.Errorf("%s changed state of an active quiz", a.Name())
		}
	}
}

func TestReduce_SetGameModeResetsQuizSet(t *testing.T) {
	e := fixedEngine(time.Now())
	s := NewState()
	s = e.Reduce(s, SetQuizSet{QuizSet: "Europe"})
	v := s.DataVersion

	tests := []struct {
		mode GameMode
		want string
	}{
		{ModeDailyChallenge, countries.DailyChallengeSet},
		{ModeLearning, ""},
		{ModeSandbox, countries.AllCountries},
		{ModeQuiz, countries.AllCountries},
	}
	for _, tt := range tests {
		s = e.Reduce(s, SetGameMode{Mode: tt.mode})
		if s.Config.QuizSet != tt.want {
			t.Errorf("%s: QuizSet = %q, want %q", tt.mode, s.Config.QuizSet, tt.want)
		}
		if s.DataVersion <= v {
			t.Errorf("%s: DataVersion not bumped", tt.mode)
		}
		v = s.DataVersion
	}

	before := s
	s = e.Reduce(s, SetGameMode{Mode: "arcade"})
	if !reflect.DeepEqual(s, before) {
		t.Error("unknown mode changed state")
	}
}

func TestReduce_SelectedTypesNormalized(t *testing.T) {
	e := fixedEngine(time.Now())
	s := e.Reduce(NewState(), SetSelectedPromptTypes{Types: []PromptType{"capital", countries.PromptFlag, countries.PromptName, countries.PromptFlag}})
	want := []PromptType{countries.PromptName, countries.PromptFlag}
	if !reflect.DeepEqual(s.Config.SelectedPromptTypes, want) {
		t.Errorf("SelectedPromptTypes = %v, want %v", s.Config.SelectedPromptTypes, want)
	}
}

func TestReduce_StaleQuizDataIgnored(t *testing.T) {
	e := fixedEngine(time.Now())
	s := NewState()
	old := s.DataVersion
	s = e.Reduce(s, SetQuizSet{QuizSet: "Europe"})
	s = e.Reduce(s, QuizDataLoaded{Data: []countries.Country{france}, Version: old})
	if len(s.QuizData) != 0 {
		t.Errorf("stale data applied: %v", s.QuizData)
	}
	if s.DataReady() {
		t.Error("stale data marked ready")
	}
	s = e.Reduce(s, QuizDataLoaded{Data: []countries.Country{france}, Version: s.DataVersion})
	if !s.DataReady() || len(s.QuizData) != 1 {
		t.Errorf("current data not applied: ready=%v data=%v", s.DataReady(), s.QuizData)
	}
}

func TestReduce_StartGuards(t *testing.T) {
	e := fixedEngine(time.Now())

	s := e.Reduce(NewState(), StartQuiz{})
	if s.Quiz.Status != StatusNotStarted {
		t.Error("started without quiz data")
	}

	s = NewState()
	s = e.Reduce(s, SetSelectedPromptTypes{Types: nil})
	s = loaded(e, s, france)
	s = e.Reduce(s, StartQuiz{})
	if s.Quiz.Status != StatusNotStarted {
		t.Error("quiz mode started without prompt types")
	}
}

func TestReduce_PromptGeneratedGuesses(t *testing.T) {
	e := fixedEngine(time.Now())
	s := started(t, e, ModeDailyChallenge, nil, saintMartin)

	g := s.Quiz.Prompt.Guesses
	if g[countries.PromptFlag].Status != GuessNone {
		t.Errorf("flag status = %q, want not in play", g[countries.PromptFlag].Status)
	}
	prompted := s.Quiz.Prompt.Type
	if g[prompted].Status != GuessPrompted {
		t.Errorf("prompted type %q has status %q", prompted, g[prompted].Status)
	}
	for _, typ := range []PromptType{countries.PromptLocation, countries.PromptName} {
		if typ != prompted && g[typ].Status != GuessIncomplete {
			t.Errorf("%s status = %q, want incomplete", typ, g[typ].Status)
		}
	}

	again := e.Reduce(s, PromptGenerated{})
	if !reflect.DeepEqual(again, s) {
		t.Error("second PromptGenerated changed an open prompt")
	}
}

func TestReduce_AnswerWhenNotActive(t *testing.T) {
	e := fixedEngine(time.Now())
	s := loaded(e, NewState(), france)
	next := e.Reduce(s, AnswerSubmitted{Type: countries.PromptName, Value: "France"})
	if !reflect.DeepEqual(next, s) {
		t.Error("answer changed a not-started quiz")
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	e := fixedEngine(time.Now())
	s := started(t, e, ModeQuiz, []PromptType{countries.PromptName}, france)
	snapshot := s.clone()

	e.Reduce(s, AnswerSubmitted{Type: countries.PromptName, Value: "Spain"})
	if !reflect.DeepEqual(s, snapshot) {
		t.Error("Reduce mutated its input state")
	}
}

func TestReduce_QuizModeWrongAnswerStaysOpen(t *testing.T) {
	e := fixedEngine(time.Now())
	s := started(t, e, ModeQuiz, []PromptType{countries.PromptName}, france)

	s = e.Reduce(s, AnswerSubmitted{Type: countries.PromptName, Value: "Spain"})
	g := s.Quiz.Prompt.Guesses[countries.PromptName]
	if g.Status != GuessIncomplete || g.AttemptCount != 1 {
		t.Errorf("guess = %+v, want incomplete after 1 attempt", g)
	}
	if CheckPromptCompletion(s) {
		t.Error("prompt should not be complete after a wrong answer")
	}

	s = e.Reduce(s, AnswerSubmitted{Type: countries.PromptName, Value: "France"})
	g = s.Quiz.Prompt.Guesses[countries.PromptName]
	if g.Status != GuessCompleted || !reflect.DeepEqual(g.Attempts, []string{"Spain", "France"}) {
		t.Errorf("guess = %+v, want completed with both attempts", g)
	}

	after := e.Reduce(s, AnswerSubmitted{Type: countries.PromptName, Value: "France"})
	if !reflect.DeepEqual(after, s) {
		t.Error("answer accepted for a completed type")
	}
}

func TestReduce_LearningWrongAnswerFails(t *testing.T) {
	e := fixedEngine(time.Now())
	s := started(t, e, ModeLearning, nil, germany)
	var other PromptType
	for _, typ := range countries.AllPromptTypes {
		if typ != s.Quiz.Prompt.Type {
			other = typ
			break
		}
	}
	s = e.Reduce(s, AnswerSubmitted{Type: other, Value: "nope"})
	if got := s.Quiz.Prompt.Guesses[other].Status; got != GuessFailed {
		t.Errorf("status = %q, want failed", got)
	}
}

func TestReduce_DailyChallengeCap(t *testing.T) {
	e := fixedEngine(time.Date(2026, 5, 1, 9, 0, 0, 0, time.Local))
	s := started(t, e, ModeDailyChallenge, nil, france)
	var target PromptType
	for _, typ := range countries.AllPromptTypes {
		if typ != s.Quiz.Prompt.Type {
			target = typ
			break
		}
	}

	for i := 1; i <= MaxDailyAttempts; i++ {
		s = e.Reduce(s, AnswerSubmitted{Type: target, Value: "wrong"})
		g := s.Quiz.Prompt.Guesses[target]
		if g.AttemptCount != i {
			t.Fatalf("attempt %d: AttemptCount = %d", i, g.AttemptCount)
		}
		want := GuessIncomplete
		if i == MaxDailyAttempts {
			want = GuessFailed
		}
		if g.Status != want {
			t.Errorf("attempt %d: status = %q, want %q", i, g.Status, want)
		}
	}
	if CanSubmit(s, target) {
		t.Error("CanSubmit should be false after the cap")
	}

	sixth := e.Reduce(s, AnswerSubmitted{Type: target, Value: "wrong"})
	if !reflect.DeepEqual(sixth, s) {
		t.Error("6th answer changed state")
	}
}

func TestReduce_GiveUp(t *testing.T) {
	e := fixedEngine(time.Now())
	s := started(t, e, ModeQuiz, []PromptType{countries.PromptName, countries.PromptFlag}, france)
	prompted := s.Quiz.Prompt.Type
	if !CanGiveUp(s) {
		t.Fatal("CanGiveUp should be true for a fresh prompt")
	}

	s = e.Reduce(s, GiveUp{})
	for typ, g := range s.Quiz.Prompt.Guesses {
		if typ == prompted {
			if g.Status != GuessPrompted {
				t.Errorf("prompted type became %q", g.Status)
			}
			continue
		}
		if g.Status != GuessFailed {
			t.Errorf("%s status = %q, want failed", typ, g.Status)
		}
	}
	if s.Quiz.Prompt.QuizDataIndex != 0 {
		t.Error("give up advanced the question index")
	}
	if !CheckPromptCompletion(s) {
		t.Error("prompt should be complete after giving up")
	}
}

func TestReduce_PromptFinishedTwice(t *testing.T) {
	e := fixedEngine(time.Now())
	s := started(t, e, ModeQuiz, []PromptType{countries.PromptName}, france, germany)
	s = e.Reduce(s, AnswerSubmitted{Type: countries.PromptName, Value: "France"})

	s = e.Reduce(s, PromptFinished{})
	if len(s.Quiz.History) != 1 {
		t.Fatalf("history len = %d, want 1", len(s.Quiz.History))
	}
	s = e.Reduce(s, PromptFinished{})
	if len(s.Quiz.History) != 1 {
		t.Errorf("history len = %d after second finish, want 1", len(s.Quiz.History))
	}

	h := s.Quiz.History[0]
	if h.CountryCode != "FRA" || !h.Successful {
		t.Errorf("history entry = %+v", h)
	}
	if h.Guesses[countries.PromptFlag].Status != GuessFailed {
		t.Errorf("unplayed flag should be finalized to failed, got %q", h.Guesses[countries.PromptFlag].Status)
	}
	if s.Quiz.Status != StatusReviewing || s.Quiz.ReviewType != ReviewAuto {
		t.Errorf("status = %q/%q, want reviewing/auto", s.Quiz.Status, s.Quiz.ReviewType)
	}
	if s.Quiz.Prompt.QuizDataIndex != 1 || s.Quiz.Prompt.Type != "" {
		t.Errorf("prompt = %+v, want cleared at index 1", s.Quiz.Prompt)
	}
}

func TestReduce_PromptFinishedRequiresCompletion(t *testing.T) {
	e := fixedEngine(time.Now())
	s := started(t, e, ModeQuiz, []PromptType{countries.PromptName, countries.PromptFlag}, france)
	next := e.Reduce(s, PromptFinished{})
	if !reflect.DeepEqual(next, s) {
		t.Error("unfinished prompt was snapshotted")
	}
}

func TestReduce_ManualReview(t *testing.T) {
	e := fixedEngine(time.Now())
	s := started(t, e, ModeQuiz, []PromptType{countries.PromptName}, france, germany)
	s = e.Reduce(s, AnswerSubmitted{Type: countries.PromptName, Value: "France"})
	s = e.Reduce(s, PromptFinished{})
	s = e.Reduce(s, ReviewCompleted{})
	s = e.Reduce(s, PromptGenerated{})

	bad := e.Reduce(s, ManualReviewInitiated{Index: 4})
	if !reflect.DeepEqual(bad, s) {
		t.Error("out-of-range review changed state")
	}

	r := e.Reduce(s, ManualReviewInitiated{Index: 0})
	if r.Quiz.ReviewType != ReviewHistory || r.Quiz.ReviewIndex == nil || *r.Quiz.ReviewIndex != 0 {
		t.Errorf("review = %q/%v", r.Quiz.ReviewType, r.Quiz.ReviewIndex)
	}
	if r.Quiz.Prompt.QuizDataIndex != 1 || !r.Quiz.Prompt.Open() {
		t.Error("manual review touched the active prompt")
	}
	if entry, ok := r.ReviewEntry(); !ok || entry.CountryCode != "FRA" {
		t.Errorf("ReviewEntry() = %+v, %v", entry, ok)
	}

	r = e.Reduce(r, ReviewCompleted{})
	if r.Quiz.Status != StatusActive || r.Quiz.ReviewType != ReviewNone || r.Quiz.ReviewIndex != nil {
		t.Errorf("after review: %q/%q/%v", r.Quiz.Status, r.Quiz.ReviewType, r.Quiz.ReviewIndex)
	}
}

func TestReduce_QuizCompleted(t *testing.T) {
	e := fixedEngine(time.Now())
	s := started(t, e, ModeQuiz, []PromptType{countries.PromptName}, france)

	early := e.Reduce(s, QuizCompleted{})
	if early.Quiz.Status == StatusCompleted {
		t.Fatal("completed with questions remaining")
	}

	s = e.Reduce(s, AnswerSubmitted{Type: countries.PromptName, Value: "France"})
	s = e.Reduce(s, PromptFinished{})
	s = e.Reduce(s, ReviewCompleted{})
	s = e.Reduce(s, QuizCompleted{})
	if s.Quiz.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", s.Quiz.Status)
	}
}

func TestReduce_SandboxSelect(t *testing.T) {
	e := fixedEngine(time.Now())
	s := NewState()
	s = e.Reduce(s, SetGameMode{Mode: ModeSandbox})
	s = loaded(e, s, france, germany, saintMartin)

	tests := []struct {
		typ   PromptType
		value string
		want  int
	}{
		{countries.PromptLocation, "DEU", 1},
		{countries.PromptName, "Saint Martin", 2},
		{countries.PromptFlag, "FR", 0},
	}
	for _, tt := range tests {
		next := e.Reduce(s, SandboxSelect{Type: tt.typ, Value: tt.value})
		if next.Quiz.Prompt.QuizDataIndex != tt.want {
			t.Errorf("%s=%s: index = %d, want %d", tt.typ, tt.value, next.Quiz.Prompt.QuizDataIndex, tt.want)
		}
		if len(next.Quiz.History) != 0 {
			t.Error("sandbox select touched history")
		}
	}

	quiz := e.Reduce(NewState(), SetGameMode{Mode: ModeQuiz})
	quiz = loaded(e, quiz, france, germany)
	if next := e.Reduce(quiz, SandboxSelect{Type: countries.PromptLocation, Value: "DEU"}); next.Quiz.Prompt.QuizDataIndex != 0 {
		t.Error("sandbox select worked outside sandbox mode")
	}
}

func TestReduce_SandboxIsNotGraded(t *testing.T) {
	e := fixedEngine(time.Now())
	s := NewState()
	s = e.Reduce(s, SetGameMode{Mode: ModeSandbox})
	s = loaded(e, s, france, germany)
	s = e.Reduce(s, StartQuiz{})
	if s.Quiz.Status != StatusActive {
		t.Fatalf("status = %q after start, want active", s.Quiz.Status)
	}

	for _, a := range []Action{
		PromptGenerated{},
		AnswerSubmitted{Type: countries.PromptName, Value: "France"},
		GiveUp{},
		PromptFinished{},
		QuizCompleted{},
	} {
		if next := e.Reduce(s, a); !reflect.DeepEqual(next, s) {
			t.Errorf("%s changed a sandbox run", a.Name())
		}
	}

	s = e.Reduce(s, SandboxSelect{Type: countries.PromptLocation, Value: "FRA"})
	s = e.Reduce(s, SandboxSelect{Type: countries.PromptLocation, Value: "DEU"})
	s = e.Reduce(s, SandboxSelect{Type: countries.PromptName, Value: "france"})
	if !reflect.DeepEqual(s.Quiz.Explored, []string{"FRA", "DEU"}) {
		t.Errorf("explored = %v, want [FRA DEU]", s.Quiz.Explored)
	}
	if len(s.Quiz.History) != 0 || s.Quiz.Status != StatusActive {
		t.Errorf("exploring every country produced history %v, status %q", s.Quiz.History, s.Quiz.Status)
	}
	if next := e.Reduce(s, QuizCompleted{}); next.Quiz.Status != StatusActive {
		t.Error("sandbox run completed")
	}
}

func TestReduce_Reset(t *testing.T) {
	e := fixedEngine(time.Now())
	s := NewState()
	s = e.Reduce(s, SetGameMode{Mode: ModeLearning})
	s = e.Reduce(s, SetSelectedPromptTypes{Types: []PromptType{countries.PromptFlag}})
	s = loaded(e, s, france)
	s = e.Reduce(s, StartQuiz{})
	s = e.Reduce(s, PromptGenerated{})
	s = e.Reduce(s, AnswerSubmitted{Type: countries.PromptFlag, Value: "FR"})
	s = e.Reduce(s, PromptFinished{})

	r := e.Reduce(s, ResetQuiz{})
	if r.DataVersion <= s.DataVersion {
		t.Errorf("DataVersion = %d after reset, want > %d", r.DataVersion, s.DataVersion)
	}
	want := NewState()
	want.DataVersion = r.DataVersion
	if !reflect.DeepEqual(r, want) {
		t.Errorf("reset state = %+v, want initial state %+v", r, want)
	}

	// Data loaded for the version before the reset is stale.
	if late := loaded(e, r, germany); late.LoadedVersion != r.DataVersion {
		t.Errorf("LoadedVersion = %d, want %d", late.LoadedVersion, r.DataVersion)
	}
	stale := e.Reduce(r, QuizDataLoaded{Data: []countries.Country{germany}, Version: s.DataVersion})
	if len(stale.QuizData) != 0 {
		t.Error("data loaded before the reset was accepted")
	}
}

func TestReduce_NilAction(t *testing.T) {
	e := fixedEngine(time.Now())
	s := NewState()
	if next := e.Reduce(s, nil); !reflect.DeepEqual(next, s) {
		t.Error("nil action changed state")
	}
}
