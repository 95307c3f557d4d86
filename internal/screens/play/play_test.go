package play

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/hints"
	"github.com/abhisek/geoquiz/internal/llm"
	"github.com/abhisek/geoquiz/internal/progress"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/quizdata"
	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/ui/components"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testCatalog() *countries.Catalog {
	all := []countries.PromptType{countries.PromptLocation, countries.PromptName, countries.PromptFlag}
	list := []countries.Country{
		{Code: "FRA", Name: "France", FlagCode: "FR", Location: countries.Location{Lat: 46, Long: 2}, AvailablePrompts: all},
		{Code: "DEU", Name: "Germany", FlagCode: "DE", Location: countries.Location{Lat: 51, Long: 9}, AvailablePrompts: all},
		{Code: "JPN", Name: "Japan", FlagCode: "JP", Location: countries.Location{Lat: 36, Long: 138}, AvailablePrompts: all},
	}
	return countries.New(list, []countries.QuizSet{{Name: "Europe", Codes: []string{"FRA", "DEU"}}})
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (c *manualClock) After(_ time.Duration, f func()) session.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) fireLast() {
	c.mu.Lock()
	t := c.timers[len(c.timers)-1]
	c.mu.Unlock()
	t.fn()
}

func newTestScreen(t *testing.T, env screen.Env, cfg Config) (*PlayScreen, *manualClock) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if env.Catalog == nil {
		env.Catalog = testCatalog()
	}
	if env.Progress == nil {
		env.Progress = progress.NewMemory()
	}
	env.Logger = logger
	env.Now = func() time.Time { return testNow }

	engine := quiz.NewEngine(logger)
	engine.Now = env.Now
	engine.Seed = func() int64 { return 3 }
	filter := quizdata.NewFilter(env.Catalog, logger)
	filter.Now = env.Now
	filter.Seed = func() int64 { return 3 }

	clock := &manualClock{}
	opts := session.DefaultOptions()
	opts.Engine = engine
	opts.Filter = filter
	opts.After = clock.After

	s := newScreen(env, cfg, opts)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

// pump waits for background work and feeds the latest state to the screen.
func pump(s *PlayScreen) tea.Cmd {
	s.runner.Wait()
	_, cmd := s.Update(stateMsg{state: s.runner.State()})
	return cmd
}

func press(s *PlayScreen, msg tea.KeyPressMsg) tea.Cmd {
	_, cmd := s.Update(msg)
	return cmd
}

var (
	enter  = tea.KeyPressMsg{Code: tea.KeyEnter}
	giveUp = tea.KeyPressMsg{Code: 'g', Mod: tea.ModCtrl}
	anyKey = tea.KeyPressMsg{Code: 'x', Text: "x"}
)

// With engine seed 3 every prompt shows the name when it is in play.
func twoTypes() []quiz.PromptType {
	return []quiz.PromptType{countries.PromptName, countries.PromptFlag}
}

// choose presses the number of the option whose value is value.
func choose(t *testing.T, s *PlayScreen, value string) tea.Cmd {
	t.Helper()
	m, ok := s.choices[s.target]
	require.True(t, ok, "no choices for %s", s.target)
	for i, o := range m.Options {
		if o.Value == value {
			d := rune('1' + i)
			return press(s, tea.KeyPressMsg{Code: d, Text: string(d)})
		}
	}
	t.Fatalf("%q is not among the %s choices", value, s.target)
	return nil
}

// chooseWrong picks the first option other than right.
func chooseWrong(t *testing.T, s *PlayScreen, right string) string {
	t.Helper()
	m, ok := s.choices[s.target]
	require.True(t, ok, "no choices for %s", s.target)
	for _, o := range m.Options {
		if o.Value != right {
			choose(t, s, o.Value)
			return o.Value
		}
	}
	t.Fatal("no wrong option offered")
	return ""
}

func TestPlayScreen_StartsWhenDataLoads(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe", Types: twoTypes()})
	s.Init()
	pump(s)

	assert.Equal(t, quiz.StatusActive, s.state.Quiz.Status)
	require.True(t, s.state.Quiz.Prompt.Open())
	assert.Len(t, s.state.QuizData, 2)
	assert.NotEmpty(t, s.target)
	assert.NotEqual(t, s.state.Quiz.Prompt.Type, s.target)
	assert.Equal(t, 2, s.progress.Total)
	assert.NotEmpty(t, s.View(100, 30))
}

func TestPlayScreen_FullRun(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe", Types: twoTypes()})
	s.Init()
	pump(s)

	c, ok := s.state.CurrentCountry()
	require.True(t, ok)
	require.Equal(t, countries.PromptName, s.state.Quiz.Prompt.Type)
	require.Equal(t, countries.PromptFlag, s.target)
	choose(t, s, c.FlagCode)

	require.Equal(t, quiz.StatusReviewing, s.state.Quiz.Status)
	require.Len(t, s.state.Quiz.History, 1)
	assert.True(t, s.state.Quiz.History[0].Successful)
	assert.Contains(t, s.View(100, 30), "Correct!")

	press(s, anyKey)
	require.True(t, s.state.Quiz.Prompt.Open())
	assert.Equal(t, 1, s.state.Quiz.Prompt.QuizDataIndex)

	press(s, giveUp)
	require.Len(t, s.state.Quiz.History, 2)
	assert.False(t, s.state.Quiz.History[1].Successful)

	cmd := press(s, anyKey)
	require.Equal(t, quiz.StatusCompleted, s.state.Quiz.Status)
	require.NotNil(t, cmd)
	_, replaced := cmd().(router.ReplaceScreenMsg)
	assert.True(t, replaced)
}

func TestPlayScreen_WrongAnswerKeepsPromptOpen(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe", Types: twoTypes()})
	s.Init()
	pump(s)

	c, _ := s.state.CurrentCountry()
	target := s.target
	wrong := chooseWrong(t, s, c.FlagCode)

	require.True(t, s.state.Quiz.Prompt.Open())
	g := s.state.Quiz.Prompt.Guesses[target]
	assert.Equal(t, quiz.GuessIncomplete, g.Status)
	assert.Equal(t, 1, g.AttemptCount)
	assert.Equal(t, []string{wrong}, g.Attempts)
	assert.Equal(t, target, s.target)
	assert.False(t, s.choices[target].Submitted, "list reopens after a miss")

	choose(t, s, c.FlagCode)
	require.Equal(t, quiz.StatusReviewing, s.state.Quiz.Status)
	assert.True(t, s.state.Quiz.History[0].Successful)
}

func TestPlayScreen_SingleTypeQuiz(t *testing.T) {
	t.Run("name", func(t *testing.T) {
		s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe", Types: []quiz.PromptType{countries.PromptName}})
		s.Init()
		pump(s)

		require.True(t, s.state.Quiz.Prompt.Open())
		assert.Equal(t, countries.PromptName, s.target)
		c, _ := s.state.CurrentCountry()
		view := s.View(100, 30)
		assert.NotContains(t, view, c.Name, "the answer is not shown")
		assert.Contains(t, view, flagEmoji(c.FlagCode))

		s.input.Model.SetValue(c.Name)
		press(s, enter)
		require.Equal(t, quiz.StatusReviewing, s.state.Quiz.Status)
		require.Len(t, s.state.Quiz.History, 1)
		assert.True(t, s.state.Quiz.History[0].Successful)
	})

	t.Run("flag", func(t *testing.T) {
		s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe", Types: []quiz.PromptType{countries.PromptFlag}})
		s.Init()
		pump(s)

		require.True(t, s.state.Quiz.Prompt.Open())
		assert.Equal(t, countries.PromptFlag, s.target)
		c, _ := s.state.CurrentCountry()
		assert.Contains(t, s.View(100, 30), c.Name)

		choose(t, s, c.FlagCode)
		require.Equal(t, quiz.StatusReviewing, s.state.Quiz.Status)
		assert.True(t, s.state.Quiz.History[0].Successful)
	})
}

func TestPlayScreen_RetypingPromptDoesNotAnswer(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe"})
	s.Init()
	pump(s)

	require.Equal(t, countries.PromptName, s.state.Quiz.Prompt.Type)
	c, _ := s.state.CurrentCountry()
	for range 2 {
		s.input.Model.SetValue(c.Name)
		press(s, enter)
		press(s, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	}

	p := s.state.Quiz.Prompt
	require.True(t, p.Open())
	assert.Empty(t, s.state.Quiz.History)
	assert.Zero(t, p.Guesses[countries.PromptLocation].AttemptCount)
	assert.Zero(t, p.Guesses[countries.PromptFlag].AttemptCount)

	require.Equal(t, countries.PromptLocation, s.target)
	choose(t, s, c.Code)
	require.Equal(t, countries.PromptFlag, s.target)
	choose(t, s, c.FlagCode)
	require.Equal(t, quiz.StatusReviewing, s.state.Quiz.Status)
	assert.True(t, s.state.Quiz.History[0].Successful)
}

func TestBuildChoices(t *testing.T) {
	pool := testCatalog().All()
	fra := pool[0]

	opts := buildChoices(fra, countries.PromptFlag, pool, 11)
	require.Len(t, opts, 3)
	values := make([]string, 0, len(opts))
	for _, o := range opts {
		values = append(values, o.Value)
	}
	assert.ElementsMatch(t, []string{"FR", "DE", "JP"}, values)
	assert.Equal(t, opts, buildChoices(fra, countries.PromptFlag, pool, 11), "same seed, same order")

	loc := buildChoices(fra, countries.PromptLocation, pool, 11)
	assert.Contains(t, loc, components.ChoiceOption{Label: "📍 46.00°N 2.00°E", Value: "FRA"})
}

func TestPlayScreen_ReviewTimerAdvances(t *testing.T) {
	s, clock := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe", Types: twoTypes()})
	s.Init()
	pump(s)

	press(s, giveUp)
	require.Equal(t, quiz.StatusReviewing, s.state.Quiz.Status)

	clock.fireLast()
	pump(s)
	assert.Equal(t, quiz.StatusActive, s.state.Quiz.Status)
	assert.True(t, s.state.Quiz.Prompt.Open())
}

func TestPlayScreen_ManualReview(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe", Types: twoTypes()})
	s.Init()
	pump(s)
	press(s, giveUp)
	press(s, anyKey)

	press(s, tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})
	require.Equal(t, quiz.ReviewHistory, s.state.Quiz.ReviewType)
	assert.Contains(t, s.View(100, 30), "Reviewing question 1 of 1")

	press(s, anyKey)
	assert.Equal(t, quiz.ReviewNone, s.state.Quiz.ReviewType)
	assert.True(t, s.state.Quiz.Prompt.Open())
}

func TestPlayScreen_ShiftTabCyclesTargets(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe"})
	s.Init()
	pump(s)

	first := s.target
	require.NotEmpty(t, first)
	press(s, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.NotEqual(t, first, s.target)
	assert.NotEqual(t, s.state.Quiz.Prompt.Type, s.target)
}

func TestPlayScreen_Sandbox(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeSandbox, QuizSet: "Europe"})
	s.Init()
	pump(s)

	require.Equal(t, quiz.StatusActive, s.state.Quiz.Status)
	require.False(t, s.state.Quiz.Prompt.Open())
	assert.Contains(t, s.View(100, 30), "Pick a country")

	s.input.Model.SetValue("Atlantis")
	press(s, enter)
	assert.Contains(t, s.notice, "Unknown country")

	s.input.Model.SetValue("Japan")
	press(s, enter)
	assert.Contains(t, s.notice, "not part of this sandbox")

	s.input.Model.SetValue("germany")
	press(s, enter)
	assert.False(t, s.state.Quiz.Prompt.Open(), "exploring is not graded")
	c, _ := s.state.CurrentCountry()
	assert.Equal(t, "DEU", c.Code)
	assert.Empty(t, s.notice)
	view := s.View(100, 30)
	assert.Contains(t, view, "Germany")
	assert.Contains(t, view, "1 explored")

	s.input.Model.SetValue("France")
	cmd := press(s, enter)
	assert.Nil(t, cmd, "exploring the last country does not end the run")
	press(s, giveUp)
	pump(s)

	assert.Equal(t, quiz.StatusActive, s.state.Quiz.Status)
	assert.Empty(t, s.state.Quiz.History)
	assert.Equal(t, []string{"DEU", "FRA"}, s.state.Quiz.Explored)
	assert.Contains(t, s.View(100, 30), "2 explored")
}

func TestPlayScreen_RestartRestoresConfig(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe", Types: twoTypes()})
	s.Init()
	pump(s)
	press(s, giveUp)
	press(s, anyKey)
	require.Len(t, s.state.Quiz.History, 1)
	id := s.runner.SessionID()

	press(s, tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	pump(s)

	st := s.state
	assert.Equal(t, quiz.StatusActive, st.Quiz.Status)
	assert.Empty(t, st.Quiz.History)
	assert.Equal(t, "Europe", st.Config.QuizSet)
	assert.Equal(t, twoTypes(), st.Config.SelectedPromptTypes)
	assert.Len(t, st.QuizData, 2)
	assert.True(t, st.Quiz.Prompt.Open())
	assert.NotEqual(t, id, s.runner.SessionID())
}

func TestPlayScreen_EmptyLearningQueue(t *testing.T) {
	mem := progress.NewMemory()
	mem.Now = func() time.Time { return testNow }
	for _, c := range testCatalog().All() {
		require.NoError(t, mem.UpdateCountryLearningRecord(context.Background(), c.Code, true))
	}
	s, _ := newTestScreen(t, screen.Env{Progress: mem}, Config{Mode: quiz.ModeLearning})
	s.Init()
	pump(s)

	assert.Equal(t, quiz.StatusNotStarted, s.state.Quiz.Status)
	assert.Contains(t, s.notice, "Nothing to review")
}

func TestPlayScreen_Hint(t *testing.T) {
	reply := llm.MockResponse{Content: json.RawMessage(`{"hint":"Famous for a tall iron tower.","facts":["Wine"]}`)}
	svc := hints.NewService(llm.NewMockProvider(reply), nil, hints.DefaultConfig(), nil)
	s, _ := newTestScreen(t, screen.Env{Hints: svc}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe", Types: twoTypes()})
	s.Init()
	pump(s)

	cmd := press(s, tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	require.True(t, s.hintPending)

	code := s.hintCode
	require.Eventually(t, func() bool {
		s.Update(hintPollMsg{code: code})
		return s.hint != nil
	}, time.Second, 10*time.Millisecond)
	assert.False(t, s.hintPending)
	assert.Contains(t, s.View(100, 40), "Wine")
}

func TestPlayScreen_LearningStartsWithUnseenCountries(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeLearning})
	s.Init()
	pump(s)

	assert.Equal(t, quiz.StatusActive, s.state.Quiz.Status)
	assert.Len(t, s.state.QuizData, 3)
}

// blockingProvider answers only when its context ends.
type blockingProvider struct{}

func (blockingProvider) ModelID() string { return "blocking" }

func (blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPlayScreen_CloseCancelsHintRequest(t *testing.T) {
	svc := hints.NewService(blockingProvider{}, nil, hints.DefaultConfig(), nil)
	s, _ := newTestScreen(t, screen.Env{Hints: svc}, Config{Mode: quiz.ModeQuiz, QuizSet: "Europe", Types: twoTypes()})
	s.Init()
	pump(s)

	press(s, tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	require.True(t, s.hintPending)
	code := s.hintCode

	require.NoError(t, s.Close())
	svc.Wait()
	_, ok := svc.Consume(code)
	assert.False(t, ok)
}

func TestPlayScreen_NoHintsInDailyChallenge(t *testing.T) {
	svc := hints.NewService(llm.NewMockProvider(), nil, hints.DefaultConfig(), nil)
	s, _ := newTestScreen(t, screen.Env{Hints: svc}, Config{Mode: quiz.ModeDailyChallenge})
	assert.False(t, s.hintsAllowed())
	assert.Nil(t, s.requestHint())
}

func TestPlayScreen_CloseReleasesWait(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Nil(t, s.wait()())
}

func TestFlagEmoji(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"FR", "🇫🇷"},
		{"jp", "🇯🇵"},
		{"GB-ENG", "GB-ENG"},
		{"1A", "1A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, flagEmoji(tt.in), tt.in)
	}
}

func TestFormatLocation(t *testing.T) {
	assert.Equal(t, "33.87°S 151.21°E", formatLocation(countries.Location{Lat: -33.87, Long: 151.21}))
	assert.Equal(t, "40.71°N 74.01°W", formatLocation(countries.Location{Lat: 40.71, Long: -74.01}))
}

func TestPromptValue(t *testing.T) {
	s, _ := newTestScreen(t, screen.Env{}, Config{Mode: quiz.ModeQuiz})
	fra := testCatalog().All()[0]
	assert.Equal(t, "📍 46.00°N 2.00°E", s.promptValue(fra, countries.PromptLocation))
	assert.Equal(t, "France", s.promptValue(fra, countries.PromptName))
	assert.Equal(t, "🇫🇷", s.promptValue(fra, countries.PromptFlag))
	assert.Empty(t, s.promptValue(fra, "capital"))
}
