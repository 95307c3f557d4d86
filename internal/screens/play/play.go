// Package play is the quiz screen. It owns a session.Runner and renders
// whatever state the runner reports.
package play

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/hints"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/quizdata"
	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/screens/summary"
	"github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/ui/components"
	"github.com/abhisek/geoquiz/internal/ui/layout"
)

const hintPollInterval = 200 * time.Millisecond

// Config selects the run. Empty fields keep the mode defaults.
type Config struct {
	Mode    quiz.GameMode
	QuizSet string
	Types   []quiz.PromptType
}

// stateMsg carries a runner state into the update loop.
type stateMsg struct {
	state quiz.State
}

// hintPollMsg checks whether a requested hint has arrived.
type hintPollMsg struct {
	code string
}

type PlayScreen struct {
	env    screen.Env
	cfg    Config
	engine *quiz.Engine
	runner *session.Runner

	// ctx scopes hint requests to the screen's lifetime.
	ctx    context.Context
	cancel context.CancelFunc

	changed   chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	state      quiz.State
	startedFor int64
	finished   bool

	input    components.AnswerInput
	choices  map[quiz.PromptType]components.MultiChoice
	progress components.QuizProgress
	target   quiz.PromptType
	notice   string

	hintCode    string
	hintPending bool
	hint        *hints.Hint
	hintErr     string
}

var (
	_ screen.Screen          = (*PlayScreen)(nil)
	_ screen.KeyHintProvider = (*PlayScreen)(nil)
	_ screen.Closer          = (*PlayScreen)(nil)
)

// New returns a quiz screen for cfg. The run starts as soon as the quiz
// data for cfg has loaded.
func New(env screen.Env, cfg Config) *PlayScreen {
	return newScreen(env, cfg, session.DefaultOptions())
}

func newScreen(env screen.Env, cfg Config, opts session.Options) *PlayScreen {
	ctx, cancel := context.WithCancel(context.Background())
	s := &PlayScreen{
		env:        env,
		cfg:        cfg,
		ctx:        ctx,
		cancel:     cancel,
		changed:    make(chan struct{}, 1),
		done:       make(chan struct{}),
		startedFor: -1,
		input:      components.NewAnswerInput("Country name...", env.Catalog.Names(), 40),
		choices:    make(map[quiz.PromptType]components.MultiChoice),
		progress:   components.NewQuizProgress(30),
	}
	if opts.Engine == nil {
		opts.Engine = quiz.NewEngine(env.Logger)
	}
	s.engine = opts.Engine
	if opts.Filter == nil {
		opts.Filter = quizdata.NewFilter(env.Catalog, env.Logger)
	}
	opts.Progress = env.Progress
	opts.Events = env.Events
	opts.Logger = env.Logger
	if env.Now != nil {
		opts.Now = env.Now
	}
	opts.OnChange = s.notify
	s.runner = session.New(opts)
	s.state = s.runner.State()
	return s
}

// notify wakes the update loop. Intermediate states are coalesced; the
// loop always reads the latest one.
func (s *PlayScreen) notify(quiz.State) {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *PlayScreen) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.changed:
			return stateMsg{state: s.runner.State()}
		case <-s.done:
			return nil
		}
	}
}

func (s *PlayScreen) Init() tea.Cmd {
	s.configure()
	s.state = s.runner.State()
	return tea.Batch(s.input.Init(), s.wait())
}

// configure applies cfg to the runner. A reset restores the defaults, so
// this runs again before the next start.
func (s *PlayScreen) configure() {
	s.runner.Dispatch(quiz.SetGameMode{Mode: s.cfg.Mode})
	if s.cfg.QuizSet != "" {
		s.runner.Dispatch(quiz.SetQuizSet{QuizSet: s.cfg.QuizSet})
	}
	if s.cfg.Types != nil {
		s.runner.Dispatch(quiz.SetSelectedPromptTypes{Types: s.cfg.Types})
	}
}

// configured reports whether c already reflects cfg.
func (s *PlayScreen) configured(c quiz.Config) bool {
	if c.GameMode != s.cfg.Mode {
		return false
	}
	if s.cfg.QuizSet != "" && c.QuizSet != s.cfg.QuizSet {
		return false
	}
	if s.cfg.Types != nil {
		for _, t := range countries.AllPromptTypes {
			if slices.Contains(s.cfg.Types, t) != slices.Contains(c.SelectedPromptTypes, t) {
				return false
			}
		}
	}
	return true
}

// Close stops the runner, cancels hint requests and releases the update
// loop.
func (s *PlayScreen) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()
		err = s.runner.Close()
	})
	return err
}

func (s *PlayScreen) now() time.Time {
	if s.env.Now != nil {
		return s.env.Now()
	}
	return time.Now()
}

func (s *PlayScreen) Title() string {
	switch s.cfg.Mode {
	case quiz.ModeDailyChallenge:
		return "Daily challenge"
	case quiz.ModeLearning:
		return "Learn"
	case quiz.ModeSandbox:
		return "Sandbox"
	default:
		return "Quiz"
	}
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	run := s.state.Quiz
	switch {
	case run.Status == quiz.StatusReviewing || run.ReviewType == quiz.ReviewHistory:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case run.Prompt.Open():
		var keys []layout.KeyHint
		if answeredByChoice(s.target) {
			keys = append(keys,
				layout.KeyHint{Key: "1-4", Description: "Choose"},
				layout.KeyHint{Key: "↑/↓ Enter", Description: "Pick"})
		} else {
			keys = append(keys,
				layout.KeyHint{Key: "Enter", Description: "Answer"},
				layout.KeyHint{Key: "Tab", Description: "Complete"})
		}
		if cycleTarget(s.state, s.target) != s.target {
			keys = append(keys, layout.KeyHint{Key: "Shift+Tab", Description: "Switch field"})
		}
		keys = append(keys,
			layout.KeyHint{Key: "Ctrl+G", Description: "Give up"},
			layout.KeyHint{Key: "Ctrl+N", Description: "Restart"})
		if s.hintsAllowed() {
			keys = append(keys, layout.KeyHint{Key: "Ctrl+R", Description: "Hint"})
		}
		if len(run.History) > 0 {
			keys = append(keys, layout.KeyHint{Key: "Ctrl+B", Description: "Review"})
		}
		return append(keys, layout.KeyHint{Key: "Esc", Description: "Quit"})
	case s.cfg.Mode == quiz.ModeSandbox && run.Status == quiz.StatusActive:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Explore country"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		cmd := s.apply(msg.state)
		return s, tea.Batch(cmd, s.wait())
	case hintPollMsg:
		return s, s.pollHint(msg.code)
	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// apply takes a new runner state: it starts the run once data is ready,
// tracks the answer field and leaves for the summary when the run ends.
func (s *PlayScreen) apply(st quiz.State) tea.Cmd {
	prev := s.state
	s.state = st

	if st.Quiz.Status == quiz.StatusNotStarted && !s.configured(st.Config) {
		s.configure()
		st = s.runner.State()
		s.state = st
	}

	if st.Quiz.Status == quiz.StatusNotStarted {
		switch {
		case !st.DataReady():
			s.notice = "Loading countries..."
		case len(st.QuizData) == 0:
			s.notice = emptyNotice(st.Config.GameMode)
		case s.startedFor != st.DataVersion:
			s.startedFor = st.DataVersion
			s.notice = ""
			s.runner.Dispatch(quiz.StartQuiz{})
			s.state = s.runner.State()
		}
	}

	if s.state.Quiz.Prompt.QuizDataIndex != prev.Quiz.Prompt.QuizDataIndex ||
		s.state.Quiz.Prompt.Open() != prev.Quiz.Prompt.Open() {
		s.target = ""
		clear(s.choices)
		s.hint, s.hintErr, s.hintPending, s.hintCode = nil, "", false, ""
	}
	s.target = nextTarget(s.state, s.target)
	s.currentChoices()
	s.progress.Done = len(s.state.Quiz.History)
	s.progress.Total = len(s.state.QuizData)

	if s.state.Quiz.Status == quiz.StatusCompleted && !s.finished {
		s.finished = true
		done := summary.New(s.env, s.state)
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: done} }
	}
	return nil
}

func emptyNotice(mode quiz.GameMode) string {
	if mode == quiz.ModeLearning {
		return "Nothing to review right now. Come back later!"
	}
	return "No countries match this quiz."
}

// nextTarget keeps cur while it still takes answers, otherwise picks the
// first type waiting for one. When only the prompted type is in play, it
// is the one to answer.
func nextTarget(st quiz.State, cur quiz.PromptType) quiz.PromptType {
	p := st.Quiz.Prompt
	if !p.Open() {
		return ""
	}
	if cur != "" && p.Guesses[cur].Status == quiz.GuessIncomplete {
		return cur
	}
	for _, t := range countries.AllPromptTypes {
		if p.Guesses[t].Status == quiz.GuessIncomplete {
			return t
		}
	}
	if quiz.CanSubmit(st, p.Type) {
		return p.Type
	}
	return ""
}

// cycleTarget moves to the next type waiting for an answer.
func cycleTarget(st quiz.State, cur quiz.PromptType) quiz.PromptType {
	types := countries.AllPromptTypes
	start := 0
	for i, t := range types {
		if t == cur {
			start = i + 1
		}
	}
	for i := range types {
		t := types[(start+i)%len(types)]
		if st.Quiz.Prompt.Guesses[t].Status == quiz.GuessIncomplete {
			return t
		}
	}
	return cur
}

func (s *PlayScreen) dispatch(a quiz.Action) tea.Cmd {
	s.runner.Dispatch(a)
	return s.apply(s.runner.State())
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	run := s.state.Quiz

	if run.Status == quiz.StatusReviewing || run.ReviewType == quiz.ReviewHistory {
		if msg.String() == "ctrl+b" && run.ReviewType == quiz.ReviewHistory && run.ReviewIndex != nil && *run.ReviewIndex > 0 {
			return s.dispatch(quiz.ManualReviewInitiated{Index: *run.ReviewIndex - 1})
		}
		return s.dispatch(quiz.ReviewCompleted{})
	}

	switch msg.String() {
	case "enter":
		return s.submit()
	case "shift+tab":
		s.target = cycleTarget(s.state, s.target)
		s.currentChoices()
		return nil
	case "ctrl+n":
		if run.Status != quiz.StatusNotStarted {
			s.finished = false
			s.runner.Reset()
			return s.apply(s.runner.State())
		}
		return nil
	case "ctrl+g":
		if quiz.CanGiveUp(s.state) {
			return s.dispatch(quiz.GiveUp{})
		}
		return nil
	case "ctrl+b":
		if len(run.History) > 0 && run.Status == quiz.StatusActive {
			return s.dispatch(quiz.ManualReviewInitiated{Index: len(run.History) - 1})
		}
		return nil
	case "ctrl+r":
		return s.requestHint()
	}

	if m, ok := s.currentChoices(); ok && run.Prompt.Open() {
		m, cmd := m.Update(msg)
		s.choices[s.target] = m
		if m.Submitted {
			return tea.Batch(cmd, s.submitChoice())
		}
		return cmd
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *PlayScreen) submit() tea.Cmd {
	run := s.state.Quiz
	if s.cfg.Mode == quiz.ModeSandbox {
		return s.explore()
	}
	if m, ok := s.currentChoices(); ok && run.Prompt.Open() {
		m, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
		s.choices[s.target] = m
		if !m.Submitted {
			return cmd
		}
		return s.submitChoice()
	}

	raw := strings.TrimSpace(s.input.Value())
	t := s.target
	if raw == "" || t == "" || !quiz.CanSubmit(s.state, t) {
		return nil
	}
	// Aliases resolve to the display name. Unknown text is submitted as is
	// and counts as a wrong answer.
	value := raw
	if c, ok := s.env.Catalog.Lookup(raw); ok {
		value = c.Name
	}
	ok := s.answer(t, value)
	s.input.Mark(ok)
	return s.apply(s.runner.State())
}

// submitChoice answers the target with the picked option. A wrong pick
// reopens the list while the prompt still takes answers.
func (s *PlayScreen) submitChoice() tea.Cmd {
	t := s.target
	m := s.choices[t]
	opt, ok := m.Chosen()
	if !ok || !quiz.CanSubmit(s.state, t) {
		s.choices[t] = m.Retry()
		return nil
	}
	if !s.answer(t, opt.Value) {
		s.choices[t] = m.Retry()
	}
	return s.apply(s.runner.State())
}

// answer dispatches an answer for t and reports whether it was right.
// State is read straight from the runner; apply runs afterwards.
func (s *PlayScreen) answer(t quiz.PromptType, value string) bool {
	before := len(s.state.Quiz.History)
	s.runner.Dispatch(quiz.AnswerSubmitted{Type: t, Value: value})
	st := s.runner.State()
	guesses := st.Quiz.Prompt.Guesses
	if len(st.Quiz.History) > before {
		entry, _ := st.LastHistory()
		guesses = entry.Guesses
	}
	return guesses[t].Status == quiz.GuessCompleted
}

// explore points a sandbox run at the typed country. Nothing is graded.
func (s *PlayScreen) explore() tea.Cmd {
	raw := strings.TrimSpace(s.input.Value())
	if raw == "" || s.state.Quiz.Status != quiz.StatusActive {
		return nil
	}
	c, ok := s.env.Catalog.Lookup(raw)
	if !ok {
		s.notice = "Unknown country: " + raw
		return nil
	}
	if !slices.ContainsFunc(s.state.QuizData, func(q countries.Country) bool { return q.Code == c.Code }) {
		s.notice = c.Name + " is not part of this sandbox."
		return nil
	}
	s.notice = ""
	s.input.Model.Reset()
	return s.dispatch(quiz.SandboxSelect{Type: countries.PromptLocation, Value: c.Code})
}

func (s *PlayScreen) hintsAllowed() bool {
	return s.env.Hints != nil && s.cfg.Mode != quiz.ModeDailyChallenge
}

func (s *PlayScreen) requestHint() tea.Cmd {
	if !s.hintsAllowed() || !s.state.Quiz.Prompt.Open() || s.hintPending || s.hint != nil {
		return nil
	}
	c, ok := s.state.CurrentCountry()
	if !ok {
		return nil
	}
	s.hintCode, s.hintPending, s.hintErr = c.Code, true, ""
	s.env.Hints.Request(s.ctx, c, s.runner.SessionID())
	return pollAfter(c.Code)
}

func pollAfter(code string) tea.Cmd {
	return tea.Tick(hintPollInterval, func(time.Time) tea.Msg { return hintPollMsg{code: code} })
}

func (s *PlayScreen) pollHint(code string) tea.Cmd {
	if s.env.Hints == nil {
		return nil
	}
	res, ok := s.env.Hints.Consume(code)
	if !ok {
		if s.hintPending && s.hintCode == code {
			return pollAfter(code)
		}
		return nil
	}
	if s.hintCode != code {
		return nil
	}
	s.hintPending = false
	if res.Err != nil {
		s.hintErr = "No hint available right now."
		return nil
	}
	h := res.Hint
	s.hint = &h
	return nil
}
