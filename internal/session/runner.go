// Package session runs a quiz: it owns the quiz state, feeds dispatched
// actions through the reducer and carries out the follow-up work each
// transition implies (next prompt, review timers, reloads, saving).
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/stats"
	"github.com/abhisek/geoquiz/internal/store"
)

// Runner serializes actions for one player. It is safe for concurrent use.
type Runner struct {
	opts Options
	log  *slog.Logger

	mu         sync.Mutex
	state      quiz.State
	sessionID  string
	generation uint64
	timer      Timer
	closed     bool

	ctx     context.Context
	cancel  context.CancelFunc
	pending int
	idle    *sync.Cond
}

// New returns a runner in the initial state. Call Load to fetch the
// first quiz data.
func New(opts Options) *Runner {
	opts.fill()
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		opts:      opts,
		log:       opts.Logger,
		state:     quiz.NewState(),
		sessionID: uuid.NewString(),
		ctx:       ctx,
		cancel:    cancel,
	}
	r.idle = sync.NewCond(&r.mu)
	return r
}

// State returns a snapshot of the current state.
func (r *Runner) State() quiz.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SessionID identifies the current run in stored events.
func (r *Runner) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// Load reloads quiz data for the current configuration.
func (r *Runner) Load() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.reload(r.state)
	r.mu.Unlock()
}

// Dispatch applies a and every follow-up action it triggers.
func (r *Runner) Dispatch(a quiz.Action) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.run(a)
	state := r.state
	r.mu.Unlock()

	if r.opts.OnChange != nil {
		r.opts.OnChange(state)
	}
}

// dispatchFrom delivers an action from background work started in
// generation gen. Work from an older generation is dropped.
func (r *Runner) dispatchFrom(gen uint64, a quiz.Action) {
	r.mu.Lock()
	if r.closed || gen != r.generation {
		r.mu.Unlock()
		r.log.Debug("dropping stale action", "action", a.Name())
		return
	}
	r.run(a)
	state := r.state
	r.mu.Unlock()

	if r.opts.OnChange != nil {
		r.opts.OnChange(state)
	}
}

// Reset discards the run, cancels pending timers and starts a new session.
func (r *Runner) Reset() {
	r.Dispatch(quiz.ResetQuiz{})
}

// Close stops timers, cancels background work and waits for it to exit.
func (r *Runner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.generation++
	r.stopTimer()
	r.mu.Unlock()

	r.cancel()
	r.Wait()
	return nil
}

// Wait blocks until all background work has finished. Work started while
// waiting, such as a reload dispatched from a finishing load, is waited
// for too.
func (r *Runner) Wait() {
	r.mu.Lock()
	for r.pending > 0 {
		r.idle.Wait()
	}
	r.mu.Unlock()
}

// run drains a queue starting with a. Callers hold r.mu.
func (r *Runner) run(a quiz.Action) {
	queue := []quiz.Action{a}
	for len(queue) > 0 {
		act := queue[0]
		queue = queue[1:]

		prev := r.state
		next := r.opts.Engine.Reduce(prev, act)
		r.state = next

		r.effects(prev, next, act)
		queue = append(queue, r.followUps(prev, next, act)...)
	}
}

// followUps evaluates the trigger rules in order and returns the actions
// they fire.
func (r *Runner) followUps(prev, next quiz.State, act quiz.Action) []quiz.Action {
	run := next.Quiz

	switch act.(type) {
	case quiz.AnswerSubmitted, quiz.GiveUp:
		if run.Status == quiz.StatusActive && run.Prompt.Open() &&
			promptChanged(prev, next) && quiz.CheckPromptCompletion(next) {
			return []quiz.Action{quiz.PromptFinished{}}
		}
		return nil
	}

	// Sandbox runs never prompt or complete.
	if next.Config.GameMode == quiz.ModeSandbox {
		return nil
	}
	if run.Status != quiz.StatusActive || run.Prompt.Open() || run.ReviewType != quiz.ReviewNone {
		return nil
	}
	if quiz.CheckQuizCompletion(next) {
		return []quiz.Action{quiz.QuizCompleted{}}
	}
	if _, ok := act.(quiz.PromptGenerated); ok {
		r.log.Error("no prompt could be generated", "index", run.Prompt.QuizDataIndex)
		return nil
	}
	return []quiz.Action{quiz.PromptGenerated{}}
}

// promptChanged reports whether an answer-bearing action was accepted.
func promptChanged(prev, next quiz.State) bool {
	for _, t := range countries.AllPromptTypes {
		a, b := prev.Quiz.Prompt.Guesses[t], next.Quiz.Prompt.Guesses[t]
		if a.Status != b.Status || a.AttemptCount != b.AttemptCount {
			return true
		}
	}
	return false
}

// effects starts the side effects of one transition. Callers hold r.mu.
func (r *Runner) effects(prev, next quiz.State, act quiz.Action) {
	if _, ok := act.(quiz.ResetQuiz); ok {
		r.generation++
		r.stopTimer()
		r.sessionID = uuid.NewString()
	}

	if next.DataVersion != prev.DataVersion {
		r.reload(next)
	}

	if prev.Quiz.Status == quiz.StatusNotStarted && next.Quiz.Status == quiz.StatusActive {
		r.logSession(next, "start")
	}

	if a, ok := act.(quiz.AnswerSubmitted); ok && promptChanged(prev, next) {
		r.logAnswer(next, a)
	}

	if len(next.Quiz.History) > len(prev.Quiz.History) {
		entry := next.Quiz.History[len(next.Quiz.History)-1]
		if next.Config.GameMode == quiz.ModeLearning {
			r.updateLearning(entry)
		}
	}

	autoReview := next.Quiz.Status == quiz.StatusReviewing && next.Quiz.ReviewType == quiz.ReviewAuto
	wasAutoReview := prev.Quiz.Status == quiz.StatusReviewing && prev.Quiz.ReviewType == quiz.ReviewAuto
	switch {
	case autoReview && (!wasAutoReview || len(next.Quiz.History) != len(prev.Quiz.History)):
		r.scheduleReview(next)
	case !autoReview && wasAutoReview:
		r.stopTimer()
	}

	if prev.Quiz.Status != quiz.StatusCompleted && next.Quiz.Status == quiz.StatusCompleted {
		r.logSession(next, "end")
		if next.Config.GameMode == quiz.ModeDailyChallenge && len(next.Quiz.History) > 0 {
			r.saveDaily(next)
		}
	}
}

func (r *Runner) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Runner) scheduleReview(s quiz.State) {
	r.stopTimer()
	delay := r.opts.FailureDelay
	if last, ok := s.LastHistory(); ok && last.Successful {
		delay = r.opts.SuccessDelay
	}
	gen := r.generation
	r.timer = r.opts.After(delay, func() {
		r.dispatchFrom(gen, quiz.ReviewCompleted{})
	})
}

// goAsync runs fn in the background, logging its error. Callers hold r.mu,
// so the pending count never races with Wait.
func (r *Runner) goAsync(what string, fn func(ctx context.Context) error) {
	r.pending++
	go func() {
		defer r.done()
		if err := fn(r.ctx); err != nil {
			r.log.Error(what+" failed", "err", err)
		}
	}()
}

func (r *Runner) done() {
	r.mu.Lock()
	r.pending--
	if r.pending == 0 {
		r.idle.Broadcast()
	}
	r.mu.Unlock()
}

func (r *Runner) reload(s quiz.State) {
	if r.opts.Filter == nil {
		r.log.Warn("no quiz data filter configured")
		return
	}
	gen := r.generation
	cfg := s.Config
	version := s.DataVersion
	r.goAsync("reload quiz data", func(ctx context.Context) error {
		var p *store.UserProgressData
		var loadErr error
		if cfg.GameMode == quiz.ModeLearning {
			p, loadErr = r.opts.Progress.LoadProgress(ctx)
		}
		data := r.opts.Filter.Select(cfg.GameMode, cfg.QuizSet, cfg.SelectedPromptTypes, p)
		r.dispatchFrom(gen, quiz.QuizDataLoaded{Data: data, Version: version})
		return loadErr
	})
}

func (r *Runner) updateLearning(entry quiz.HistoryEntry) {
	r.goAsync("update learning record", func(ctx context.Context) error {
		return r.opts.Progress.UpdateCountryLearningRecord(ctx, entry.CountryCode, entry.Successful)
	})
}

func (r *Runner) saveDaily(s quiz.State) {
	date := r.opts.Now().Format(store.DateLayout)
	entry := stats.DailyEntry(s, date)
	r.goAsync("save daily challenge", func(ctx context.Context) error {
		saved, err := r.opts.Progress.SaveDailyChallenge(ctx, date, entry)
		if err != nil {
			return err
		}
		if !saved {
			r.log.Info("daily challenge already saved", "date", date)
		}
		return nil
	})
}

func (r *Runner) logAnswer(s quiz.State, a quiz.AnswerSubmitted) {
	if r.opts.Events == nil {
		return
	}
	c, _ := s.CurrentCountry()
	g := s.Quiz.Prompt.Guesses[a.Type]
	data := store.AnswerEventData{
		SessionID:   r.sessionID,
		Mode:        string(s.Config.GameMode),
		CountryCode: c.Code,
		PromptType:  string(a.Type),
		Answer:      a.Value,
		Correct:     g.Status == quiz.GuessCompleted,
		Attempt:     g.AttemptCount,
	}
	r.goAsync("record answer", func(ctx context.Context) error {
		return r.opts.Events.AppendAnswerEvent(ctx, data)
	})
}

func (r *Runner) logSession(s quiz.State, action string) {
	if r.opts.Events == nil {
		return
	}
	data := store.SessionEventData{
		SessionID: r.sessionID,
		Action:    action,
		Mode:      string(s.Config.GameMode),
		QuizSet:   s.Config.QuizSet,
		Prompts:   len(s.Quiz.History),
	}
	for _, h := range s.Quiz.History {
		if h.Successful {
			data.Successful++
		}
	}
	r.goAsync("record session event", func(ctx context.Context) error {
		return r.opts.Events.AppendSessionEvent(ctx, data)
	})
}
