package session

import (
	"io"
	"log/slog"
	"time"

	"github.com/abhisek/geoquiz/internal/progress"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/quizdata"
	"github.com/abhisek/geoquiz/internal/store"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

// Options wires a Runner to its collaborators.
type Options struct {
	Engine   *quiz.Engine
	Filter   *quizdata.Filter
	Progress progress.Adapter
	Events   store.EventRepo // optional
	Logger   *slog.Logger
	Now      func() time.Time
	After    AfterFunc

	// Review pause after a fully correct question and after a miss.
	SuccessDelay time.Duration
	FailureDelay time.Duration

	// OnChange receives the state after every dispatch, outside the
	// runner's lock.
	OnChange func(quiz.State)
}

// DefaultOptions returns options with the standard review delays and the
// wall clock.
func DefaultOptions() Options {
	return Options{
		Now:          time.Now,
		After:        func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) },
		SuccessDelay: time.Second,
		FailureDelay: 3 * time.Second,
	}
}

func (o *Options) fill() {
	def := DefaultOptions()
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Engine == nil {
		o.Engine = quiz.NewEngine(o.Logger)
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	if o.After == nil {
		o.After = def.After
	}
	if o.SuccessDelay == 0 {
		o.SuccessDelay = def.SuccessDelay
	}
	if o.FailureDelay == 0 {
		o.FailureDelay = def.FailureDelay
	}
	if o.Progress == nil {
		o.Progress = progress.NewMemory()
	}
}
