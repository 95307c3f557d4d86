package screen

import (
	"log/slog"
	"time"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/hints"
	"github.com/abhisek/geoquiz/internal/progress"
	"github.com/abhisek/geoquiz/internal/store"
)

// Env is what screens need to build quizzes and read progress.
type Env struct {
	Catalog  *countries.Catalog
	Progress progress.Adapter
	Events   store.EventRepo // nil when not saving
	Hints    *hints.Service  // nil without an LLM provider
	Logger   *slog.Logger
	Now      func() time.Time
}

// Today returns the current time, honoring a test clock.
func (e Env) Today() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
