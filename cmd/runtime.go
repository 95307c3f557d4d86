package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/hints"
	"github.com/abhisek/geoquiz/internal/llm"
	"github.com/abhisek/geoquiz/internal/progress"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/store"
)

// runtime bundles the opened store, log sink and screen environment.
type runtime struct {
	Env     screen.Env
	store   *store.Store
	logFile *os.File
}

// Close waits for background hint requests before closing the store they
// record into.
func (r *runtime) Close() {
	if r.Env.Hints != nil {
		r.Env.Hints.Wait()
	}
	if r.store != nil {
		r.store.Close()
	}
	if r.logFile != nil {
		r.logFile.Close()
	}
}

// openRuntime opens the store (unless --no-save), loads the country
// catalog and builds the hint service when an LLM provider is configured.
// With tui set, logs go to a file next to the database so they do not
// draw over the terminal UI.
func openRuntime(cmd *cobra.Command, tui bool) (*runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	noSave, _ := cmd.Flags().GetBool("no-save")

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	rt := &runtime{}
	var sink io.Writer = os.Stderr
	if tui {
		f, err := os.OpenFile(filepath.Join(filepath.Dir(dbPath), "geoquiz.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			sink = io.Discard
		} else {
			rt.logFile = f
			sink = f
		}
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{Level: level}))

	catalog, err := countries.Default()
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("load countries: %w", err)
	}

	env := screen.Env{Catalog: catalog, Logger: logger, Now: time.Now}
	if noSave {
		env.Progress = progress.NewMemory()
	} else {
		st, err := store.Open(dbPath)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		rt.store = st
		env.Progress = progress.NewService(st.ProgressRepo())
		env.Events = st.EventRepo()
	}

	if svc, err := newHintService(ctx, env.Events, logger); err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Hints will be unavailable.")
	} else if svc != nil {
		env.Hints = svc
	}

	rt.Env = env
	return rt, nil
}

// newHintService returns nil with no error when no provider is configured
// at all.
func newHintService(ctx context.Context, events store.EventRepo, logger *slog.Logger) (*hints.Service, error) {
	cfg, ok := llm.ConfigFromEnv()
	if !ok {
		return nil, nil
	}
	provider, err := llm.New(ctx, cfg, events, logger)
	if err != nil {
		return nil, err
	}
	return hints.NewService(provider, events, hints.DefaultConfig(), logger), nil
}
