package history

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/geoquiz/internal/progress"
	"github.com/abhisek/geoquiz/internal/stats"
	"github.com/abhisek/geoquiz/internal/store"
)

// Report is everything the history screen and the stats command show.
type Report struct {
	Streak   int
	Best     store.DailyEntry
	Daily    []store.DailyEntry // newest first
	Types    []store.PromptTypeStats
	Missed   []store.CountryMiss
	Sessions []store.SessionEvent // finished sessions, newest first
}

// LoadReport gathers saved progress and, when events is non-nil, the
// answer statistics. Queries run concurrently.
func LoadReport(ctx context.Context, adapter progress.Adapter, events store.EventRepo, now time.Time) (Report, error) {
	var rep Report
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := adapter.LoadProgress(gctx)
		if err != nil {
			return err
		}
		rep.Streak = stats.CurrentStreak(p.DailyChallenge.Streak, now)
		rep.Daily = slices.Clone(p.DailyChallenge.FullEntries)
		slices.SortFunc(rep.Daily, func(a, b store.DailyEntry) int {
			switch {
			case a.Date > b.Date:
				return -1
			case a.Date < b.Date:
				return 1
			}
			return 0
		})
		for _, e := range rep.Daily {
			if e.Score > rep.Best.Score || (e.Score == rep.Best.Score && e.SkillScore > rep.Best.SkillScore) {
				rep.Best = e
			}
		}
		return nil
	})

	if events != nil {
		g.Go(func() error {
			var err error
			rep.Types, err = events.AnswerStats(gctx, store.QueryOpts{})
			return err
		})
		g.Go(func() error {
			var err error
			rep.Missed, err = events.MostMissed(gctx, 5)
			return err
		})
		g.Go(func() error {
			all, err := events.QuerySessionEvents(gctx, store.QueryOpts{Limit: 100})
			if err != nil {
				return err
			}
			for _, e := range all {
				if e.Action == "end" && len(rep.Sessions) < 10 {
					rep.Sessions = append(rep.Sessions, e)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return rep, nil
}
