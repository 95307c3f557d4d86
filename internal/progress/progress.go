// Package progress is the persistence adapter between the quiz and the
// player's saved progress.
package progress

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abhisek/geoquiz/internal/spacedrep"
	"github.com/abhisek/geoquiz/internal/stats"
	"github.com/abhisek/geoquiz/internal/store"
)

// Adapter loads and saves player progress.
type Adapter interface {
	// LoadProgress returns everything saved, or an empty value.
	LoadProgress(ctx context.Context) (*store.UserProgressData, error)

	// SaveDailyChallenge saves entry for date and advances the streak.
	// Returns false without writing if date already has an entry.
	SaveDailyChallenge(ctx context.Context, date string, entry store.DailyEntry) (bool, error)

	// UpdateCountryLearningRecord applies one learning-mode result.
	UpdateCountryLearningRecord(ctx context.Context, code string, correct bool) error

	// ClearAllProgress wipes all saved progress.
	ClearAllProgress(ctx context.Context) error
}

// keyedMutex serializes work per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Service implements Adapter over a store.ProgressRepo.
type Service struct {
	repo  store.ProgressRepo
	now   func() time.Time
	loads singleflight.Group
	locks keyedMutex
}

// NewService returns a Service on the wall clock.
func NewService(repo store.ProgressRepo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the clock used to date learning records.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) LoadProgress(ctx context.Context) (*store.UserProgressData, error) {
	v, err, _ := s.loads.Do("progress", func() (any, error) {
		return s.repo.Load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return cloneProgress(v.(*store.UserProgressData)), nil
}

func (s *Service) SaveDailyChallenge(ctx context.Context, date string, entry store.DailyEntry) (bool, error) {
	entry.Date = date
	unlock := s.locks.Lock("daily:" + date)
	defer unlock()
	return s.repo.InsertDailyEntry(ctx, entry, func(old store.Streak) store.Streak {
		return stats.NextStreak(old, date)
	})
}

func (s *Service) UpdateCountryLearningRecord(ctx context.Context, code string, correct bool) error {
	unlock := s.locks.Lock("country:" + code)
	defer unlock()
	now := s.now()
	return s.repo.UpdateCountry(ctx, code, func(cur store.CountryLearningRecord) store.CountryLearningRecord {
		return spacedrep.Apply(cur, correct, now)
	})
}

func (s *Service) ClearAllProgress(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// cloneProgress copies p so callers sharing a singleflight result cannot
// see each other's edits.
func cloneProgress(p *store.UserProgressData) *store.UserProgressData {
	if p == nil {
		return store.EmptyProgress()
	}
	out := store.EmptyProgress()
	out.DailyChallenge.Streak = p.DailyChallenge.Streak
	out.DailyChallenge.FullEntries = append(out.DailyChallenge.FullEntries, p.DailyChallenge.FullEntries...)
	for code, rec := range p.Countries {
		out.Countries[code] = cloneRecord(rec)
	}
	return out
}

func cloneRecord(rec store.CountryLearningRecord) store.CountryLearningRecord {
	var out store.CountryLearningRecord
	if rec.LastChecked != nil {
		v := *rec.LastChecked
		out.LastChecked = &v
	}
	if rec.LearningRate != nil {
		v := *rec.LearningRate
		out.LearningRate = &v
	}
	return out
}
