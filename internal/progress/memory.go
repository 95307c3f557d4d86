package progress

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/geoquiz/internal/spacedrep"
	"github.com/abhisek/geoquiz/internal/stats"
	"github.com/abhisek/geoquiz/internal/store"
)

// Memory is an Adapter that keeps progress in memory. It backs tests and
// sessions played without saving.
type Memory struct {
	mu   sync.Mutex
	data *store.UserProgressData
	Now  func() time.Time
}

// NewMemory returns an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{data: store.EmptyProgress(), Now: time.Now}
}

func (m *Memory) LoadProgress(context.Context) (*store.UserProgressData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneProgress(m.data), nil
}

func (m *Memory) SaveDailyChallenge(_ context.Context, date string, entry store.DailyEntry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.data.DailyChallenge.FullEntries {
		if e.Date == date {
			return false, nil
		}
	}
	entry.Date = date
	m.data.DailyChallenge.FullEntries = append(m.data.DailyChallenge.FullEntries, entry)
	m.data.DailyChallenge.Streak = stats.NextStreak(m.data.DailyChallenge.Streak, date)
	return true, nil
}

func (m *Memory) UpdateCountryLearningRecord(_ context.Context, code string, correct bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	m.data.Countries[code] = spacedrep.Apply(m.data.Countries[code], correct, now())
	return nil
}

func (m *Memory) ClearAllProgress(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = store.EmptyProgress()
	return nil
}
