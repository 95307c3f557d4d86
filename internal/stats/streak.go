package stats

import (
	"time"

	"github.com/abhisek/geoquiz/internal/store"
)

// NextStreak returns the streak after a daily challenge saved on date.
// Playing the day after LastPlayed extends it, replaying the same day
// keeps it, anything else restarts at 1.
func NextStreak(old store.Streak, date string) store.Streak {
	if old.LastPlayed == date && old.Current > 0 {
		return old
	}
	d, err := time.Parse(store.DateLayout, date)
	if err != nil {
		return store.Streak{Current: 1, LastPlayed: date}
	}
	yesterday := d.AddDate(0, 0, -1).Format(store.DateLayout)
	if old.LastPlayed == yesterday {
		return store.Streak{Current: old.Current + 1, LastPlayed: date}
	}
	return store.Streak{Current: 1, LastPlayed: date}
}

// CurrentStreak reports the streak as of today: a streak whose last day
// is before yesterday has lapsed.
func CurrentStreak(s store.Streak, today time.Time) int {
	if s.LastPlayed == "" {
		return 0
	}
	t := today.Format(store.DateLayout)
	y := today.AddDate(0, 0, -1).Format(store.DateLayout)
	if s.LastPlayed == t || s.LastPlayed == y {
		return s.Current
	}
	return 0
}

// Tier labels a streak length.
type Tier string

const (
	TierNone      Tier = ""
	TierBronze    Tier = "bronze"
	TierSilver    Tier = "silver"
	TierGold      Tier = "gold"
	TierLegendary Tier = "legendary"
)

// StreakTier returns the tier for a streak of length days.
func StreakTier(length int) Tier {
	switch {
	case length >= 30:
		return TierLegendary
	case length >= 14:
		return TierGold
	case length >= 7:
		return TierSilver
	case length >= 3:
		return TierBronze
	default:
		return TierNone
	}
}
