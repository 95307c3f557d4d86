package spacedrep

import (
	"sort"
	"time"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/store"
)

// Scheduler answers due-list questions over a snapshot of progress.
type Scheduler struct {
	records map[string]store.CountryLearningRecord
}

// NewScheduler wraps progress. A nil progress schedules every country.
func NewScheduler(progress *store.UserProgressData) *Scheduler {
	s := &Scheduler{records: map[string]store.CountryLearningRecord{}}
	if progress != nil && progress.Countries != nil {
		s.records = progress.Countries
	}
	return s
}

// State returns the review state of code as seen from asOf's location.
func (s *Scheduler) State(code string, asOf time.Time) ReviewState {
	rec, ok := s.records[code]
	return newReviewState(code, rec, ok, asOf.Location())
}

// DueCountries returns the codes of all countries due at asOf, in the
// order of all.
func (s *Scheduler) DueCountries(asOf time.Time, all []countries.Country) []string {
	var due []string
	for _, c := range all {
		if s.State(c.Code, asOf).IsDue(asOf) {
			due = append(due, c.Code)
		}
	}
	return due
}

// DueStates returns the due countries sorted most overdue first, with
// never-seen countries last.
func (s *Scheduler) DueStates(asOf time.Time, all []countries.Country) []ReviewState {
	var out []ReviewState
	for _, c := range all {
		rs := s.State(c.Code, asOf)
		if rs.IsDue(asOf) {
			out = append(out, rs)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].LastChecked.IsZero(), out[j].LastChecked.IsZero()
		if ai != aj {
			return !ai
		}
		return out[i].OverdueDays(asOf) > out[j].OverdueDays(asOf)
	})
	return out
}

// Upcoming returns reviewed countries that are not yet due, soonest first.
func (s *Scheduler) Upcoming(asOf time.Time, all []countries.Country) []ReviewState {
	var out []ReviewState
	for _, c := range all {
		rs := s.State(c.Code, asOf)
		if rs.HasRecord && !rs.IsDue(asOf) {
			out = append(out, rs)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextReview().Before(out[j].NextReview())
	})
	return out
}

// DueCountries is the free-function form of Scheduler.DueCountries.
func DueCountries(progress *store.UserProgressData, asOf time.Time, all []countries.Country) []string {
	return NewScheduler(progress).DueCountries(asOf, all)
}
