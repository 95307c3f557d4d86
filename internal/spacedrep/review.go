package spacedrep

import (
	"time"

	"github.com/abhisek/geoquiz/internal/store"
)

// ReviewState is the scheduling view of one country's learning record.
type ReviewState struct {
	Code        string
	LastChecked time.Time // zero if never checked
	Rate        float64
	HasRecord   bool
}

// newReviewState interprets a stored record in loc. Malformed dates are
// treated as never checked.
func newReviewState(code string, rec store.CountryLearningRecord, ok bool, loc *time.Location) ReviewState {
	rs := ReviewState{Code: code, Rate: DefaultInterval, HasRecord: ok}
	if !ok {
		return rs
	}
	if rec.LearningRate != nil && *rec.LearningRate > 0 {
		rs.Rate = *rec.LearningRate
	}
	if rec.LastChecked != nil {
		if t, err := time.ParseInLocation(store.DateLayout, *rec.LastChecked, loc); err == nil {
			rs.LastChecked = t
		}
	}
	return rs
}

// ElapsedDays returns the fractional days from the last check to asOf.
func (rs ReviewState) ElapsedDays(asOf time.Time) float64 {
	if rs.LastChecked.IsZero() {
		return 0
	}
	return asOf.Sub(rs.LastChecked).Hours() / 24.0
}

// IsDue reports whether the country should be reviewed at asOf.
func (rs ReviewState) IsDue(asOf time.Time) bool {
	if !rs.HasRecord || rs.LastChecked.IsZero() {
		return true
	}
	return rs.ElapsedDays(asOf) >= rs.Rate
}

// OverdueDays returns how many days past due the country is. Returns 0 if
// not yet due or never checked.
func (rs ReviewState) OverdueDays(asOf time.Time) float64 {
	if rs.LastChecked.IsZero() {
		return 0
	}
	over := rs.ElapsedDays(asOf) - rs.Rate
	if over < 0 {
		return 0
	}
	return over
}

// NextReview returns the instant the country becomes due.
func (rs ReviewState) NextReview() time.Time {
	if rs.LastChecked.IsZero() {
		return time.Time{}
	}
	return rs.LastChecked.Add(time.Duration(rs.Rate * 24 * float64(time.Hour)))
}
