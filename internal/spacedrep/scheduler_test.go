package spacedrep

import (
	"testing"
	"time"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/store"
)

func s(v string) *string { return &v }

var testCountries = []countries.Country{
	{Code: "FRA", Name: "France"},
	{Code: "DEU", Name: "Germany"},
	{Code: "ITA", Name: "Italy"},
	{Code: "ESP", Name: "Spain"},
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func contains(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func TestDueCountries_NoRecordIsDue(t *testing.T) {
	got := DueCountries(store.EmptyProgress(), day(2026, 1, 15), testCountries)
	if len(got) != len(testCountries) {
		t.Errorf("DueCountries() = %v, want all countries", got)
	}
}

func TestDueCountries_NilProgress(t *testing.T) {
	got := DueCountries(nil, day(2026, 1, 15), testCountries)
	if len(got) != len(testCountries) {
		t.Errorf("DueCountries(nil) = %v, want all countries", got)
	}
}

func TestDueCountries_NoLastCheckedIsDue(t *testing.T) {
	p := store.EmptyProgress()
	p.Countries["FRA"] = store.CountryLearningRecord{LearningRate: f(50)}
	got := DueCountries(p, day(2026, 1, 15), testCountries)
	if !contains(got, "FRA") {
		t.Errorf("FRA without lastChecked should be due, got %v", got)
	}
}

func TestDueCountries_Boundary(t *testing.T) {
	p := store.EmptyProgress()
	p.Countries["FRA"] = store.CountryLearningRecord{LastChecked: s("2026-01-15"), LearningRate: f(3.2)}

	tests := []struct {
		asOf time.Time
		due  bool
	}{
		{day(2026, 1, 15), false},
		{day(2026, 1, 17), false},
		{day(2026, 1, 19), true},
		{day(2026, 2, 1), true},
	}
	for _, tt := range tests {
		got := contains(DueCountries(p, tt.asOf, testCountries), "FRA")
		if got != tt.due {
			t.Errorf("asOf %s: due = %v, want %v", tt.asOf.Format(store.DateLayout), got, tt.due)
		}
	}
}

func TestDueCountries_ExactInterval(t *testing.T) {
	p := store.EmptyProgress()
	p.Countries["DEU"] = store.CountryLearningRecord{LastChecked: s("2026-01-15"), LearningRate: f(3)}

	if contains(DueCountries(p, day(2026, 1, 17), testCountries), "DEU") {
		t.Error("DEU should not be due at day N-1")
	}
	if !contains(DueCountries(p, day(2026, 1, 18), testCountries), "DEU") {
		t.Error("DEU should be due at day N")
	}
}

func TestDueCountries_PreservesOrder(t *testing.T) {
	p := store.EmptyProgress()
	p.Countries["DEU"] = store.CountryLearningRecord{LastChecked: s("2026-01-15"), LearningRate: f(10)}
	got := DueCountries(p, day(2026, 1, 16), testCountries)
	want := []string{"FRA", "ITA", "ESP"}
	if len(got) != len(want) {
		t.Fatalf("DueCountries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestReviewState_OverdueDays(t *testing.T) {
	p := store.EmptyProgress()
	p.Countries["ITA"] = store.CountryLearningRecord{LastChecked: s("2026-01-01"), LearningRate: f(2)}
	sch := NewScheduler(p)

	rs := sch.State("ITA", day(2026, 1, 6))
	if got := rs.OverdueDays(day(2026, 1, 6)); got < 2.99 || got > 3.01 {
		t.Errorf("OverdueDays() = %f, want ~3", got)
	}
	if got := rs.OverdueDays(day(2026, 1, 2)); got != 0 {
		t.Errorf("OverdueDays() before due = %f, want 0", got)
	}
	if !rs.NextReview().Equal(day(2026, 1, 3)) {
		t.Errorf("NextReview() = %v, want 2026-01-03", rs.NextReview())
	}
}

func TestScheduler_DueStatesOrdering(t *testing.T) {
	p := store.EmptyProgress()
	p.Countries["FRA"] = store.CountryLearningRecord{LastChecked: s("2026-01-01"), LearningRate: f(2)}
	p.Countries["DEU"] = store.CountryLearningRecord{LastChecked: s("2026-01-08"), LearningRate: f(1)}
	p.Countries["ITA"] = store.CountryLearningRecord{LastChecked: s("2026-01-09"), LearningRate: f(30)}
	sch := NewScheduler(p)

	got := sch.DueStates(day(2026, 1, 10), testCountries)
	var codes []string
	for _, rs := range got {
		codes = append(codes, rs.Code)
	}
	want := []string{"FRA", "DEU", "ESP"}
	if len(codes) != len(want) {
		t.Fatalf("DueStates() = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("[%d] = %s, want %s", i, codes[i], want[i])
		}
	}

	up := sch.Upcoming(day(2026, 1, 10), testCountries)
	if len(up) != 1 || up[0].Code != "ITA" {
		t.Errorf("Upcoming() = %v, want [ITA]", up)
	}
}
