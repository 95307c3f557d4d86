// Package countries holds the static country reference data and the named
// quiz sets built from it.
package countries

import "slices"

// PromptType identifies how a country is asked for.
type PromptType string

const (
	PromptLocation PromptType = "location"
	PromptName     PromptType = "name"
	PromptFlag     PromptType = "flag"
)

// AllPromptTypes lists every prompt type in display order.
var AllPromptTypes = []PromptType{PromptLocation, PromptName, PromptFlag}

// Valid reports whether p is a known prompt type.
func (p PromptType) Valid() bool {
	return slices.Contains(AllPromptTypes, p)
}

// Sentinel quiz-set names.
const (
	AllCountries      = "all"
	DailyChallengeSet = "Daily challenge"
)

// Location is a lat/long pair in degrees.
type Location struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Country is one immutable reference record.
type Country struct {
	Code             string       `json:"code"`
	Name             string       `json:"name"`
	Aliases          []string     `json:"aliases"`
	FlagCode         string       `json:"flagCode"`
	Location         Location     `json:"location"`
	AvailablePrompts []PromptType `json:"availablePrompts"`
}

// HasPrompt reports whether the country can be asked with p.
func (c Country) HasPrompt(p PromptType) bool {
	return slices.Contains(c.AvailablePrompts, p)
}

// PromptsIn reports whether any of the given types is available for c.
func (c Country) PromptsIn(types []PromptType) bool {
	for _, t := range types {
		if c.HasPrompt(t) {
			return true
		}
	}
	return false
}

// QuizSet is a named grouping of country codes.
type QuizSet struct {
	Name  string   `json:"name"`
	Codes []string `json:"countries"`
}
