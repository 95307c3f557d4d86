package countries

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks the reference-data invariants and returns one error
// listing every problem found.
func (c *Catalog) Validate() error {
	var errs []string

	seen := make(map[string]bool, len(c.countries))
	for _, ct := range c.countries {
		if len(ct.Code) != 3 {
			errs = append(errs, fmt.Sprintf("country %q: code must have 3 letters", ct.Code))
		}
		if seen[ct.Code] {
			errs = append(errs, fmt.Sprintf("duplicate country code: %q", ct.Code))
		}
		seen[ct.Code] = true

		if ct.Name == "" {
			errs = append(errs, fmt.Sprintf("country %q has no name", ct.Code))
		}
		if len(ct.AvailablePrompts) == 0 {
			errs = append(errs, fmt.Sprintf("country %q has no available prompts", ct.Code))
		}
		for _, p := range ct.AvailablePrompts {
			if !p.Valid() {
				errs = append(errs, fmt.Sprintf("country %q has unknown prompt type %q", ct.Code, p))
			}
		}
		if len(ct.FlagCode) != 2 || ct.FlagCode != strings.ToUpper(ct.FlagCode) {
			errs = append(errs, fmt.Sprintf("country %q: flag code %q must be 2 uppercase letters", ct.Code, ct.FlagCode))
		}
	}

	// Countries sharing a flag must designate exactly one flag prompt.
	flagPrompters := make(map[string][]string)
	flagUsers := make(map[string]int)
	for _, ct := range c.countries {
		flagUsers[ct.FlagCode]++
		if ct.HasPrompt(PromptFlag) {
			flagPrompters[ct.FlagCode] = append(flagPrompters[ct.FlagCode], ct.Code)
		}
	}
	flags := make([]string, 0, len(flagUsers))
	for f := range flagUsers {
		flags = append(flags, f)
	}
	sort.Strings(flags)
	for _, f := range flags {
		if flagUsers[f] < 2 {
			continue
		}
		if n := len(flagPrompters[f]); n != 1 {
			errs = append(errs, fmt.Sprintf("flag %q is shared but has %d flag-prompting countries %v, want 1", f, n, flagPrompters[f]))
		}
	}

	setNames := make(map[string]bool, len(c.sets))
	for _, s := range c.sets {
		if setNames[s.Name] {
			errs = append(errs, fmt.Sprintf("duplicate quiz set: %q", s.Name))
		}
		setNames[s.Name] = true
		if s.Name == AllCountries || s.Name == DailyChallengeSet {
			errs = append(errs, fmt.Sprintf("quiz set name %q is reserved", s.Name))
		}
		for _, code := range s.Codes {
			if !seen[code] {
				errs = append(errs, fmt.Sprintf("quiz set %q references nonexistent country %q", s.Name, code))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
