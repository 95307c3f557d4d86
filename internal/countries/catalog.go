package countries

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed countries.json
var embedded []byte

// ErrUnknownSet is returned when a quiz-set name is not in the catalog.
var ErrUnknownSet = errors.New("unknown quiz set")

type document struct {
	Countries []Country `json:"countries"`
	QuizSets  []QuizSet `json:"quizSets"`
}

// Catalog indexes the reference data. It is read-only once built.
type Catalog struct {
	countries []Country
	byCode    map[string]int
	byName    map[string]int
	sets      []QuizSet
	setByName map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded data file.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(embedded)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for callers that treat broken embedded data as a
// programming error.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads and indexes a JSON document from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read country data: %w", err)
	}
	return Parse(data)
}

// Parse indexes a JSON document. Flag codes are normalized to uppercase.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode country data: %w", err)
	}
	return New(doc.Countries, doc.QuizSets), nil
}

// New builds a catalog from already decoded records.
func New(countries []Country, sets []QuizSet) *Catalog {
	c := &Catalog{
		countries: make([]Country, len(countries)),
		byCode:    make(map[string]int, len(countries)),
		byName:    make(map[string]int, len(countries)),
		sets:      sets,
		setByName: make(map[string]int, len(sets)),
	}
	for i, ct := range countries {
		ct.FlagCode = strings.ToUpper(ct.FlagCode)
		c.countries[i] = ct
		if _, dup := c.byCode[ct.Code]; !dup {
			c.byCode[ct.Code] = i
		}
		c.byName[strings.ToLower(ct.Name)] = i
	}
	for i, s := range sets {
		c.setByName[s.Name] = i
	}
	return c
}

// All returns a copy of every country in file order.
func (c *Catalog) All() []Country {
	out := make([]Country, len(c.countries))
	copy(out, c.countries)
	return out
}

// Len returns the number of countries.
func (c *Catalog) Len() int { return len(c.countries) }

// ByCode looks up a country by its 3-letter code.
func (c *Catalog) ByCode(code string) (Country, bool) {
	i, ok := c.byCode[strings.ToUpper(code)]
	if !ok {
		return Country{}, false
	}
	return c.countries[i], true
}

// Lookup resolves a code, display name or alias, case-insensitively.
func (c *Catalog) Lookup(query string) (Country, bool) {
	q := strings.TrimSpace(query)
	if ct, ok := c.ByCode(q); ok {
		return ct, true
	}
	if i, ok := c.byName[strings.ToLower(q)]; ok {
		return c.countries[i], true
	}
	for _, ct := range c.countries {
		for _, a := range ct.Aliases {
			if strings.EqualFold(a, q) {
				return ct, true
			}
		}
	}
	return Country{}, false
}

// QuizSets returns the named quiz sets in file order.
func (c *Catalog) QuizSets() []QuizSet {
	out := make([]QuizSet, len(c.sets))
	copy(out, c.sets)
	return out
}

// QuizSet returns the set with the given name.
func (c *Catalog) QuizSet(name string) (QuizSet, error) {
	i, ok := c.setByName[name]
	if !ok {
		return QuizSet{}, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return c.sets[i], nil
}

// CountriesInSet resolves a set's codes to records, skipping unknown codes.
func (c *Catalog) CountriesInSet(name string) ([]Country, error) {
	s, err := c.QuizSet(name)
	if err != nil {
		return nil, err
	}
	out := make([]Country, 0, len(s.Codes))
	for _, code := range s.Codes {
		if ct, ok := c.ByCode(code); ok {
			out = append(out, ct)
		}
	}
	return out, nil
}

// Names returns every display name and alias, sorted. Used for answer
// suggestions.
func (c *Catalog) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ct := range c.countries {
		if !seen[ct.Name] {
			seen[ct.Name] = true
			out = append(out, ct.Name)
		}
	}
	sort.Strings(out)
	return out
}
