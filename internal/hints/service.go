// Package hints asks a language model for clues about a country. Hints are
// cached per country and can be fetched in the background while a prompt
// is on screen.
package hints

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/llm"
	"github.com/abhisek/geoquiz/internal/store"
)

// Hint is a clue for one country.
type Hint struct {
	CountryCode string
	Text        string
	Facts       []string
}

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{MaxTokens: 300, Temperature: 0.7}
}

// Service generates and caches hints. Safe for concurrent use.
type Service struct {
	provider llm.Provider
	events   store.EventRepo
	cfg      Config
	log      *slog.Logger

	group singleflight.Group
	wg    sync.WaitGroup

	mu     sync.Mutex
	cache  map[string]Hint
	ready  map[string]bool
	failed map[string]error
}

// NewService returns a hint service. events may be nil.
func NewService(provider llm.Provider, events store.EventRepo, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		provider: provider,
		events:   events,
		cfg:      cfg,
		log:      logger,
		cache:    make(map[string]Hint),
		ready:    make(map[string]bool),
		failed:   make(map[string]error),
	}
}

// Get returns the hint for c, generating it on first use. Concurrent
// calls for the same country share one request.
func (s *Service) Get(ctx context.Context, c countries.Country, sessionID string) (Hint, error) {
	s.mu.Lock()
	if h, ok := s.cache[c.Code]; ok {
		s.mu.Unlock()
		return h, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(c.Code, func() (any, error) {
		h, err := s.generate(ctx, c)
		if err != nil {
			return Hint{}, err
		}
		s.mu.Lock()
		s.cache[c.Code] = h
		s.mu.Unlock()
		s.record(ctx, sessionID, h)
		return h, nil
	})
	if err != nil {
		return Hint{}, err
	}
	return v.(Hint), nil
}

// Request starts generating a hint for c in the background. The result is
// collected with Consume. Requests whose ctx is canceled leave no result.
func (s *Service) Request(ctx context.Context, c countries.Country, sessionID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, err := s.Get(ctx, c, sessionID)
		if ctx.Err() != nil {
			s.log.Debug("hint request canceled", "country", c.Code)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.ready[c.Code] = true
		if err != nil {
			s.failed[c.Code] = err
			s.log.Warn("hint request failed", "country", c.Code, "err", err)
		}
	}()
}

// Wait blocks until every background request has returned.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Result is a finished background request.
type Result struct {
	Hint Hint
	Err  error
}

// Consume returns the result of an earlier Request for code once it has
// finished. ok is false while the request is still running or when none
// was made. Each result is handed out once.
func (s *Service) Consume(code string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready[code] {
		return Result{}, false
	}
	delete(s.ready, code)
	if err := s.failed[code]; err != nil {
		delete(s.failed, code)
		return Result{Err: err}, true
	}
	return Result{Hint: s.cache[code]}, true
}

type hintOutput struct {
	Hint  string   `json:"hint"`
	Facts []string `json:"facts"`
}

func (s *Service) generate(ctx context.Context, c countries.Country) (Hint, error) {
	ctx = llm.WithPurpose(ctx, "country-hint")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Country: %s (ISO code %s). Write the hint.", c.Name, c.Code)},
		},
		Schema:      HintSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Hint{}, fmt.Errorf("hint for %s: %w", c.Code, err)
	}

	var out hintOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Hint{}, fmt.Errorf("parse hint for %s: %w", c.Code, err)
	}

	h := Hint{CountryCode: c.Code, Text: Redact(out.Hint, c)}
	for i, f := range out.Facts {
		if i == 3 {
			break
		}
		h.Facts = append(h.Facts, Redact(f, c))
	}
	return h, nil
}

func (s *Service) record(ctx context.Context, sessionID string, h Hint) {
	if s.events == nil {
		return
	}
	err := s.events.AppendHintEvent(ctx, store.HintEventData{
		SessionID:   sessionID,
		CountryCode: h.CountryCode,
		HintText:    h.Text,
	})
	if err != nil {
		s.log.Warn("record hint", "country", h.CountryCode, "err", err)
	}
}

// Redact masks every occurrence of the country's name and aliases in text.
func Redact(text string, c countries.Country) string {
	names := append([]string{c.Name}, c.Aliases...)
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(n) + `\b`)
		text = re.ReplaceAllString(text, "▢▢▢")
	}
	return text
}
