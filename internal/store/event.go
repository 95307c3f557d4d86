package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
}

// AnswerEventData captures one submitted answer.
type AnswerEventData struct {
	SessionID   string
	Mode        string
	CountryCode string
	PromptType  string
	Answer      string
	Correct     bool
	Attempt     int
}

// SessionEventData marks a session boundary (start, end, reset).
type SessionEventData struct {
	SessionID  string
	Action     string
	Mode       string
	QuizSet    string
	Prompts    int
	Successful int
}

// SessionEvent is a stored SessionEventData.
type SessionEvent struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// HintEventData records a hint shown for a missed country.
type HintEventData struct {
	SessionID   string
	CountryCode string
	HintText    string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// PromptTypeStats aggregates answers for one prompt type.
type PromptTypeStats struct {
	PromptType string
	Total      int
	Correct    int
}

// CountryMiss counts wrong answers for one country.
type CountryMiss struct {
	CountryCode string
	Misses      int
}

// LLMUsageStats aggregates LLM requests sharing a purpose or model.
type LLMUsageStats struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendHintEvent(ctx context.Context, data HintEventData) error
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AnswerStats groups answers by prompt type.
	AnswerStats(ctx context.Context, opts QueryOpts) ([]PromptTypeStats, error)
	// MostMissed returns the countries with the most wrong answers.
	MostMissed(ctx context.Context, limit int) ([]CountryMiss, error)
	// QuerySessionEvents returns session markers, newest first.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)
	// LLMUsageByPurpose and LLMUsageByModel total recorded LLM calls.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsageStats, error)
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals ...any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	q, args := builder().Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seqNum, time.Now()}, vals...)...).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, answerEventsTable,
		[]string{"session_id", "mode", "country_code", "prompt_type", "answer", "correct", "attempt"},
		data.SessionID, data.Mode, data.CountryCode, data.PromptType, data.Answer, data.Correct, data.Attempt,
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insert(ctx, sessionEventsTable,
		[]string{"session_id", "action", "mode", "quiz_set", "prompts", "successful"},
		data.SessionID, data.Action, data.Mode, data.QuizSet, data.Prompts, data.Successful,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendHintEvent(ctx context.Context, data HintEventData) error {
	err := r.insert(ctx, hintEventsTable,
		[]string{"session_id", "country_code", "hint_text"},
		data.SessionID, data.CountryCode, data.HintText,
	)
	if err != nil {
		return fmt.Errorf("save hint event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	var errMsg any
	if data.ErrorMessage != "" {
		errMsg = data.ErrorMessage
	}
	err := r.insert(ctx, llmEventsTable,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message"},
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, errMsg,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) AnswerStats(ctx context.Context, opts QueryOpts) ([]PromptTypeStats, error) {
	b := builder()
	t := b.Table(answerEventsTable)
	sel := b.Select(
		t.C("prompt_type"),
		entsql.As(entsql.Count("*"), "total"),
		entsql.As(entsql.Sum(t.C("correct")), "correct_total"),
	).From(t).GroupBy(t.C("prompt_type")).OrderBy(t.C("prompt_type"))
	applyOpts(sel, opts)

	q, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer stats: %w", err)
	}
	defer rows.Close()

	var out []PromptTypeStats
	for rows.Next() {
		var (
			s       PromptTypeStats
			correct sql.NullInt64
		)
		if err := rows.Scan(&s.PromptType, &s.Total, &correct); err != nil {
			return nil, fmt.Errorf("scan answer stats: %w", err)
		}
		s.Correct = int(correct.Int64)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *eventRepo) MostMissed(ctx context.Context, limit int) ([]CountryMiss, error) {
	b := builder()
	t := b.Table(answerEventsTable)
	sel := b.Select(t.C("country_code"), entsql.As(entsql.Count("*"), "misses")).
		From(t).
		Where(entsql.EQ(t.C("correct"), false)).
		GroupBy(t.C("country_code")).
		OrderBy(entsql.Desc("misses"), t.C("country_code"))
	if limit > 0 {
		sel.Limit(limit)
	}

	q, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query most missed: %w", err)
	}
	defer rows.Close()

	var out []CountryMiss
	for rows.Next() {
		var m CountryMiss
		if err := rows.Scan(&m.CountryCode, &m.Misses); err != nil {
			return nil, fmt.Errorf("scan most missed: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	b := builder()
	t := b.Table(sessionEventsTable)
	sel := b.Select(
		t.C("sequence"), t.C("timestamp"), t.C("session_id"), t.C("action"),
		t.C("mode"), t.C("quiz_set"), t.C("prompts"), t.C("successful"),
	).From(t).OrderBy(entsql.Desc(t.C("sequence")))
	applyOpts(sel, opts)

	q, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.SessionID, &e.Action,
			&e.Mode, &e.QuizSet, &e.Prompts, &e.Successful); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	return r.llmUsage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsageStats, error) {
	return r.llmUsage(ctx, "model")
}

func (r *eventRepo) llmUsage(ctx context.Context, column string) ([]LLMUsageStats, error) {
	b := builder()
	t := b.Table(llmEventsTable)
	sel := b.Select(
		t.C(column),
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("CASE WHEN "+t.C("success")+" THEN 0 ELSE 1 END"), "failures"),
		entsql.As(entsql.Sum(t.C("input_tokens")), "input_total"),
		entsql.As(entsql.Sum(t.C("output_tokens")), "output_total"),
		entsql.As(entsql.Avg(t.C("latency_ms")), "avg_latency"),
	).From(t).GroupBy(t.C(column)).OrderBy(t.C(column))

	q, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query llm usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsageStats
	for rows.Next() {
		var (
			u        LLMUsageStats
			failures sql.NullInt64
			in, outT sql.NullInt64
			latency  sql.NullFloat64
		)
		if err := rows.Scan(&u.Key, &u.Calls, &failures, &in, &outT, &latency); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		u.Failures = int(failures.Int64)
		u.InputTokens = int(in.Int64)
		u.OutputTokens = int(outT.Int64)
		u.AvgLatencyMs = int64(latency.Float64)
		out = append(out, u)
	}
	return out, rows.Err()
}

func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
