package llm

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/abhisek/geoquiz/internal/store"
)

type logging struct {
	inner  Provider
	events store.EventRepo
	log    *slog.Logger
	now    func() time.Time
}

// WithLogging records each request in events (when non-nil) and logs it.
// Failures to record are logged and never fail the request.
func WithLogging(p Provider, events store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &logging{inner: p, events: events, log: logger, now: time.Now}
}

func (l *logging) ModelID() string { return l.inner.ModelID() }

func (l *logging) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: l.now().Sub(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	attrs := []any{
		"purpose", data.Purpose, "model", data.Model, "latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens, "output_tokens", data.OutputTokens,
	}
	if c, ok := Cost(data.Model, data.InputTokens, data.OutputTokens); ok {
		attrs = append(attrs, "cost_usd", c)
	}
	if err != nil {
		l.log.Warn("llm request failed", append(attrs, "err", err)...)
	} else {
		l.log.Debug("llm request", attrs...)
	}

	if l.events != nil {
		if lerr := l.events.AppendLLMRequest(ctx, data); lerr != nil {
			l.log.Warn("record llm request", "err", lerr)
		}
	}
	return resp, err
}
