package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/geoquiz/internal/store"
)

// New builds the configured provider wrapped as caller → retry → logging →
// provider. events may be nil.
func New(ctx context.Context, cfg Config, events store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropic(cfg)
	case ProviderOpenAI:
		base, err = NewOpenAI(cfg)
	case ProviderGemini:
		base, err = NewGemini(ctx, cfg)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}
	return WithTimeout(WithRetry(WithLogging(base, events, logger), cfg.Retry), cfg.Timeout), nil
}
