package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Config selects and configures one provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string // OpenAI-compatible endpoints only
	Timeout  time.Duration
	Retry    RetryConfig
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

var defaultModels = map[string]string{
	ProviderAnthropic: "claude-haiku",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderGemini:    "gemini-flash",
	ProviderMock:      "mock",
}

var keyVars = map[string]string{
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
}

// DefaultRetry is three attempts with exponential backoff from 1s.
func DefaultRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 10 * time.Second, Multiplier: 2}
}

// ConfigFromEnv reads GEOQUIZ_LLM_PROVIDER, GEOQUIZ_LLM_MODEL and
// GEOQUIZ_LLM_BASE_URL, and the provider's usual API key variable. With
// no provider set, the first provider whose key is present is used
// (Gemini, then OpenAI, then Anthropic). ok is false when nothing is
// configured.
func ConfigFromEnv() (cfg Config, ok bool) {
	cfg = Config{
		Provider: os.Getenv("GEOQUIZ_LLM_PROVIDER"),
		Model:    os.Getenv("GEOQUIZ_LLM_MODEL"),
		BaseURL:  os.Getenv("GEOQUIZ_LLM_BASE_URL"),
		Timeout:  30 * time.Second,
		Retry:    DefaultRetry(),
	}
	if cfg.Provider == "" {
		for _, p := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
			if os.Getenv(keyVars[p]) != "" {
				cfg.Provider = p
				break
			}
		}
	}
	if cfg.Provider == "" {
		return cfg, false
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	if v, found := keyVars[cfg.Provider]; found {
		cfg.APIKey = os.Getenv(v)
	}
	return cfg, true
}

// Validate checks that the provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	v, ok := keyVars[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s is required for the %s provider", v, c.Provider)
	}
	return nil
}
