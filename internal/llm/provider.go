// Package llm talks to hosted language models. Callers build a Request,
// optionally with a JSON schema, and get back the model's JSON output.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion.
type Provider interface {
	// Generate sends req and returns the model output. With a Schema set,
	// the provider's structured output mode is used and Content holds the
	// validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the concrete model the provider calls.
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	// System sets the model's role and rules, e.g. never naming the
	// country a hint is about.
	System string

	// Messages is the conversation so far. Hints send a single user
	// message.
	Messages []Message

	// Schema is the JSON shape the reply must have. nil asks for free
	// text, returned as a JSON string.
	Schema *Schema

	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature is the sampling temperature, 0.0 to 1.0. Zero is
	// deterministic.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role says who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema asks the provider for structured JSON output.
type Schema struct {
	// Name identifies the schema, in kebab-case such as "country-hint". It
	// becomes the tool name for Anthropic and the schema name for OpenAI.
	// Compiled validators are cached by name, so it must be unique per
	// Definition.
	Name string

	// Description tells the model what the object represents.
	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response carries the model output.
type Response struct {
	// Content is the reply. When the request had a Schema, it has already
	// been validated against it; otherwise it is the text as a JSON string.
	Content json.RawMessage

	// Usage is the token count billed for this request.
	Usage Usage

	// Model is the model that served the request, which may differ from
	// the alias asked for.
	Model string

	// StopReason is why generation ended.
	StopReason StopReason
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is the sum of input and output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// StopReason is why generation ended, normalized across providers.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// resolveModel maps a short alias to a concrete model ID. Unknown names
// are used as given.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
