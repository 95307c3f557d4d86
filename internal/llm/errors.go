package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies provider failures for retry decisions.
type Kind int

const (
	KindUnavailable Kind = iota
	KindRateLimited
	KindInvalidOutput
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalidOutput:
		return "invalid output"
	case KindTruncated:
		return "truncated"
	default:
		return "unavailable"
	}
}

// Error is returned by every provider in this package.
type Error struct {
	Kind       Kind
	RetryAfter time.Duration   // rate limits only
	Content    json.RawMessage // invalid or truncated output
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func invalidOutput(content json.RawMessage, err error) *Error {
	return &Error{Kind: KindInvalidOutput, Content: content, Err: err}
}

// fromStatus classifies an HTTP status reported by an SDK.
func fromStatus(status int, err error) *Error {
	if status == http.StatusTooManyRequests {
		return &Error{Kind: KindRateLimited, Err: err}
	}
	return &Error{Kind: KindUnavailable, Err: err}
}
