package llm

import (
	"context"
	"errors"
)

// ErrTimeout marks a provider call that exceeded its bounded request
// timeout, so callers can report the hang instead of waiting forever.
var ErrTimeout = errors.New("provider request timed out")

// Provider answers a free-text query against a rendered context block of
// stored posts. A single request per question; no conversation state.
type Provider interface {
	Configured() bool
	Answer(ctx context.Context, query, contextBlock string) (string, error)
}

// NotConfiguredResponse is returned with HTTP 200 when no provider
// credential was ever supplied: absence of configuration is a documented
// degraded mode, not a request error.
const NotConfiguredResponse = "The AI assistant is not configured yet. " +
	"Set the OPENAI_API_KEY environment variable on the backend and restart it to enable " +
	"AI-powered answers. Until then I can only echo what the local search finds."
