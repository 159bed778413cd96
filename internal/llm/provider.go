// Package llm wraps the external generative-model providers behind a
// single Provider interface. Every provider failure, unreachable
// service, error status or empty payload, surfaces as
// ErrGenerationFailed; retries are left to the caller (there are none).
package llm

import (
	"context"
	"errors"
	"fmt"
)

var ErrGenerationFailed = errors.New("generation failed")

type Provider interface {
	// Generate sends the rendered prompt to the provider and returns
	// the completion text.
	Generate(ctx context.Context, renderedPrompt string) (string, error)
	Close() error
}

// Config selects and configures a provider. Exactly one network call is
// made per Generate; no state is shared across calls beyond the client.
type Config struct {
	Provider string // "gemini", "openai" or "fake"

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}

// New constructs the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case "fake":
		return NewFake("canned response"), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
