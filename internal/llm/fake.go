package llm

import (
	"context"
	"sync"
)

// Fake is a Provider that returns a fixed response and records the
// prompts it was called with. Used in tests and as the "fake" provider
// for running the server without an API key.
type Fake struct {
	mu       sync.Mutex
	Response string
	Err      error
	Prompts  []string
}

func NewFake(response string) *Fake {
	return &Fake{Response: response}
}

func (f *Fake) Generate(ctx context.Context, renderedPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Prompts = append(f.Prompts, renderedPrompt)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}

func (f *Fake) Close() error {
	return nil
}

// Calls returns how many times Generate has been invoked.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}
