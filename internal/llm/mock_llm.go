package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockLLM is a deterministic LLM implementation for testing.
// It records every prompt and is safe for concurrent use.
type MockLLM struct {
	// Response is the fixed text returned by Generate.
	// If empty and Responder is nil, a default response is derived from the prompt.
	Response string

	// Responder, if set, computes the response for each prompt.
	Responder func(prompt string) (string, error)

	// Error, if set, is returned by Generate instead of a response.
	Error error

	// FailOnCall makes the Nth call (1-based) return Error.
	// Zero means Error, if set, is returned on every call.
	FailOnCall int

	mu      sync.Mutex
	prompts []string
}

// NewMockLLM creates a mock LLM with the given fixed response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

// NewMockLLMWithError creates a mock LLM that always returns an error.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Error: err}
}

// NewMockLLMFunc creates a mock LLM that answers through fn.
func NewMockLLMFunc(fn func(prompt string) (string, error)) *MockLLM {
	return &MockLLM{Responder: fn}
}

// Generate returns the configured response or generates a deterministic one.
func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	call := len(m.prompts)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrLLMFailed, err)
	}

	if m.Error != nil && (m.FailOnCall == 0 || m.FailOnCall == call) {
		return "", m.Error
	}
	if m.Responder != nil {
		return m.Responder(prompt)
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return generateMockResponse(prompt), nil
}

// Calls returns the number of Generate invocations so far.
func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of every prompt received, in call order.
func (m *MockLLM) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// LastPrompt returns the most recent prompt passed to Generate.
func (m *MockLLM) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// generateMockResponse creates a predictable post from the prompt.
func generateMockResponse(prompt string) string {
	topic := "this topic"
	const marker = "post about:"
	if idx := strings.Index(prompt, marker); idx >= 0 {
		rest := prompt[idx+len(marker):]
		if line, _, _ := strings.Cut(rest, "\n"); strings.TrimSpace(line) != "" {
			topic = strings.TrimSpace(line)
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Let's talk about %s. ", topic))
	b.WriteString("Small, consistent steps compound into real progress. ")
	b.WriteString("What has worked for you?")
	return b.String()
}
