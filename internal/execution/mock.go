package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/lomen-org/llm-benchmarks/internal/prompts"
)

// MockEngine is a scriptable in-memory engine for tests. Replies are keyed
// by the content of the last user message; unkeyed messages get a canned
// response. Errors can be injected per message the same way.
type MockEngine struct {
	modelID string

	mu       sync.Mutex
	replies  map[string]string
	errors   map[string]error
	fallback *string
	calls    [][]prompts.Message
}

// NewMockEngine creates a mock engine.
func NewMockEngine(modelID string) *MockEngine {
	return &MockEngine{
		modelID: modelID,
		replies: make(map[string]string),
		errors:  make(map[string]error),
	}
}

// ModelID returns the configured model name.
func (m *MockEngine) ModelID() string { return m.modelID }

// Reply registers a canned reply for a user message.
func (m *MockEngine) Reply(userMessage, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[userMessage] = reply
}

// ReplyAlways sets the reply used when no keyed reply matches.
func (m *MockEngine) ReplyAlways(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &reply
}

// Fail registers an injected error for a user message.
func (m *MockEngine) Fail(userMessage string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[userMessage] = err
}

// Calls returns every message history Complete has seen, in call order.
func (m *MockEngine) Calls() [][]prompts.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]prompts.Message, len(m.calls))
	copy(out, m.calls)
	return out
}

// Complete records the call and returns the scripted reply or error.
func (m *MockEngine) Complete(_ context.Context, messages []prompts.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := make([]prompts.Message, len(messages))
	copy(history, messages)
	m.calls = append(m.calls, history)

	if len(messages) == 0 {
		return "", fmt.Errorf("mock: empty message history")
	}
	last := messages[len(messages)-1].Content
	if err, ok := m.errors[last]; ok {
		return "", err
	}
	if reply, ok := m.replies[last]; ok {
		return reply, nil
	}
	if m.fallback != nil {
		return *m.fallback, nil
	}
	return fmt.Sprintf("Mock response for: %s", last), nil
}
