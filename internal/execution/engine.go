// Package execution runs prompt and conversation definitions against the
// model under test and records per-turn results.
package execution

import (
	"context"

	"github.com/lomen-org/llm-benchmarks/internal/prompts"
)

// Engine is the interface to a chat-completion model.
type Engine interface {
	// Complete sends the message history and returns the assistant reply.
	Complete(ctx context.Context, messages []prompts.Message) (string, error)
	// ModelID identifies the configured model for logging and summaries.
	ModelID() string
}
