// Package prompts loads and validates the prompt and conversation
// definitions a benchmark run executes.
package prompts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrNoValidPrompts is returned when a prompt source yields nothing usable.
var ErrNoValidPrompts = errors.New("no valid prompts or conversations loaded")

// Message is one chat message of a single-prompt definition.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn is one user turn of a conversation definition. Expected is the
// optional reference answer; without it the evaluator self-evaluates.
type Turn struct {
	User     string  `json:"user"`
	Expected *string `json:"expected,omitempty"`
}

// Prompt is a single prompt or a multi-turn conversation to benchmark.
// Exactly one of Messages and Turns is populated.
type Prompt struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages,omitempty"`
	Turns    []Turn    `json:"turns,omitempty"`
	Expected *string   `json:"expected,omitempty"`
}

// IsConversation reports whether the prompt runs as a multi-turn
// conversation.
func (p *Prompt) IsConversation() bool {
	return len(p.Turns) > 0
}

// LoadFile reads prompt definitions from a JSON file.
func LoadFile(path string) ([]Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt file: %w", err)
	}
	prompts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	slog.Info("loaded prompts", "file", path, "count", len(prompts))
	return prompts, nil
}

// Parse decodes a JSON array of prompt definitions. Entries that are not
// objects, lack an id, or carry neither messages nor turns are skipped with
// a warning; the payload as a whole must be a JSON array.
func Parse(data []byte) ([]Prompt, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("prompt data must be a JSON array: %w", err)
	}

	var prompts []Prompt
	for i, raw := range entries {
		var p Prompt
		if err := json.Unmarshal(raw, &p); err != nil {
			slog.Warn("skipping invalid prompt entry", "index", i, "error", err)
			continue
		}
		if p.ID == "" {
			slog.Warn("skipping prompt entry without id", "index", i)
			continue
		}
		if len(p.Messages) == 0 && len(p.Turns) == 0 {
			slog.Warn("skipping prompt entry without messages or turns", "id", p.ID)
			continue
		}
		prompts = append(prompts, p)
	}

	if len(prompts) == 0 {
		return nil, ErrNoValidPrompts
	}
	return prompts, nil
}
