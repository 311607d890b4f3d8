// Package report turns a benchmark results payload into a rendered HTML
// report. The transform is split into a pure view-model step (parse,
// classify, bucket) and a template step so the logic stays testable without
// a display surface.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"

	"github.com/lomen-org/llm-benchmarks/internal/models"
)

// Kind identifies the shape of one top-level payload item.
type Kind string

const (
	KindConversation Kind = "conversation"
	KindSinglePrompt Kind = "single_prompt"
	KindUnrecognized Kind = "unrecognized"
)

// Item is one classified payload record. Exactly one of Conversation and
// Single is set, matching Kind.
type Item struct {
	Kind         Kind
	Conversation *models.Conversation
	Single       *models.TurnResult
}

// ID returns the record identifier for display.
func (it Item) ID() string {
	switch it.Kind {
	case KindConversation:
		return it.Conversation.ID
	case KindSinglePrompt:
		return it.Single.ID
	}
	return ""
}

// IsError reports whether the record belongs in the error bucket: any
// execution or evaluation error for a single prompt, or a non-zero error
// turn count for a conversation. Conversations whose turns carry eval
// errors that never made it into error_turns stay in the success bucket;
// that mirrors how the summaries are produced.
func (it Item) IsError() bool {
	switch it.Kind {
	case KindConversation:
		return it.Conversation.Summary != nil && it.Conversation.Summary.ErrorTurns > 0
	case KindSinglePrompt:
		return it.Single.Failed()
	}
	return false
}

// Turns returns the turn records rendered in the item's detail body: every
// turn of a conversation, or the single prompt itself.
func (it Item) Turns() []*models.TurnResult {
	switch it.Kind {
	case KindConversation:
		out := make([]*models.TurnResult, len(it.Conversation.Turns))
		for i := range it.Conversation.Turns {
			out[i] = &it.Conversation.Turns[i]
		}
		return out
	case KindSinglePrompt:
		return []*models.TurnResult{it.Single}
	}
	return nil
}

// View is the complete display state derived from one results payload.
// Building it is deterministic: the same payload always yields buckets of
// identical size and order.
type View struct {
	// Success and Errors hold renderable records in payload order.
	Success []Item
	Errors  []Item
	// ParseError is set when the payload is not valid JSON. The tabs render
	// empty and a single banner carries the message.
	ParseError string
	// NoData is set when the payload is absent, not a list, or empty.
	NoData bool

	raw []any
}

// Classify inspects one parsed payload item and returns its typed form.
//
// An item is a conversation iff it has an array-valued "turns" field and a
// non-null "conversation_summary"; it is a single prompt iff it has a
// defined "id" and no "turns" field at all. Anything else is unrecognized.
func Classify(item any) (Item, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return Item{Kind: KindUnrecognized}, nil
	}

	turns, hasTurns := m["turns"]
	_, turnsIsList := turns.([]any)
	summary, hasSummary := m["conversation_summary"]

	if hasTurns && turnsIsList && hasSummary && summary != nil {
		var conv models.Conversation
		if err := decodeItem(m, &conv); err != nil {
			return Item{Kind: KindUnrecognized}, fmt.Errorf("decoding conversation: %w", err)
		}
		return Item{Kind: KindConversation, Conversation: &conv}, nil
	}

	if id, hasID := m["id"]; hasID && id != nil && !hasTurns {
		var turn models.TurnResult
		if err := decodeItem(m, &turn); err != nil {
			return Item{Kind: KindUnrecognized}, fmt.Errorf("decoding single prompt: %w", err)
		}
		return Item{Kind: KindSinglePrompt, Single: &turn}, nil
	}

	return Item{Kind: KindUnrecognized}, nil
}

// decodeItem maps a loosely-typed JSON object onto a typed record, reusing
// the json field names and tolerating numeric type drift (scores arriving
// as integers, turn numbers as floats).
func decodeItem(m map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m)
}

// BuildView parses a results payload and produces the full display state.
// Malformed items degrade by omission; only an unparseable payload is
// surfaced, and then as view state rather than an error return.
func BuildView(data []byte) *View {
	v := &View{}

	if len(data) == 0 {
		v.NoData = true
		return v
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		v.ParseError = err.Error()
		return v
	}

	list, ok := payload.([]any)
	if !ok || len(list) == 0 {
		v.NoData = true
		return v
	}

	v.raw = list
	for i, raw := range list {
		item, err := Classify(raw)
		if err != nil {
			slog.Warn("skipping malformed result item", "index", i, "error", err)
			continue
		}
		if item.Kind == KindUnrecognized {
			slog.Debug("skipping unrecognized result item", "index", i)
			continue
		}
		if item.IsError() {
			v.Errors = append(v.Errors, item)
		} else {
			v.Success = append(v.Success, item)
		}
	}
	return v
}

// SuccessLabel returns the success tab label with its live count.
func (v *View) SuccessLabel() string {
	return fmt.Sprintf("Successful (%d)", len(v.Success))
}

// ErrorLabel returns the error tab label with its live count.
func (v *View) ErrorLabel() string {
	return fmt.Sprintf("Errors (%d)", len(v.Errors))
}

// payloadJSON re-marshals the parsed payload for inline embedding. The
// standard encoder escapes <, > and & inside strings, so the emitted JSON
// cannot terminate the surrounding script element.
func (v *View) payloadJSON() ([]byte, error) {
	if v.raw == nil {
		return nil, nil
	}
	return json.Marshal(v.raw)
}
