// Package models defines the result records produced by a benchmark run and
// consumed by the aggregator, the report renderer, and the dashboard server.
package models

import "time"

// TurnResult is the outcome of a single prompt, or of one turn inside a
// multi-turn conversation. Optional fields are pointers so that absent and
// zero values stay distinguishable in the JSON payload.
type TurnResult struct {
	ID             string   `json:"id"`
	ConversationID string   `json:"conversation_id,omitempty"`
	Turn           int      `json:"turn,omitempty"`
	UserMessage    string   `json:"user_message"`
	Expected       *string  `json:"expected,omitempty"`
	Actual         *string  `json:"actual"`
	Latency        *float64 `json:"latency"`
	Error          *string  `json:"error,omitempty"`
	Score          *float64 `json:"score"`
	ScoreReasoning *string  `json:"scoreReasoning,omitempty"`
	EvalError      *string  `json:"eval_error,omitempty"`
}

// Failed reports whether the turn hit an execution or evaluation error.
func (t *TurnResult) Failed() bool {
	return t.Error != nil || t.EvalError != nil
}

// Scored reports whether the turn was cleanly scored: it has a score and
// neither the execution nor the evaluation failed.
func (t *TurnResult) Scored() bool {
	return t.Score != nil && t.Error == nil && t.EvalError == nil
}

// Conversation groups the turn results of one multi-turn conversation.
type Conversation struct {
	ID      string               `json:"id"`
	Turns   []TurnResult         `json:"turns"`
	Summary *ConversationSummary `json:"conversation_summary"`
}

// ConversationSummary holds per-conversation aggregate statistics.
type ConversationSummary struct {
	TotalTurns            int      `json:"total_turns"`
	CompletedTurns        int      `json:"successfully_completed_turns"`
	ScoredTurns           int      `json:"scored_turns"`
	ErrorTurns            int      `json:"error_turns"`
	AverageScore          *float64 `json:"average_score"`
	TotalLatency          *float64 `json:"total_latency"`
	AverageLatencyPerTurn *float64 `json:"average_latency_per_turn"`
	MedianLatencyPerTurn  *float64 `json:"median_latency_per_turn"`
	MinLatencyPerTurn     *float64 `json:"min_latency_per_turn"`
	MaxLatencyPerTurn     *float64 `json:"max_latency_per_turn"`
}

// OverallSummary holds aggregate statistics across every turn and single
// prompt in a run.
type OverallSummary struct {
	TotalItems     int      `json:"total_items_processed"`
	CompletedItems int      `json:"successfully_completed_items"`
	ScoredItems    int      `json:"scored_items"`
	ErrorItems     int      `json:"error_items"`
	AverageScore   *float64 `json:"average_score_overall"`
	AverageLatency *float64 `json:"average_latency_overall"`
	MedianLatency  *float64 `json:"median_latency_overall"`
	MinLatency     *float64 `json:"min_latency_overall"`
	MaxLatency     *float64 `json:"max_latency_overall"`
}

// SummaryReport is the top-level summary artifact written after a run.
type SummaryReport struct {
	RunID                 string                         `json:"run_id,omitempty"`
	Model                 string                         `json:"model,omitempty"`
	Timestamp             time.Time                      `json:"timestamp,omitzero"`
	Overall               OverallSummary                 `json:"overall_summary"`
	ConversationSummaries map[string]ConversationSummary `json:"conversation_summaries"`
}
