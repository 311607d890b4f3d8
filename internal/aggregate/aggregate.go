// Package aggregate computes run summaries from evaluated turn results and
// groups turns back into their conversations for the results payload.
package aggregate

import (
	"github.com/lomen-org/llm-benchmarks/internal/models"
)

// Aggregate summarizes evaluated results and builds the structured payload:
// conversations first (grouped by conversation_id in first-seen order, each
// with a per-conversation summary), then single prompts in input order.
// The returned structured slice marshals directly into the report payload.
func Aggregate(results []models.TurnResult) (*models.SummaryReport, []any) {
	overall := summarize(results)

	var convOrder []string
	convTurns := make(map[string][]models.TurnResult)
	var singles []models.TurnResult

	for _, r := range results {
		if r.ConversationID != "" {
			if _, seen := convTurns[r.ConversationID]; !seen {
				convOrder = append(convOrder, r.ConversationID)
			}
			convTurns[r.ConversationID] = append(convTurns[r.ConversationID], r)
		} else {
			singles = append(singles, r)
		}
	}

	convSummaries := make(map[string]models.ConversationSummary, len(convOrder))
	structured := make([]any, 0, len(convOrder)+len(singles))

	for _, id := range convOrder {
		turns := convTurns[id]
		cs := summarizeConversation(turns)
		convSummaries[id] = cs
		structured = append(structured, models.Conversation{
			ID:      id,
			Turns:   turns,
			Summary: &cs,
		})
	}
	for _, s := range singles {
		structured = append(structured, s)
	}

	report := &models.SummaryReport{
		Overall:               overall,
		ConversationSummaries: convSummaries,
	}
	return report, structured
}

func summarize(results []models.TurnResult) models.OverallSummary {
	scores, latencies, errored := collect(results)

	s := models.OverallSummary{
		TotalItems:     len(results),
		CompletedItems: len(results) - errored,
		ScoredItems:    len(scores),
		ErrorItems:     errored,
	}
	if len(scores) > 0 {
		s.AverageScore = roundedPtr(mean(scores))
	}
	if len(latencies) > 0 {
		s.AverageLatency = roundedPtr(mean(latencies))
		s.MedianLatency = roundedPtr(median(latencies))
		s.MinLatency = roundedPtr(minOf(latencies))
		s.MaxLatency = roundedPtr(maxOf(latencies))
	}
	return s
}

func summarizeConversation(turns []models.TurnResult) models.ConversationSummary {
	scores, latencies, errored := collect(turns)

	cs := models.ConversationSummary{
		TotalTurns:     len(turns),
		CompletedTurns: len(turns) - errored,
		ScoredTurns:    len(scores),
		ErrorTurns:     errored,
	}
	if len(scores) > 0 {
		cs.AverageScore = roundedPtr(mean(scores))
	}
	if len(latencies) > 0 {
		cs.TotalLatency = roundedPtr(sum(latencies))
		cs.AverageLatencyPerTurn = roundedPtr(mean(latencies))
		cs.MedianLatencyPerTurn = roundedPtr(median(latencies))
		cs.MinLatencyPerTurn = roundedPtr(minOf(latencies))
		cs.MaxLatencyPerTurn = roundedPtr(maxOf(latencies))
	}
	return cs
}

// collect pulls clean scores, recorded latencies, and the error count out of
// a result slice. Only turns with neither an execution nor an evaluation
// error contribute scores.
func collect(results []models.TurnResult) (scores, latencies []float64, errored int) {
	for i := range results {
		r := &results[i]
		if r.Scored() {
			scores = append(scores, *r.Score)
		}
		if r.Latency != nil {
			latencies = append(latencies, *r.Latency)
		}
		if r.Failed() {
			errored++
		}
	}
	return scores, latencies, errored
}
