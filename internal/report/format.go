package report

import (
	"fmt"

	"github.com/lomen-org/llm-benchmarks/internal/models"
)

// ScoreClass maps a score to its display band. Bands are inclusive on their
// lower bound: 0.8 is high, 0.5 is medium, anything below is low, and a
// missing score is none.
func ScoreClass(score *float64) string {
	switch {
	case score == nil:
		return "none"
	case *score >= 0.8:
		return "high"
	case *score >= 0.5:
		return "medium"
	default:
		return "low"
	}
}

// FormatNumber renders a numeric value as a fixed-point string, or "N/A"
// when the value is absent or not numeric. It never fails on bad input.
// Rounding is fmt's fixed-point formatting: round to nearest on the exact
// binary value, ties to even. Decimal literals like 0.755 sit slightly off
// the tie point, so they round by their true binary value ("0.75").
func FormatNumber(v any, decimals int) string {
	f, ok := asFloat(v)
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.*f", decimals, f)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// ErrorText selects the error message to show for a turn: the execution
// error wins, the evaluation error is the fallback.
func ErrorText(t *models.TurnResult) string {
	if t.Error != nil && *t.Error != "" {
		return *t.Error
	}
	if t.EvalError != nil {
		return *t.EvalError
	}
	return ""
}

// SuccessRate formats a conversation's completed/total ratio as a
// percentage with two decimals, or "N/A" when there are no turns to divide
// by.
func SuccessRate(cs *models.ConversationSummary) string {
	if cs == nil || cs.TotalTurns == 0 {
		return "N/A"
	}
	rate := float64(cs.CompletedTurns) / float64(cs.TotalTurns) * 100
	return FormatNumber(rate, 2) + "%"
}
