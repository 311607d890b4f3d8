package report

import (
	"fmt"
	"strings"

	"github.com/lomen-org/llm-benchmarks/internal/models"
)

// InterpretScore returns a plain-language label for a numeric score in [0, 1].
func InterpretScore(score float64) string {
	pct := score * 100
	switch {
	case pct > 90:
		return "Excellent (>90%)"
	case pct >= 70:
		return "Good (70-90%)"
	case pct >= 50:
		return "Needs Work (50-70%)"
	default:
		return "Poor (<50%)"
	}
}

// InterpretErrorRate explains how many items hit execution or evaluation
// errors.
func InterpretErrorRate(errors, total int) string {
	if total == 0 {
		return "No items were processed."
	}
	pct := float64(errors) / float64(total) * 100
	switch {
	case errors == 0:
		return "Every item completed without errors."
	case pct < 10:
		return fmt.Sprintf("A handful of items errored (%.0f%%).", pct)
	case pct < 50:
		return fmt.Sprintf("A significant share of items errored (%.0f%%), check the error tab.", pct)
	default:
		return fmt.Sprintf("Most items errored (%.0f%%), the endpoint or evaluator is likely misconfigured.", pct)
	}
}

// SummaryMarkdown produces a plain-language interpretation of an overall
// summary as markdown, for embedding in the report's overview panel.
func SummaryMarkdown(s *models.OverallSummary) string {
	var b strings.Builder

	b.WriteString("### Interpretation\n\n")
	if s.AverageScore != nil {
		b.WriteString(fmt.Sprintf("- **Average score:** %.2f (%s)\n", *s.AverageScore, InterpretScore(*s.AverageScore)))
	} else {
		b.WriteString("- **Average score:** N/A, no items were cleanly scored\n")
	}
	b.WriteString(fmt.Sprintf("- **Items:** %d processed, %d completed, %d scored\n",
		s.TotalItems, s.CompletedItems, s.ScoredItems))
	b.WriteString(fmt.Sprintf("- **Errors:** %s\n", InterpretErrorRate(s.ErrorItems, s.TotalItems)))
	if s.AverageLatency != nil {
		b.WriteString(fmt.Sprintf("- **Latency:** %.2fs average", *s.AverageLatency))
		if s.MinLatency != nil && s.MaxLatency != nil {
			b.WriteString(fmt.Sprintf(" (min %.2fs, max %.2fs)", *s.MinLatency, *s.MaxLatency))
		}
		b.WriteString("\n")
	}
	return b.String()
}
