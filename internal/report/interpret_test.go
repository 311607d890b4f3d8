package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lomen-org/llm-benchmarks/internal/models"
)

func TestInterpretScore(t *testing.T) {
	assert.Equal(t, "Excellent (>90%)", InterpretScore(0.95))
	assert.Equal(t, "Good (70-90%)", InterpretScore(0.9))
	assert.Equal(t, "Needs Work (50-70%)", InterpretScore(0.5))
	assert.Equal(t, "Poor (<50%)", InterpretScore(0.2))
}

func TestInterpretErrorRate(t *testing.T) {
	assert.Equal(t, "No items were processed.", InterpretErrorRate(0, 0))
	assert.Equal(t, "Every item completed without errors.", InterpretErrorRate(0, 10))
	assert.Contains(t, InterpretErrorRate(1, 20), "A handful")
	assert.Contains(t, InterpretErrorRate(5, 20), "significant share")
	assert.Contains(t, InterpretErrorRate(15, 20), "Most items errored")
}

func TestSummaryMarkdown(t *testing.T) {
	avg := 0.85
	lat := 1.5
	md := SummaryMarkdown(&models.OverallSummary{
		TotalItems:     4,
		CompletedItems: 3,
		ScoredItems:    3,
		ErrorItems:     1,
		AverageScore:   &avg,
		AverageLatency: &lat,
	})

	assert.Contains(t, md, "### Interpretation")
	assert.Contains(t, md, "0.85 (Good (70-90%))")
	assert.Contains(t, md, "4 processed, 3 completed, 3 scored")
	assert.Contains(t, md, "1.50s average")
}
