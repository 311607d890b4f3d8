package execution

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lomen-org/llm-benchmarks/internal/models"
	"github.com/lomen-org/llm-benchmarks/internal/prompts"
)

// Run executes every prompt against the engine. Single prompts and whole
// conversations run concurrently, bounded by batchSize; the turns inside a
// conversation always run sequentially with the accumulated history. Engine
// failures are recorded on the turn result, never returned: a failed turn
// ends its conversation and the remaining turns are not attempted.
//
// Results come back grouped per prompt in the original prompt order.
func Run(ctx context.Context, engine Engine, list []prompts.Prompt, batchSize int) ([]models.TurnResult, error) {
	if engine == nil {
		return nil, fmt.Errorf("execution: engine is nil")
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	perPrompt := make([][]models.TurnResult, len(list))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(batchSize)

	for i, p := range list {
		group.Go(func() error {
			if p.IsConversation() {
				perPrompt[i] = runConversation(groupCtx, engine, p)
			} else {
				perPrompt[i] = []models.TurnResult{runSingle(groupCtx, engine, p)}
			}
			return groupCtx.Err()
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("executing prompts: %w", err)
	}

	var results []models.TurnResult
	for _, rs := range perPrompt {
		results = append(results, rs...)
	}
	return results, nil
}

func runSingle(ctx context.Context, engine Engine, p prompts.Prompt) models.TurnResult {
	result := models.TurnResult{
		ID:       p.ID,
		Expected: p.Expected,
	}
	for _, m := range p.Messages {
		if m.Role == "user" {
			result.UserMessage = m.Content
		}
	}

	start := time.Now()
	reply, err := engine.Complete(ctx, p.Messages)
	result.Latency = latencyPtr(time.Since(start))

	if err != nil {
		msg := err.Error()
		result.Error = &msg
		slog.Warn("prompt failed", "id", p.ID, "error", err)
		return result
	}
	result.Actual = &reply
	return result
}

func runConversation(ctx context.Context, engine Engine, p prompts.Prompt) []models.TurnResult {
	results := make([]models.TurnResult, 0, len(p.Turns))
	history := make([]prompts.Message, 0, len(p.Messages)+2*len(p.Turns))
	history = append(history, p.Messages...)

	for i, turn := range p.Turns {
		turnNum := i + 1
		result := models.TurnResult{
			ID:             fmt.Sprintf("%s-turn-%d", p.ID, turnNum),
			ConversationID: p.ID,
			Turn:           turnNum,
			UserMessage:    turn.User,
			Expected:       turn.Expected,
		}

		history = append(history, prompts.Message{Role: "user", Content: turn.User})

		start := time.Now()
		reply, err := engine.Complete(ctx, history)
		result.Latency = latencyPtr(time.Since(start))

		if err != nil {
			msg := err.Error()
			result.Error = &msg
			results = append(results, result)
			slog.Warn("conversation turn failed, stopping conversation",
				"conversation_id", p.ID, "turn", turnNum, "error", err)
			break
		}

		result.Actual = &reply
		results = append(results, result)
		history = append(history, prompts.Message{Role: "assistant", Content: reply})
	}
	return results
}

// latencyPtr reports seconds with millisecond precision.
func latencyPtr(d time.Duration) *float64 {
	seconds := float64(d.Round(time.Millisecond)) / float64(time.Second)
	return &seconds
}
