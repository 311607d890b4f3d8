// Package evaluation scores benchmark responses with a judge model. Each
// response is compared against its reference answer when one exists;
// otherwise the judge self-evaluates the answer on its own merits.
package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lomen-org/llm-benchmarks/internal/execution"
	"github.com/lomen-org/llm-benchmarks/internal/models"
	"github.com/lomen-org/llm-benchmarks/internal/prompts"
)

const judgeSystemPrompt = "You are a strict evaluator of answers."

// Evaluator scores turn results using a judge engine.
type Evaluator struct {
	engine       execution.Engine
	batchSize    int
	maxRetries   int
	retryDelay   time.Duration
	requestDelay time.Duration
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithBatchSize bounds concurrent judge requests.
func WithBatchSize(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithMaxRetries sets how many times a rate-limited judge request is retried.
func WithMaxRetries(n int) Option {
	return func(e *Evaluator) {
		if n >= 0 {
			e.maxRetries = n
		}
	}
}

// WithRetryDelay sets the base backoff between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.retryDelay = d
		}
	}
}

// WithRequestDelay inserts a pause before each judge request, to stay under
// endpoint rate limits proactively instead of retrying after a 429.
func WithRequestDelay(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.requestDelay = d
		}
	}
}

// New creates an Evaluator backed by the given judge engine.
func New(engine execution.Engine, opts ...Option) (*Evaluator, error) {
	if engine == nil {
		return nil, fmt.Errorf("evaluation: judge engine is nil")
	}
	e := &Evaluator{
		engine:     engine,
		batchSize:  5,
		maxRetries: 3,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Evaluate scores every result in place and returns the augmented slice.
// Results that already carry an execution error are skipped with a nil score;
// results with no answer get a 0.0 score and an evaluation error. Judge
// requests run concurrently, bounded by the batch size.
func (e *Evaluator) Evaluate(ctx context.Context, results []models.TurnResult) ([]models.TurnResult, error) {
	slog.Info("starting evaluation", "items", len(results), "judge", e.engine.ModelID())

	evaluated := make([]models.TurnResult, len(results))
	copy(evaluated, results)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.batchSize)

	for i := range evaluated {
		group.Go(func() error {
			e.evaluateOne(groupCtx, &evaluated[i])
			return groupCtx.Err()
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("evaluating responses: %w", err)
	}
	return evaluated, nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, r *models.TurnResult) {
	if r.Error != nil {
		reason := fmt.Sprintf("Evaluation skipped: execution error occurred: %s.", *r.Error)
		r.Score = nil
		r.ScoreReasoning = &reason
		slog.Warn("skipping evaluation, execution failed", "id", r.ID)
		return
	}
	if r.Actual == nil {
		zero := 0.0
		reason := "Evaluation skipped: no actual answer generated."
		evalErr := "No actual answer generated by the benchmarked model."
		r.Score = &zero
		r.ScoreReasoning = &reason
		r.EvalError = &evalErr
		slog.Warn("skipping evaluation, no answer", "id", r.ID)
		return
	}

	messages := []prompts.Message{
		{Role: "system", Content: judgeSystemPrompt},
		{Role: "user", Content: judgePrompt(r.Expected, *r.Actual)},
	}

	if e.requestDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(e.requestDelay):
		}
	}

	raw, err := e.completeWithRetry(ctx, messages)
	if err != nil {
		msg := fmt.Sprintf("evaluation request failed: %s", err)
		r.Score = nil
		r.ScoreReasoning = nil
		r.EvalError = &msg
		slog.Error("judge request failed", "id", r.ID, "error", err)
		return
	}

	verdict := parseVerdict(raw)
	r.Score = verdict.Score
	r.ScoreReasoning = &verdict.Reason
	r.EvalError = verdict.EvalError
	slog.Debug("evaluated item", "id", r.ID, "score", verdict.Score)
}

// completeWithRetry retries rate-limited judge requests with a linear
// backoff. Other errors fail immediately.
func (e *Evaluator) completeWithRetry(ctx context.Context, messages []prompts.Message) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			delay := e.retryDelay * time.Duration(attempt)
			slog.Warn("judge rate limited, retrying", "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
		raw, err := e.engine.Complete(ctx, messages)
		if err == nil {
			return raw, nil
		}
		if !isRateLimited(err) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("rate limited after %d retries: %w", e.maxRetries, lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}

// judgePrompt builds the user message for the judge. With a reference answer
// the judge compares against it; without one it self-evaluates the answer.
func judgePrompt(expected *string, actual string) string {
	inabilityRule := "CRITICAL: Assign a score of 0.0 if the actual answer indicates any inability, " +
		"failure, error, or refusal to answer. Examples include, but are not limited to: " +
		"'I couldn't retrieve', 'Unable to fetch', 'I don't know', 'Error', 'wasn't able to run', " +
		"'I encountered an error', 'failed to', 'cannot provide', 'request failed'. Be very strict about this.\n\n" +
		"Respond with:\n" +
		"1. A single numeric score between 0 and 1, with up to two decimal places.\n" +
		"2. Followed by a short reason for this score, in one sentence.\n\n" +
		"Format your response exactly like this:\n" +
		"0.85\nReason: The actual answer matches the intent but misses some details.\n\n" +
		"Special case for 0.0 score due to inability/refusal:\n" +
		"If you assign 0.0 because the answer indicates inability or refusal, format the response like this:\n" +
		"0.0\nReason: Inability: The model stated it could not perform the task.\n\n" +
		"Important: Do not add any other explanation outside this format."

	if expected != nil && *expected != "" {
		return fmt.Sprintf("Reference answer:\n%s\n\nActual answer:\n%s\n\n", *expected, actual) +
			"Your task is to act as a strict evaluator comparing the actual answer to the reference answer.\n" +
			"Context: This might be part of a conversation.\n" +
			"Focus on semantic similarity, not exact match.\n" +
			"Variable values, numbers, or identifiers may vary, as long as meaning is preserved.\n" +
			"Check if the actual answer delivers the same intent, logic, and meaning as the reference.\n" +
			"Ignore formatting differences or phrasing variations.\n" +
			"Deduct points if meaning is lost, logic is incorrect, or important elements are missing.\n" +
			inabilityRule
	}
	return fmt.Sprintf("Actual answer:\n%s\n\n", actual) +
		"There is no reference answer provided.\n" +
		"Your task is to self-evaluate this answer for correctness, completeness, and clarity.\n" +
		"Context: This might be part of a conversation.\n" +
		"Consider if the answer is logically sound and factually correct.\n" +
		"Check if it fully answers the implied question or task.\n" +
		"Reward answers that are well-structured, clear, and comprehensive.\n" +
		"Deduct points for incomplete, vague, or factually incorrect responses.\n" +
		inabilityRule
}
