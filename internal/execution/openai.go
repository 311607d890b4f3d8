package execution

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lomen-org/llm-benchmarks/internal/prompts"
)

// OpenAIEngine talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIEngine struct {
	client *openai.Client
	model  string
}

// NewOpenAIEngine creates an engine for the given endpoint, key, and model.
// The endpoint is the API base URL (e.g. https://host/v1).
func NewOpenAIEngine(endpointURL, apiKey, model string) *OpenAIEngine {
	cfg := openai.DefaultConfig(apiKey)
	if endpointURL != "" {
		cfg.BaseURL = endpointURL
	}
	return &OpenAIEngine{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// ModelID returns the configured model name.
func (e *OpenAIEngine) ModelID() string { return e.model }

// Complete sends the full message history and returns the first choice's
// content. Unexpected response shapes surface as errors so the caller can
// record them as execution failures.
func (e *OpenAIEngine) Complete(ctx context.Context, messages []prompts.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:  e.model,
		Stream: false,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
