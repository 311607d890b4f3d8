// Package wizard drives the interactive project setup behind `llmbench init`:
// it collects benchmark settings and produces a starter config file and
// prompt set.
package wizard

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// BenchmarkSpec holds all fields collected during the interactive wizard.
type BenchmarkSpec struct {
	Name        string
	Model       string
	EndpointURL string
	PromptFile  string
	BatchSize   int
	Evaluate    bool
}

// RunSetupWizard runs an interactive huh form to collect benchmark settings.
// If initialName is non-empty, it pre-populates the name field.
func RunSetupWizard(in io.Reader, out io.Writer, initialName string) (*BenchmarkSpec, error) {
	var (
		name         = initialName
		model        = "gemini-2.0-flash"
		endpointURL  string
		promptFile   = "prompts.json"
		batchSizeRaw = "5"
		evaluate     = true
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Benchmark name").
				Description("A short name for this benchmark project").
				Placeholder("my-benchmark").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("benchmark name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Model").
				Description("The model under test").
				Value(&model),
			huh.NewInput().
				Title("Endpoint URL").
				Description("OpenAI-compatible endpoint serving the model").
				Placeholder("https://api.example.com/v1").
				Value(&endpointURL),
			huh.NewInput().
				Title("Prompt file").
				Description("Where the prompt set will be written").
				Value(&promptFile),
			huh.NewInput().
				Title("Batch size").
				Description("Max concurrent requests").
				Value(&batchSizeRaw).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return fmt.Errorf("batch size must be a positive integer")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Evaluate responses?").
				Description("Score responses with a judge model after the run").
				Value(&evaluate),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	batchSize, _ := strconv.Atoi(strings.TrimSpace(batchSizeRaw))

	return &BenchmarkSpec{
		Name:        strings.TrimSpace(name),
		Model:       strings.TrimSpace(model),
		EndpointURL: strings.TrimSpace(endpointURL),
		PromptFile:  strings.TrimSpace(promptFile),
		BatchSize:   batchSize,
		Evaluate:    evaluate,
	}, nil
}

// GenerateConfigYAML renders the benchmark config file from the given spec.
func GenerateConfigYAML(spec *BenchmarkSpec) (string, error) {
	cfg := map[string]any{
		"name":        spec.Name,
		"prompt_file": spec.PromptFile,
		"output_dir":  "results",
		"executor": map[string]any{
			"model":        spec.Model,
			"endpoint_url": spec.EndpointURL,
			"batch_size":   spec.BatchSize,
		},
	}
	if spec.Evaluate {
		cfg["evaluator"] = map[string]any{
			"model":      spec.Model,
			"batch_size": spec.BatchSize,
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("rendering config: %w", err)
	}
	return string(data), nil
}

// GenerateStarterPrompts renders a starter prompt set with one single prompt
// and one two-turn conversation.
func GenerateStarterPrompts() (string, error) {
	set := []map[string]any{
		{
			"id": "example-single",
			"messages": []map[string]string{
				{"role": "user", "content": "What is the capital of France?"},
			},
			"expected": "Paris",
		},
		{
			"id": "example-conversation",
			"messages": []map[string]string{
				{"role": "system", "content": "You are a helpful assistant."},
			},
			"turns": []map[string]string{
				{"user": "Name a prime number greater than 10.", "expected": "Any prime greater than 10, such as 11 or 13."},
				{"user": "Now double it."},
			},
		},
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering prompts: %w", err)
	}
	return string(data), nil
}
