// Package config holds the run configuration for a benchmark: where the
// prompts come from, which endpoints and models to call, and where the
// artifacts go. Values resolve in order: explicit config, environment
// variables, defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultBatchSize  = 5
	defaultModel      = "gemini-2.0-flash"
	defaultMaxRetries = 3
)

// ExecutorConfig configures the model under test.
type ExecutorConfig struct {
	EndpointURL string `yaml:"endpoint_url"`
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	BatchSize   int    `yaml:"batch_size"`
}

// EvaluatorConfig configures the judge model. Empty endpoint, key, or model
// fall back to the executor's values.
type EvaluatorConfig struct {
	EndpointURL    string `yaml:"endpoint_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	BatchSize      int    `yaml:"batch_size"`
	MaxRetries     int    `yaml:"max_retries"`
	RequestDelayMS int    `yaml:"request_delay_ms"`
}

// ReportConfig configures the generated HTML report.
type ReportConfig struct {
	Title string `yaml:"title"`
}

// RunConfig is the full configuration of one benchmark run.
type RunConfig struct {
	PromptFile  string          `yaml:"prompt_file"`
	OutputDir   string          `yaml:"output_dir"`
	SaveResults *bool           `yaml:"save_results"`
	SaveSummary *bool           `yaml:"save_summary"`
	SaveReport  *bool           `yaml:"save_report"`
	Compress    bool            `yaml:"compress"`
	Executor    ExecutorConfig  `yaml:"executor"`
	Evaluator   EvaluatorConfig `yaml:"evaluator"`
	Report      ReportConfig    `yaml:"report"`
}

// Option mutates a RunConfig during construction.
type Option func(*RunConfig)

// WithOutputDir overrides the artifact output directory.
func WithOutputDir(dir string) Option {
	return func(c *RunConfig) {
		if dir != "" {
			c.OutputDir = dir
		}
	}
}

// WithModel overrides the model under test.
func WithModel(model string) Option {
	return func(c *RunConfig) {
		if model != "" {
			c.Executor.Model = model
		}
	}
}

// WithPromptFile overrides the prompt source file.
func WithPromptFile(path string) Option {
	return func(c *RunConfig) {
		if path != "" {
			c.PromptFile = path
		}
	}
}

// WithCompress enables gzip compression of the results artifact.
func WithCompress(compress bool) Option {
	return func(c *RunConfig) { c.Compress = compress || c.Compress }
}

// New builds a RunConfig from defaults, environment fallbacks, and options.
func New(opts ...Option) *RunConfig {
	cfg := &RunConfig{OutputDir: "."}
	cfg.applyEnv()
	cfg.applyDefaults()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads a YAML run config and applies environment fallbacks, defaults,
// and options, in that order of increasing precedence for the options and
// decreasing for env (explicit YAML values win over env).
func Load(path string, opts ...Option) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := &RunConfig{OutputDir: "."}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg, nil
}

// Validate checks that the config is runnable.
func (c *RunConfig) Validate() error {
	if c.PromptFile == "" {
		return fmt.Errorf("prompt file is required (prompt_file in config or a command argument)")
	}
	if c.Executor.EndpointURL == "" {
		return fmt.Errorf("executor endpoint is required (executor.endpoint_url or BENCHMARK_ENDPOINT_URL)")
	}
	return nil
}

// SaveResultsEnabled reports whether the detailed results artifact should be
// written. Unset means yes.
func (c *RunConfig) SaveResultsEnabled() bool { return c.SaveResults == nil || *c.SaveResults }

// SaveSummaryEnabled reports whether the summary artifact should be written.
func (c *RunConfig) SaveSummaryEnabled() bool { return c.SaveSummary == nil || *c.SaveSummary }

// SaveReportEnabled reports whether the HTML report should be written.
func (c *RunConfig) SaveReportEnabled() bool { return c.SaveReport == nil || *c.SaveReport }

func (c *RunConfig) applyDefaults() {
	if c.Executor.Model == "" {
		c.Executor.Model = defaultModel
	}
	if c.Executor.BatchSize <= 0 {
		c.Executor.BatchSize = defaultBatchSize
	}
	if c.Evaluator.EndpointURL == "" {
		c.Evaluator.EndpointURL = c.Executor.EndpointURL
	}
	if c.Evaluator.APIKey == "" {
		c.Evaluator.APIKey = c.Executor.APIKey
	}
	if c.Evaluator.Model == "" {
		c.Evaluator.Model = c.Executor.Model
	}
	if c.Evaluator.BatchSize <= 0 {
		c.Evaluator.BatchSize = defaultBatchSize
	}
	if c.Evaluator.MaxRetries <= 0 {
		c.Evaluator.MaxRetries = defaultMaxRetries
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}
