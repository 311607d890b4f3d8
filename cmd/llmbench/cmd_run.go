package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lomen-org/llm-benchmarks/internal/aggregate"
	"github.com/lomen-org/llm-benchmarks/internal/artifacts"
	"github.com/lomen-org/llm-benchmarks/internal/config"
	"github.com/lomen-org/llm-benchmarks/internal/evaluation"
	"github.com/lomen-org/llm-benchmarks/internal/execution"
	"github.com/lomen-org/llm-benchmarks/internal/prompts"
	"github.com/lomen-org/llm-benchmarks/internal/report"
	"github.com/lomen-org/llm-benchmarks/internal/spinner"
)

func newRunCommand() *cobra.Command {
	var (
		configPath string
		promptPath string
		outputDir  string
		model      string
		endpoint   string
		batchSize  int
		noEval     bool
		noReport   bool
		compress   bool
		junit      bool
		useMock    bool
	)

	cmd := &cobra.Command{
		Use:   "run [prompts.json]",
		Short: "Run a benchmark against a prompt set",
		Long: `Run a benchmark: execute every prompt in the set against the configured
endpoint, score the responses with the judge model, and write the result,
summary, and report artifacts.

The prompt set can be given as an argument or via the config file. JSON
prompt sets mix single prompts and conversations; CSV files hold one
single prompt per row.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			promptArg := promptPath
			if len(args) > 0 {
				promptArg = args[0]
			}

			config.LoadDotenv()

			opts := []config.Option{
				config.WithPromptFile(promptArg),
				config.WithOutputDir(outputDir),
				config.WithModel(model),
				config.WithCompress(compress),
			}

			var cfg *config.RunConfig
			if configPath != "" {
				loaded, err := config.Load(configPath, opts...)
				if err != nil {
					return err
				}
				cfg = loaded
			} else {
				cfg = config.New(opts...)
			}
			if endpoint != "" {
				cfg.Executor.EndpointURL = endpoint
			}
			if batchSize > 0 {
				cfg.Executor.BatchSize = batchSize
			}
			if useMock && cfg.Executor.EndpointURL == "" {
				cfg.Executor.EndpointURL = "mock"
			}
			if noReport {
				off := false
				cfg.SaveReport = &off
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runBenchmark(cmd.Context(), cfg, runFlags{noEval: noEval, junit: junit, useMock: useMock})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&promptPath, "prompts", "", "Prompt set file (JSON or CSV)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for run artifacts (default: current directory)")
	cmd.Flags().StringVar(&model, "model", "", "Model under test (overrides config)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "OpenAI-compatible endpoint URL (overrides config)")
	cmd.Flags().IntVar(&batchSize, "batch", 0, "Max concurrent requests (overrides config)")
	cmd.Flags().BoolVar(&noEval, "no-eval", false, "Skip judge evaluation of responses")
	cmd.Flags().BoolVar(&noReport, "no-report", false, "Skip writing the HTML report")
	cmd.Flags().BoolVar(&compress, "compress", false, "Gzip-compress JSON artifacts")
	cmd.Flags().BoolVar(&junit, "junit", false, "Also write a JUnit XML export")
	cmd.Flags().BoolVar(&useMock, "mock", false, "Use the mock engine instead of a live endpoint")

	return cmd
}

type runFlags struct {
	noEval  bool
	junit   bool
	useMock bool
}

func runBenchmark(ctx context.Context, cfg *config.RunConfig, flags runFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runID := uuid.NewString()
	runTime := time.Now().UTC()

	list, err := loadPrompts(cfg.PromptFile)
	if err != nil {
		return err
	}

	var engine execution.Engine
	if flags.useMock {
		engine = execution.NewMockEngine(cfg.Executor.Model)
	} else {
		engine = execution.NewOpenAIEngine(cfg.Executor.EndpointURL, cfg.Executor.APIKey, cfg.Executor.Model)
	}

	fmt.Printf("Running benchmark: %s\n", cfg.PromptFile)
	fmt.Printf("Model: %s\n", cfg.Executor.Model)
	fmt.Printf("Prompts: %d\n", len(list))
	fmt.Printf("Batch size: %d\n", cfg.Executor.BatchSize)
	fmt.Println()

	stop := startSpinner(fmt.Sprintf("Executing %d prompts...", len(list)))
	results, err := execution.Run(ctx, engine, list, cfg.Executor.BatchSize)
	stop()
	if err != nil {
		return err
	}

	if !flags.noEval {
		var judge execution.Engine
		if flags.useMock {
			judge = engine
		} else {
			judge = execution.NewOpenAIEngine(cfg.Evaluator.EndpointURL, cfg.Evaluator.APIKey, cfg.Evaluator.Model)
		}
		ev, err := evaluation.New(judge,
			evaluation.WithBatchSize(cfg.Evaluator.BatchSize),
			evaluation.WithMaxRetries(cfg.Evaluator.MaxRetries),
			evaluation.WithRequestDelay(time.Duration(cfg.Evaluator.RequestDelayMS)*time.Millisecond),
		)
		if err != nil {
			return err
		}
		stop := startSpinner(fmt.Sprintf("Evaluating %d responses...", len(results)))
		results, err = ev.Evaluate(ctx, results)
		stop()
		if err != nil {
			return err
		}
	}

	summary, structured := aggregate.Aggregate(results)
	summary.RunID = runID
	summary.Model = cfg.Executor.Model
	summary.Timestamp = runTime

	printRunSummary(summary)

	writer, err := artifacts.NewWriter(cfg.OutputDir, runTime, cfg.Compress)
	if err != nil {
		return err
	}

	var resultsPath string
	if cfg.SaveResultsEnabled() {
		if resultsPath, err = writer.WriteResults(structured); err != nil {
			return err
		}
		fmt.Printf("Results saved to: %s\n", resultsPath)
	}
	if cfg.SaveSummaryEnabled() {
		path, err := writer.WriteSummary(summary)
		if err != nil {
			return err
		}
		fmt.Printf("Summary saved to: %s\n", path)
	}
	if cfg.SaveReportEnabled() {
		view, err := viewFromStructured(structured)
		if err != nil {
			return err
		}
		path, err := writer.WriteReport(view, report.Options{
			Title:       cfg.Report.Title,
			Summary:     &summary.Overall,
			GeneratedAt: runTime,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Report saved to: %s\n", path)
	}
	if flags.junit {
		path, err := writer.WriteJUnit(summary, results)
		if err != nil {
			return err
		}
		fmt.Printf("JUnit export saved to: %s\n", path)
	}

	if summary.Overall.ErrorItems > 0 {
		return &BenchFailureError{
			Message: fmt.Sprintf("%d of %d items ended in an error",
				summary.Overall.ErrorItems, summary.Overall.TotalItems),
		}
	}
	return nil
}

// startSpinner shows a progress spinner when stdout is a terminal. The
// returned stop function is always safe to call.
func startSpinner(message string) func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}
	return spinner.Start(os.Stdout, message)
}

// loadPrompts picks the loader by file extension.
func loadPrompts(path string) ([]prompts.Prompt, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return prompts.LoadCSVFile(path)
	}
	return prompts.LoadFile(path)
}

// viewFromStructured rebuilds the report view from the structured payload so
// the written report reflects the same data as the results artifact.
func viewFromStructured(structured []any) (*report.View, error) {
	payload, err := json.Marshal(structured)
	if err != nil {
		return nil, fmt.Errorf("marshaling result payload: %w", err)
	}
	return report.BuildView(payload), nil
}
