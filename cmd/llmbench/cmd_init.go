package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lomen-org/llm-benchmarks/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new benchmark project",
		Long: `Initialize a new benchmark project: a benchmark.yaml config file and a
starter prompts.json with one single prompt and one conversation.

Use --interactive to run a guided wizard that collects the model, endpoint,
and batch settings. Without it, the files are created with defaults.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the guided setup wizard")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	spec := &wizard.BenchmarkSpec{
		Name:       filepath.Base(dir),
		Model:      "gemini-2.0-flash",
		PromptFile: "prompts.json",
		BatchSize:  5,
		Evaluate:   true,
	}
	if interactive {
		collected, err := wizard.RunSetupWizard(cmd.InOrStdin(), cmd.OutOrStdout(), spec.Name)
		if err != nil {
			return err
		}
		spec = collected
	}

	configYAML, err := wizard.GenerateConfigYAML(spec)
	if err != nil {
		return err
	}
	configPath := filepath.Join(dir, "benchmark.yaml")
	if err := writeIfAbsent(configPath, configYAML); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", configPath) //nolint:errcheck

	promptsJSON, err := wizard.GenerateStarterPrompts()
	if err != nil {
		return err
	}
	promptPath := filepath.Join(dir, spec.PromptFile)
	if err := writeIfAbsent(promptPath, promptsJSON); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", promptPath) //nolint:errcheck

	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintf(cmd.OutOrStdout(), "  1. Set BENCHMARK_ENDPOINT_URL and BENCHMARK_API_KEY (or edit %s)\n", configPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  2. Edit %s with your prompts\n", promptPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  3. Run: llmbench run -c %s\n", configPath)
	return nil
}

// writeIfAbsent writes the file unless it already exists.
func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
