package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lomen-org/llm-benchmarks/internal/prompts"
)

func newCheckCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check <prompts.json>",
		Short: "Check a prompt set before running it",
		Long: `Check a prompt set against the prompt schema and report every problem.

Schema violations do not stop a run (invalid entries are skipped with a
warning), but checking first avoids paying for a run that silently drops
half its prompts.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text | json")
	return cmd
}

type checkJSONReport struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Prompts  int      `json:"prompts"`
	Problems []string `json:"problems"`
}

func runCheck(cmd *cobra.Command, path, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading prompt set: %w", err)
	}

	problems := prompts.ValidateBytes(data)
	loaded, loadErr := prompts.Parse(data)
	if loadErr != nil && len(problems) == 0 {
		problems = append(problems, loadErr.Error())
	}

	if format == "json" {
		rep := checkJSONReport{
			File:     path,
			Valid:    len(problems) == 0,
			Prompts:  len(loaded),
			Problems: problems,
		}
		if rep.Problems == nil {
			rep.Problems = []string{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	out := cmd.OutOrStdout()
	if len(problems) == 0 {
		color.New(color.FgGreen).Fprintf(out, "OK") //nolint:errcheck
		fmt.Fprintf(out, "  %s: %d prompts, no problems found\n", path, len(loaded))
		return nil
	}

	color.New(color.FgRed).Fprintf(out, "FAIL") //nolint:errcheck
	fmt.Fprintf(out, "  %s: %d problems\n", path, len(problems))
	for _, p := range problems {
		fmt.Fprintf(out, "  - %s\n", p)
	}
	return fmt.Errorf("prompt set %s failed validation", path)
}
