package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/lomen-org/llm-benchmarks/internal/report"
)

func newReportCommand() *cobra.Command {
	var (
		outputPath string
		title      string
	)

	cmd := &cobra.Command{
		Use:   "report <results.json>",
		Short: "Render an HTML report from a results file",
		Long: `Render a self-contained HTML report from a benchmark results file.

The results file is the result_<timestamp>.json artifact written by the run
command; gzip-compressed artifacts are read transparently. Items in the file
are split into successful and error tabs; malformed files still produce a
report page with a diagnostic banner.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readResultsFile(args[0])
			if err != nil {
				return err
			}

			view := report.BuildView(payload)

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outputPath, err)
				}
				defer f.Close()
				out = f
			}

			if err := report.WriteHTML(out, view, report.Options{Title: title}); err != nil {
				return fmt.Errorf("rendering report: %w", err)
			}
			if outputPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to: %s\n", outputPath)
			}
			// Item-level anomalies degrade quietly, but an unparseable
			// payload must be visible to CI callers even though the banner
			// page was still written.
			if view.ParseError != "" {
				return fmt.Errorf("results file %s is not valid JSON: %s", args[0], view.ParseError)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output HTML file (default: stdout)")
	cmd.Flags().StringVar(&title, "title", "", "Report page title")

	return cmd
}

// readResultsFile reads a results artifact, decompressing .gz files.
func readResultsFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	defer zr.Close()
	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	return decompressed, nil
}
