package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lomen-org/llm-benchmarks/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var (
		port      int
		outputDir string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a dashboard over stored benchmark runs",
		Long: `Start a local HTTP server over the artifacts in the output directory.

The dashboard lists every stored run and renders its HTML report on demand.
A small REST API is exposed under /api for tooling:

  GET /api/health       Health check
  GET /api/summary      Aggregate metrics across all runs
  GET /api/runs         List runs (sort, order query params)
  GET /api/runs/{id}    Run statistics

The server binds to 127.0.0.1 and opens a browser unless --no-browser is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := webserver.New(webserver.Config{
				Port:      port,
				OutputDir: outputDir,
				NoBrowser: noBrowser,
				Logger:    slog.Default(),
			})
			if err != nil {
				return err
			}
			return server.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "Port to listen on")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory holding run artifacts")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser")

	return cmd
}
