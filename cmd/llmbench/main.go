package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Run completed cleanly
	ExitBenchFailed = 1 // Run completed but some items errored
	ExitError       = 2 // Configuration or runtime error
)

// BenchFailureError indicates that the benchmark ran to completion,
// but one or more items ended in an error.
type BenchFailureError struct {
	Message string
}

func (e *BenchFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var benchErr *BenchFailureError
		if errors.As(err, &benchErr) {
			os.Exit(ExitBenchFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
