package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchFailureErrorUnwrapsThroughWrapping(t *testing.T) {
	inner := &BenchFailureError{Message: "2 of 5 items ended in an error"}
	wrapped := fmt.Errorf("run failed: %w", inner)

	var benchErr *BenchFailureError
	require.True(t, errors.As(wrapped, &benchErr))
	assert.Equal(t, "2 of 5 items ended in an error", benchErr.Error())
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()

	expected := []string{"run", "report", "check", "init", "serve"}
	for _, name := range expected {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %s", name)
	}
}
