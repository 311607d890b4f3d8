package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `[
  {"id": "s1", "user_message": "What is 2+2?", "actual": "4", "latency": 0.8, "score": 0.95},
  {"id": "s2", "user_message": "Fetch the data", "actual": null, "latency": 30.0, "error": "timeout", "score": null}
]`

func writePayload(t *testing.T, name, content string, compressed bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if compressed {
		f, err := os.Create(path)
		require.NoError(t, err)
		zw := gzip.NewWriter(f)
		_, err = zw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		require.NoError(t, f.Close())
		return path
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runReportCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"report"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCommandStdout(t *testing.T) {
	path := writePayload(t, "result.json", samplePayload, false)

	out, err := runReportCommand(t, path)
	require.NoError(t, err)

	assert.Contains(t, out, "Successful (1)")
	assert.Contains(t, out, "Errors (1)")
	assert.Contains(t, out, "Error: timeout")
}

func TestReportCommandOutputFile(t *testing.T) {
	path := writePayload(t, "result.json", samplePayload, false)
	outPath := filepath.Join(t.TempDir(), "report.html")

	_, err := runReportCommand(t, path, "-o", outPath, "--title", "Nightly Benchmark")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Nightly Benchmark")
}

func TestReportCommandCompressedInput(t *testing.T) {
	path := writePayload(t, "result.json.gz", samplePayload, true)

	out, err := runReportCommand(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Successful (1)")
}

func TestReportCommandMalformedPayload(t *testing.T) {
	path := writePayload(t, "result.json", `{"not": "an array"`, false)

	// Malformed payloads still render a page with a diagnostic banner, but
	// the command fails so scripted callers see the parse failure.
	out, err := runReportCommand(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
	assert.Contains(t, out, "Failed to parse the results payload")
}

func TestReportCommandItemAnomaliesSucceed(t *testing.T) {
	// Entries that classify as neither a single prompt nor a conversation
	// are skipped; only a parse-level failure fails the command.
	path := writePayload(t, "result.json", `[{"note": "no id"}, 42]`, false)

	out, err := runReportCommand(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Successful (0)")
	assert.Contains(t, out, "Errors (0)")
}

func TestReportCommandMissingFile(t *testing.T) {
	_, err := runReportCommand(t, filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading results file")
}
