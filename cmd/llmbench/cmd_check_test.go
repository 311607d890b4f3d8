package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCheckCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"check"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writePromptFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckCommandValidPrompts(t *testing.T) {
	path := writePromptFile(t, `[
	  {"id": "p1", "messages": [{"role": "user", "content": "hi"}]},
	  {"id": "c1", "turns": [{"user": "first"}, {"user": "second"}]}
	]`)

	out, err := runCheckCommand(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 prompts, no problems found")
}

func TestCheckCommandInvalidPrompts(t *testing.T) {
	path := writePromptFile(t, `[{"messages": [{"role": "user", "content": "hi"}]}]`)

	out, err := runCheckCommand(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
	assert.Contains(t, out, "FAIL")
}

func TestCheckCommandJSONFormat(t *testing.T) {
	path := writePromptFile(t, `[{"id": "p1", "messages": [{"role": "user", "content": "hi"}]}]`)

	out, err := runCheckCommand(t, path, "--format", "json")
	require.NoError(t, err)

	var rep checkJSONReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.Valid)
	assert.Equal(t, 1, rep.Prompts)
	assert.Empty(t, rep.Problems)
}

func TestCheckCommandMissingFile(t *testing.T) {
	_, err := runCheckCommand(t, filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
