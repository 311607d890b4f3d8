package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("mixed entries", func(t *testing.T) {
		data := []byte(`[
			{"id": "p1", "messages": [{"role": "user", "content": "hi"}], "expected": "hello"},
			{"id": "c1", "turns": [{"user": "first"}, {"user": "second", "expected": "two"}]},
			{"id": "broken"},
			{"messages": [{"role": "user", "content": "no id"}]},
			"not an object"
		]`)

		prompts, err := Parse(data)
		require.NoError(t, err)
		require.Len(t, prompts, 2)

		assert.Equal(t, "p1", prompts[0].ID)
		assert.False(t, prompts[0].IsConversation())
		require.NotNil(t, prompts[0].Expected)
		assert.Equal(t, "hello", *prompts[0].Expected)

		assert.Equal(t, "c1", prompts[1].ID)
		assert.True(t, prompts[1].IsConversation())
		require.Len(t, prompts[1].Turns, 2)
		assert.Nil(t, prompts[1].Turns[0].Expected)
	})

	t.Run("not an array", func(t *testing.T) {
		_, err := Parse([]byte(`{"id": "p1"}`))
		assert.Error(t, err)
	})

	t.Run("nothing valid", func(t *testing.T) {
		_, err := Parse([]byte(`[{"id": "x"}]`))
		assert.ErrorIs(t, err, ErrNoValidPrompts)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "p1", "messages": [{"role": "user", "content": "hi"}]}]`), 0o644))

	prompts, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, prompts, 1)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestValidateBytes(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		errs := ValidateBytes([]byte(`[{"id": "p1", "messages": [{"role": "user", "content": "hi"}]}]`))
		assert.Empty(t, errs)
	})

	t.Run("missing id", func(t *testing.T) {
		errs := ValidateBytes([]byte(`[{"messages": [{"role": "user", "content": "hi"}]}]`))
		assert.NotEmpty(t, errs)
	})

	t.Run("neither messages nor turns", func(t *testing.T) {
		errs := ValidateBytes([]byte(`[{"id": "p1"}]`))
		assert.NotEmpty(t, errs)
	})

	t.Run("bad role", func(t *testing.T) {
		errs := ValidateBytes([]byte(`[{"id": "p1", "messages": [{"role": "robot", "content": "hi"}]}]`))
		assert.NotEmpty(t, errs)
	})

	t.Run("invalid json", func(t *testing.T) {
		errs := ValidateBytes([]byte(`{`))
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "JSON parse error")
	})
}

func TestLoadCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,prompt,expected\nq1,What is 2+2?,4\nq2,Name a color,\n"), 0o644))

	prompts, err := LoadCSVFile(path)
	require.NoError(t, err)
	require.Len(t, prompts, 2)

	assert.Equal(t, "q1", prompts[0].ID)
	require.Len(t, prompts[0].Messages, 1)
	assert.Equal(t, "What is 2+2?", prompts[0].Messages[0].Content)
	require.NotNil(t, prompts[0].Expected)
	assert.Equal(t, "4", *prompts[0].Expected)
	assert.Nil(t, prompts[1].Expected)

	t.Run("missing columns", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.csv")
		require.NoError(t, os.WriteFile(bad, []byte("name,question\nx,y\n"), 0o644))
		_, err := LoadCSVFile(bad)
		assert.Error(t, err)
	})
}
