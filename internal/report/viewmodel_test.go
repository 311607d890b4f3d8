package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("conversation", func(t *testing.T) {
		item, err := Classify(map[string]any{
			"id":                   "c1",
			"turns":                []any{map[string]any{"id": "c1-turn-1", "user_message": "hi"}},
			"conversation_summary": map[string]any{"total_turns": 1.0},
		})
		require.NoError(t, err)
		assert.Equal(t, KindConversation, item.Kind)
		require.NotNil(t, item.Conversation)
		assert.Equal(t, "c1", item.ID())
		require.NotNil(t, item.Conversation.Summary)
		assert.Equal(t, 1, item.Conversation.Summary.TotalTurns)
	})

	t.Run("single prompt", func(t *testing.T) {
		item, err := Classify(map[string]any{"id": "s1", "user_message": "hi"})
		require.NoError(t, err)
		assert.Equal(t, KindSinglePrompt, item.Kind)
		assert.Equal(t, "s1", item.ID())
	})

	t.Run("turns without summary is unrecognized", func(t *testing.T) {
		item, err := Classify(map[string]any{"id": "c1", "turns": []any{}})
		require.NoError(t, err)
		assert.Equal(t, KindUnrecognized, item.Kind)
	})

	t.Run("null summary is unrecognized", func(t *testing.T) {
		item, err := Classify(map[string]any{"id": "c1", "turns": []any{}, "conversation_summary": nil})
		require.NoError(t, err)
		assert.Equal(t, KindUnrecognized, item.Kind)
	})

	t.Run("missing id is unrecognized", func(t *testing.T) {
		item, err := Classify(map[string]any{"user_message": "hi"})
		require.NoError(t, err)
		assert.Equal(t, KindUnrecognized, item.Kind)
	})

	t.Run("non-object is unrecognized", func(t *testing.T) {
		item, err := Classify("just a string")
		require.NoError(t, err)
		assert.Equal(t, KindUnrecognized, item.Kind)
	})
}

func TestBuildViewConversationSuccess(t *testing.T) {
	payload := []byte(`[{
		"id": "c1",
		"turns": [{"id": "t1", "score": 1.0, "latency": 2.0, "actual": "a", "user_message": "u"}],
		"conversation_summary": {
			"total_turns": 1,
			"successfully_completed_turns": 1,
			"error_turns": 0,
			"average_score": 1.0,
			"average_latency_per_turn": 2.0
		}
	}]`)

	view := BuildView(payload)
	require.Empty(t, view.ParseError)
	assert.False(t, view.NoData)
	require.Len(t, view.Success, 1)
	assert.Empty(t, view.Errors)
	assert.Equal(t, "Successful (1)", view.SuccessLabel())
	assert.Equal(t, "Errors (0)", view.ErrorLabel())
}

func TestBuildViewSinglePromptError(t *testing.T) {
	payload := []byte(`[{"id": "s1", "error": "timeout", "latency": 1.5, "actual": null, "user_message": "hi"}]`)

	view := BuildView(payload)
	assert.Empty(t, view.Success)
	require.Len(t, view.Errors, 1)
	assert.Equal(t, "s1", view.Errors[0].ID())
	assert.Equal(t, "timeout", ErrorText(view.Errors[0].Single))
}

func TestBuildViewErrorPredicate(t *testing.T) {
	t.Run("conversation with error turns", func(t *testing.T) {
		payload := []byte(`[{
			"id": "c1", "turns": [],
			"conversation_summary": {"total_turns": 2, "error_turns": 1}
		}]`)
		view := BuildView(payload)
		require.Len(t, view.Errors, 1)
		assert.Empty(t, view.Success)
	})

	t.Run("single prompt with eval error only", func(t *testing.T) {
		payload := []byte(`[{"id": "s1", "user_message": "hi", "actual": "a", "eval_error": "judge failed"}]`)
		view := BuildView(payload)
		require.Len(t, view.Errors, 1)
	})

	t.Run("clean single prompt", func(t *testing.T) {
		payload := []byte(`[{"id": "s1", "user_message": "hi", "actual": "a", "score": 0.9}]`)
		view := BuildView(payload)
		require.Len(t, view.Success, 1)
	})
}

func TestBuildViewDegradedInputs(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		view := BuildView([]byte(`{not json`))
		assert.NotEmpty(t, view.ParseError)
		assert.Empty(t, view.Success)
		assert.Empty(t, view.Errors)
	})

	t.Run("null payload", func(t *testing.T) {
		view := BuildView([]byte(`null`))
		assert.True(t, view.NoData)
		assert.Empty(t, view.ParseError)
	})

	t.Run("non-array payload", func(t *testing.T) {
		view := BuildView([]byte(`{"id": "s1"}`))
		assert.True(t, view.NoData)
	})

	t.Run("empty array", func(t *testing.T) {
		view := BuildView([]byte(`[]`))
		assert.True(t, view.NoData)
		assert.Equal(t, "Successful (0)", view.SuccessLabel())
		assert.Equal(t, "Errors (0)", view.ErrorLabel())
	})

	t.Run("empty input", func(t *testing.T) {
		view := BuildView(nil)
		assert.True(t, view.NoData)
	})

	t.Run("unrecognized items are skipped", func(t *testing.T) {
		payload := []byte(`[
			{"note": "no id, no turns"},
			42,
			{"id": "s1", "user_message": "hi", "actual": "a"}
		]`)
		view := BuildView(payload)
		assert.Len(t, view.Success, 1)
		assert.Empty(t, view.Errors)
	})
}

func TestBuildViewDeterministic(t *testing.T) {
	payload := []byte(`[
		{"id": "s1", "user_message": "a", "actual": "x"},
		{"id": "s2", "user_message": "b", "error": "boom"},
		{"id": "s3", "user_message": "c", "actual": "y"},
		{"id": "s4", "user_message": "d", "eval_error": "judge"}
	]`)

	first := BuildView(payload)
	second := BuildView(payload)

	require.Len(t, first.Success, 2)
	require.Len(t, first.Errors, 2)

	// Input order is preserved within each bucket.
	assert.Equal(t, "s1", first.Success[0].ID())
	assert.Equal(t, "s3", first.Success[1].ID())
	assert.Equal(t, "s2", first.Errors[0].ID())
	assert.Equal(t, "s4", first.Errors[1].ID())

	for i := range first.Success {
		assert.Equal(t, first.Success[i].ID(), second.Success[i].ID())
	}
	for i := range first.Errors {
		assert.Equal(t, first.Errors[i].ID(), second.Errors[i].ID())
	}
}

func TestItemTurns(t *testing.T) {
	payload := []byte(`[{
		"id": "c1",
		"turns": [
			{"id": "t1", "turn": 1, "user_message": "u1", "actual": "a1"},
			{"id": "t2", "turn": 2, "user_message": "u2", "actual": "a2"}
		],
		"conversation_summary": {"total_turns": 2, "successfully_completed_turns": 2}
	}]`)

	view := BuildView(payload)
	require.Len(t, view.Success, 1)

	turns := view.Success[0].Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "t1", turns[0].ID)
	assert.Equal(t, 2, turns[1].Turn)
}
