// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlanJSON_BareObject(t *testing.T) {
	raw, err := ExtractPlanJSON(`{"steps": [{"command": "none", "arguments": []}]}`)

	require.NoError(t, err)
	root, ok := raw.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, root, "steps")
}

func TestExtractPlanJSON_CodeFence(t *testing.T) {
	text := "Here is the plan:\n```json\n{\"steps\": [{\"command\": \"ffmpeg\", \"arguments\": []}]}\n```\nDone."

	raw, err := ExtractPlanJSON(text)

	require.NoError(t, err)
	root := raw.(map[string]any)
	steps := root["steps"].([]any)
	assert.Len(t, steps, 1)
}

func TestExtractPlanJSON_ProseAroundObject(t *testing.T) {
	text := `Sure! {"steps": [{"command": "ffprobe", "arguments": ["-i", "a {b}.mp4"]}]} hope that helps`

	raw, err := ExtractPlanJSON(text)

	require.NoError(t, err)
	root := raw.(map[string]any)
	steps := root["steps"].([]any)
	step := steps[0].(map[string]any)
	// Braces inside string values must not end the scan early.
	args := step["arguments"].([]any)
	assert.Equal(t, "a {b}.mp4", args[1])
}

func TestExtractPlanJSON_NoJSON(t *testing.T) {
	_, err := ExtractPlanJSON("I cannot help with that.")
	assert.ErrorIs(t, err, ErrNoPlanJSON)

	_, err = ExtractPlanJSON("unbalanced { \"steps\": [")
	assert.ErrorIs(t, err, ErrNoPlanJSON)
}

func TestExtractPlanJSON_EscapedQuotes(t *testing.T) {
	text := `{"steps": [{"command": "none", "arguments": [], "reasoning": "say \"hi\" and stop"}]}`

	raw, err := ExtractPlanJSON(text)

	require.NoError(t, err)
	root := raw.(map[string]any)
	assert.Contains(t, root, "steps")
}
