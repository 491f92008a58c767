// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package plan

// NormalizeRaw maps the legacy single-command plan shape
// ({"command": ..., "arguments": [...]} at the root) onto the canonical
// {"steps": [...]} shape. It is a pure function applied before Validate so
// the validator's contract stays single-shaped. Plans already carrying a
// steps array pass through untouched; anything else is returned as-is for
// Validate to reject with a proper error.
func NormalizeRaw(raw any) any {
	root, ok := raw.(map[string]any)
	if !ok {
		return raw
	}
	if _, hasSteps := root["steps"]; hasSteps {
		return raw
	}
	if _, hasCommand := root["command"]; !hasCommand {
		return raw
	}

	step := map[string]any{
		"command": root["command"],
	}
	for _, key := range []string{"arguments", "reasoning", "outputs", "id", "title", "note"} {
		if v, ok := root[key]; ok {
			step[key] = v
		}
	}

	normalized := map[string]any{
		"steps": []any{step},
	}
	for _, key := range []string{"overview", "followUp"} {
		if v, ok := root[key]; ok {
			normalized[key] = v
		}
	}
	return normalized
}
