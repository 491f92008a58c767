// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package prompts builds the planning prompt sent to the model. Keeping the
// text in one place makes prompt regressions reviewable like code.
package prompts

import (
	"fmt"
	"strings"

	"media-agent/internal/agent"
	"media-agent/internal/tools"
)

const planSystemRules = `You are a media-processing planner. Turn the user's request into a JSON
command plan and output NOTHING but that JSON object. No markdown fences,
no prose.

Output shape:
{"steps": [{"command": "<tool id>", "arguments": ["..."], "reasoning": "...",
"outputs": [{"path": "<absolute path under the output directory>",
"description": "..."}]}], "overview": "...", "followUp": "..."}

Rules:
- "command" must be one of the tool ids listed below, or "none" for an
  explicit no-op step.
- "arguments" is the argument vector only; never include the tool name and
  never rely on shell features (pipes, redirection, globs, $VARS).
- Every file a step writes must be declared in "outputs" with a path inside
  the output directory. Paths outside it are rejected.
- Steps run strictly in order; later steps may read files earlier steps
  produced.
- Reference input files by their absolute paths as given.`

// PlanRequest carries everything the prompt needs to describe one task.
type PlanRequest struct {
	Task      string
	Files     []agent.TaskFile
	OutputDir string
	Tools     []tools.Definition
}

// BuildPlanPrompt renders the full planning prompt for one request.
func BuildPlanPrompt(req PlanRequest) string {
	var b strings.Builder

	b.WriteString(planSystemRules)
	b.WriteString("\n\nAvailable tools:\n")
	for _, d := range req.Tools {
		fmt.Fprintf(&b, "- %s (%s): %s\n", d.ID, d.Title, d.Description)
	}

	fmt.Fprintf(&b, "\nOutput directory: %s\n", req.OutputDir)

	if len(req.Files) == 0 {
		b.WriteString("\nInput files: none\n")
	} else {
		b.WriteString("\nInput files:\n")
		for _, f := range req.Files {
			fmt.Fprintf(&b, "- %s (%s, %d bytes", f.AbsolutePath, f.OriginalName, f.Size)
			if f.MimeType != "" {
				fmt.Fprintf(&b, ", %s", f.MimeType)
			}
			b.WriteString(")\n")
		}
	}

	fmt.Fprintf(&b, "\nRequest:\n%s\n", strings.TrimSpace(req.Task))
	return b.String()
}
