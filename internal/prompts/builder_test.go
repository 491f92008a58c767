// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"media-agent/internal/agent"
	"media-agent/internal/tools"
)

func TestBuildPlanPrompt_ListsToolsFilesAndTask(t *testing.T) {
	prompt := BuildPlanPrompt(PlanRequest{
		Task:      "extract the audio track as mp3",
		OutputDir: "/srv/sessions/s1/out",
		Files: []agent.TaskFile{
			{OriginalName: "talk.mp4", AbsolutePath: "/srv/sessions/s1/in/talk.mp4", Size: 1024, MimeType: "video/mp4"},
		},
		Tools: tools.DefaultRegistry().DescribeExecutableCommands(),
	})

	assert.Contains(t, prompt, "- ffmpeg (FFmpeg)")
	assert.Contains(t, prompt, "- exiftool (ExifTool)")
	assert.NotContains(t, prompt, "- none (")
	assert.Contains(t, prompt, "Output directory: /srv/sessions/s1/out")
	assert.Contains(t, prompt, "/srv/sessions/s1/in/talk.mp4 (talk.mp4, 1024 bytes, video/mp4)")
	assert.Contains(t, prompt, "extract the audio track as mp3")
}

func TestBuildPlanPrompt_NoFiles(t *testing.T) {
	prompt := BuildPlanPrompt(PlanRequest{
		Task:      "generate a test pattern video",
		OutputDir: "/tmp/out",
		Tools:     tools.DefaultRegistry().DescribeExecutableCommands(),
	})

	assert.Contains(t, prompt, "Input files: none")
}
