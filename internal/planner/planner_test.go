// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package planner

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-agent/internal/agent"
	"media-agent/internal/llm"
	"media-agent/internal/plan"
	"media-agent/internal/tools"
)

// fakeModel returns canned response text and records the prompt it saw.
type fakeModel struct {
	response string
	err      error
	prompt   string
}

func (f *fakeModel) ExecutePrompt(ctx context.Context, prompt string, opts *llm.PromptOptions) (*llm.PromptResult, error) {
	f.prompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llm.PromptResult{
		SessionID: "sess-1",
		Parts:     []llm.ResultPart{{Type: "text", Text: f.response}},
	}, nil
}

func planRequest(t *testing.T) agent.TaskRequest {
	return agent.TaskRequest{
		Task:      "make a thumbnail",
		Files:     []agent.TaskFile{{OriginalName: "in.mp4", AbsolutePath: "/data/in.mp4"}},
		OutputDir: t.TempDir(),
	}
}

func TestPlan_ValidResponse(t *testing.T) {
	req := planRequest(t)
	out := filepath.Join(req.OutputDir, "thumb.png")
	model := &fakeModel{response: fmt.Sprintf(
		`{"steps": [{"command": "ffmpeg", "arguments": ["-i", "/data/in.mp4", "-frames:v", "1", %q], "outputs": [{"path": %q, "description": "thumbnail"}]}]}`,
		out, out,
	)}
	p := New(model, tools.DefaultRegistry(), Config{Model: "claude-opus-4.5"})

	resp, err := p.Plan(context.Background(), req, agent.PlanOptions{Debug: true, IncludeRawResponse: true})

	require.NoError(t, err)
	require.NotNil(t, resp.Plan)
	assert.Equal(t, "ffmpeg", resp.Plan.Steps[0].Command)
	assert.Equal(t, out, resp.Plan.Steps[0].Outputs[0].Path)
	assert.NotNil(t, resp.RawPlan)
	assert.Contains(t, resp.ResponseText, "thumb.png")
	assert.Equal(t, "sess-1", resp.Debug["session_id"])

	// The prompt advertises the tools and the output directory.
	assert.Contains(t, model.prompt, "ffmpeg")
	assert.Contains(t, model.prompt, req.OutputDir)
	assert.Contains(t, model.prompt, "/data/in.mp4")
}

func TestPlan_LegacySingleCommandNormalized(t *testing.T) {
	req := planRequest(t)
	model := &fakeModel{response: `{"command": "ffprobe", "arguments": ["-show_format", "/data/in.mp4"]}`}
	p := New(model, tools.DefaultRegistry(), Config{})

	resp, err := p.Plan(context.Background(), req, agent.PlanOptions{})

	require.NoError(t, err)
	require.Len(t, resp.Plan.Steps, 1)
	assert.Equal(t, "ffprobe", resp.Plan.Steps[0].Command)
}

func TestPlan_InvalidPlanReturnsPartials(t *testing.T) {
	req := planRequest(t)
	model := &fakeModel{response: `{"steps": [{"command": "rm", "arguments": ["-rf", "/"]}]}`}
	p := New(model, tools.DefaultRegistry(), Config{})

	resp, err := p.Plan(context.Background(), req, agent.PlanOptions{})

	require.Error(t, err)
	var verr *plan.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, plan.ErrUnknownCommand, verr.Kind)

	// Partial context survives for diagnostics.
	require.NotNil(t, resp)
	assert.Nil(t, resp.Plan)
	assert.NotNil(t, resp.RawPlan)
	assert.Contains(t, resp.ResponseText, "rm")
}

func TestPlan_UnparseableResponse(t *testing.T) {
	req := planRequest(t)
	model := &fakeModel{response: "I refuse to answer in JSON."}
	p := New(model, tools.DefaultRegistry(), Config{})

	resp, err := p.Plan(context.Background(), req, agent.PlanOptions{})

	assert.ErrorIs(t, err, ErrNoPlanJSON)
	assert.Equal(t, "I refuse to answer in JSON.", resp.ResponseText)
}

func TestPlan_EscapingOutputRejected(t *testing.T) {
	req := planRequest(t)
	model := &fakeModel{response: fmt.Sprintf(
		`{"steps": [{"command": "ffmpeg", "arguments": [], "outputs": [{"path": %q}]}]}`,
		filepath.Join(req.OutputDir, "..", "escape.mp4"),
	)}
	p := New(model, tools.DefaultRegistry(), Config{})

	_, err := p.Plan(context.Background(), req, agent.PlanOptions{})

	var verr *plan.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, plan.ErrPathEscapesOutputDir, verr.Kind)
}
