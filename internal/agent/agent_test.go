// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package agent

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-agent/internal/executor"
	"media-agent/internal/phases"
	"media-agent/internal/plan"
)

// stubPlanner returns a canned response without any model call.
type stubPlanner struct {
	resp *PlanResponse
	err  error
}

func (s *stubPlanner) Plan(ctx context.Context, req TaskRequest, opts PlanOptions) (*PlanResponse, error) {
	return s.resp, s.err
}

func validatedPlan(steps ...plan.StepPlan) *plan.CommandPlan {
	return &plan.CommandPlan{Steps: steps}
}

func newTestAgent(p Planner) *MediaAgent {
	return NewMediaAgent(p, executor.NewCommandExecutor(), nil)
}

func testRequest(t *testing.T) TaskRequest {
	return TaskRequest{
		Task:      "convert the clip",
		Files:     []TaskFile{{ID: "f1", OriginalName: "in.mp4", AbsolutePath: "/tmp/in.mp4", Size: 10}},
		OutputDir: t.TempDir(),
	}
}

func TestRunTask_Success(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	p := validatedPlan(plan.StepPlan{
		Command:   "touch",
		Arguments: []string{target},
		Outputs:   []plan.OutputPlan{{Path: target, Description: "touched"}},
	})
	a := newTestAgent(&stubPlanner{resp: &PlanResponse{Plan: p, RawPlan: map[string]any{"steps": []any{}}}})

	res, err := a.RunTask(context.Background(), testRequest(t), RunOptions{})

	require.NoError(t, err)
	assert.NotEmpty(t, res.TaskID)
	assert.Same(t, p, res.Plan)
	require.NotNil(t, res.Result.ExitCode)
	assert.Equal(t, 0, *res.Result.ExitCode)

	require.Len(t, res.Phases, 3)
	for _, ph := range res.Phases {
		assert.Equal(t, phases.StatusSuccess, ph.Status, "phase %s", ph.ID)
	}
	assert.Equal(t, 1, res.Phases[2].Meta["outputs"])
	assert.Equal(t, 1, res.Phases[2].Meta["outputs_existing"])
}

func TestRunTask_PlanFailureCarriesPartialContext(t *testing.T) {
	cause := errors.New("step 0 names unknown command \"rm\"")
	a := newTestAgent(&stubPlanner{
		resp: &PlanResponse{
			RawPlan:      map[string]any{"steps": []any{"bad"}},
			ResponseText: "raw model text",
			Debug:        map[string]any{"model": "test"},
		},
		err: cause,
	})

	_, err := a.RunTask(context.Background(), testRequest(t), RunOptions{})

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "Plan phase failed", taskErr.Message)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "raw model text", taskErr.Context.ResponseText)
	assert.NotNil(t, taskErr.Context.RawPlan)

	require.Len(t, taskErr.Phases, 3)
	assert.Equal(t, phases.StatusFailed, taskErr.Phases[0].Status)
	assert.Equal(t, phases.StatusPending, taskErr.Phases[1].Status)
}

func TestRunTask_SemanticFailureOnNonZeroExit(t *testing.T) {
	p := validatedPlan(
		plan.StepPlan{Command: "echo", Arguments: []string{"fine"}},
		plan.StepPlan{Command: "false"},
	)
	a := newTestAgent(&stubPlanner{resp: &PlanResponse{Plan: p}})

	_, err := a.RunTask(context.Background(), testRequest(t), RunOptions{})

	// Execute returned normally; the agent still classifies the task as
	// failed because a step exited non-zero.
	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "Execution phase failed", taskErr.Message)
	assert.Contains(t, taskErr.Cause.Error(), "step 2 (false) exited with code 1")

	require.NotNil(t, taskErr.Context.Result)
	assert.Equal(t, executor.StatusExecuted, taskErr.Context.Result.Steps[1].Status)

	assert.Equal(t, phases.StatusSuccess, taskErr.Phases[0].Status)
	assert.Equal(t, phases.StatusFailed, taskErr.Phases[1].Status)
	assert.Equal(t, phases.StatusPending, taskErr.Phases[2].Status)
}

func TestRunTask_TimeoutNamedInFailure(t *testing.T) {
	p := validatedPlan(plan.StepPlan{Command: "sleep", Arguments: []string{"30"}})
	a := newTestAgent(&stubPlanner{resp: &PlanResponse{Plan: p}})

	_, err := a.RunTask(context.Background(), testRequest(t), RunOptions{Timeout: 200 * time.Millisecond})

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Contains(t, taskErr.Cause.Error(), "timed out")
}

func TestRunTask_DryRunSucceeds(t *testing.T) {
	p := validatedPlan(plan.StepPlan{Command: "ffmpeg", Arguments: []string{"-i", "in.mp4", "out.mp4"}})
	a := newTestAgent(&stubPlanner{resp: &PlanResponse{Plan: p}})

	res, err := a.RunTask(context.Background(), testRequest(t), RunOptions{DryRun: true})

	require.NoError(t, err)
	assert.Nil(t, res.Result.ExitCode)
	assert.True(t, res.Result.DryRun)
	assert.Equal(t, executor.SkipDryRun, res.Result.Steps[0].SkipReason)
}
