// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"media-agent/internal/agent"
	"media-agent/internal/executor"
	"media-agent/internal/plan"
)

type cannedPlanner struct {
	plan *plan.CommandPlan
	err  error
}

func (c *cannedPlanner) Plan(ctx context.Context, req agent.TaskRequest, opts agent.PlanOptions) (*agent.PlanResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &agent.PlanResponse{Plan: c.plan, RawPlan: map[string]any{}}, nil
}

func TestMediaTaskInput_Validate(t *testing.T) {
	valid := MediaTaskInput{Request: agent.TaskRequest{Task: "convert", OutputDir: "/tmp/out"}}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&MediaTaskInput{Request: agent.TaskRequest{OutputDir: "/tmp/out"}}).Validate())
	assert.Error(t, (&MediaTaskInput{Request: agent.TaskRequest{Task: "convert"}}).Validate())
}

func TestMediaTaskWorkflow_Success(t *testing.T) {
	s := &testsuite.WorkflowTestSuite{}
	env := s.NewTestWorkflowEnvironment()

	outDir := t.TempDir()
	target := filepath.Join(outDir, "out.txt")
	activities := NewMediaActivities(&cannedPlanner{plan: &plan.CommandPlan{
		Steps: []plan.StepPlan{{
			Command:   "touch",
			Arguments: []string{target},
			Outputs:   []plan.OutputPlan{{Path: target, Description: "result"}},
		}},
	}}, executor.NewCommandExecutor())
	env.RegisterActivity(activities)

	env.ExecuteWorkflow(MediaTaskWorkflow, MediaTaskInput{
		Request: agent.TaskRequest{Task: "touch a file", OutputDir: outDir},
	})

	require.NoError(t, env.GetWorkflowError())
	var result MediaTaskResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.NotNil(t, result.Result)
	require.Len(t, result.Result.Steps, 1)
	assert.Equal(t, executor.StatusExecuted, result.Result.Steps[0].Status)
	assert.True(t, result.Result.ResolvedOutputs[0].Exists)
}

func TestMediaTaskWorkflow_PlanFailurePropagates(t *testing.T) {
	s := &testsuite.WorkflowTestSuite{}
	env := s.NewTestWorkflowEnvironment()

	activities := NewMediaActivities(&cannedPlanner{err: errors.New("no JSON object found")}, executor.NewCommandExecutor())
	env.RegisterActivity(activities)

	env.ExecuteWorkflow(MediaTaskWorkflow, MediaTaskInput{
		Request: agent.TaskRequest{Task: "convert", OutputDir: t.TempDir()},
	})

	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan phase failed")
}

func TestMediaTaskWorkflow_StepFailureFailsWorkflow(t *testing.T) {
	s := &testsuite.WorkflowTestSuite{}
	env := s.NewTestWorkflowEnvironment()

	activities := NewMediaActivities(&cannedPlanner{plan: &plan.CommandPlan{
		Steps: []plan.StepPlan{{Command: "false"}},
	}}, executor.NewCommandExecutor())
	env.RegisterActivity(activities)

	env.ExecuteWorkflow(MediaTaskWorkflow, MediaTaskInput{
		Request: agent.TaskRequest{Task: "fail", OutputDir: t.TempDir()},
	})

	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (false) failed")
}

func TestMediaTaskWorkflow_InvalidInputRejected(t *testing.T) {
	s := &testsuite.WorkflowTestSuite{}
	env := s.NewTestWorkflowEnvironment()

	activities := NewMediaActivities(&cannedPlanner{}, executor.NewCommandExecutor())
	env.RegisterActivity(activities)

	env.ExecuteWorkflow(MediaTaskWorkflow, MediaTaskInput{})

	require.Error(t, env.GetWorkflowError())
	assert.Contains(t, env.GetWorkflowError().Error(), "task is required")
}
