// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"media-agent/internal/agent"
	"media-agent/internal/executor"
	"media-agent/internal/plan"
)

// MediaTaskInput is the workflow input for one media task run.
type MediaTaskInput struct {
	Request            agent.TaskRequest
	Cwd                string
	TimeoutSeconds     int
	PublicRoot         string
	DryRun             bool
	Debug              bool
	IncludeRawResponse bool
}

// Validate checks that required fields are present.
func (m *MediaTaskInput) Validate() error {
	if m.Request.Task == "" {
		return errors.New("task is required")
	}
	if m.Request.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	return nil
}

// MediaTaskResult is the workflow output.
type MediaTaskResult struct {
	Plan    *plan.CommandPlan
	RawPlan any
	Result  *executor.Result
}

// MediaTaskWorkflow plans and executes one media task. Planning retries a
// couple of times because model output is stochastic; execution never
// retries automatically, since re-running partially applied media commands
// is not safe in general.
func MediaTaskWorkflow(ctx workflow.Context, input MediaTaskInput) (*MediaTaskResult, error) {
	logger := workflow.GetLogger(ctx)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	planCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	var planned PlanTaskResult
	err := workflow.ExecuteActivity(planCtx, "PlanTask", PlanTaskInput{
		Request:            input.Request,
		Debug:              input.Debug,
		IncludeRawResponse: input.IncludeRawResponse,
	}).Get(planCtx, &planned)
	if err != nil {
		logger.Error("Plan phase failed", "error", err)
		return nil, fmt.Errorf("plan phase failed: %w", err)
	}
	logger.Info("Plan phase complete", "steps", len(planned.Plan.Steps))

	stepTimeout := time.Duration(input.TimeoutSeconds) * time.Second
	if stepTimeout <= 0 {
		stepTimeout = executor.DefaultStepTimeout
	}
	execCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		// The activity runs every step sequentially; budget for the whole
		// plan rather than one step.
		StartToCloseTimeout: stepTimeout*time.Duration(len(planned.Plan.Steps)) + time.Minute,
		HeartbeatTimeout:    2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	var result executor.Result
	err = workflow.ExecuteActivity(execCtx, "ExecutePlan", ExecutePlanInput{
		Plan:           planned.Plan,
		Cwd:            input.Cwd,
		TimeoutSeconds: input.TimeoutSeconds,
		PublicRoot:     input.PublicRoot,
		DryRun:         input.DryRun,
	}).Get(execCtx, &result)
	if err != nil {
		logger.Error("Execute phase failed", "error", err)
		return nil, fmt.Errorf("execute phase failed: %w", err)
	}

	if result.Failed() {
		i := result.FirstFailure()
		if i >= 0 {
			step := result.Steps[i]
			if step.TimedOut {
				return nil, fmt.Errorf("step %d (%s) timed out", i+1, step.Command)
			}
			return nil, fmt.Errorf("step %d (%s) failed", i+1, step.Command)
		}
		return nil, errors.New("execution failed")
	}

	logger.Info("Media task complete", "outputs", len(result.ResolvedOutputs))
	return &MediaTaskResult{
		Plan:    planned.Plan,
		RawPlan: planned.RawPlan,
		Result:  &result,
	}, nil
}
