// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package temporal exposes media task planning and execution as Temporal
// activities, for deployments that want durable, queued task runs instead
// of in-process calls. The activities delegate to the same planner and
// executor the library path uses.
package temporal

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/activity"

	"media-agent/internal/agent"
	"media-agent/internal/executor"
	"media-agent/internal/metrics"
	"media-agent/internal/plan"
)

// MediaActivities bundles the dependencies the activities need.
type MediaActivities struct {
	Planner  agent.Planner
	Executor *executor.CommandExecutor
	Metrics  *metrics.Metrics
}

// NewMediaActivities creates the activity bundle. Metrics may be nil.
func NewMediaActivities(planner agent.Planner, exec *executor.CommandExecutor) *MediaActivities {
	return &MediaActivities{Planner: planner, Executor: exec}
}

// PlanTaskInput is the planning activity input.
type PlanTaskInput struct {
	Request            agent.TaskRequest
	Debug              bool
	IncludeRawResponse bool
}

// PlanTaskResult carries the validated plan plus diagnostic material.
type PlanTaskResult struct {
	Plan         *plan.CommandPlan
	RawPlan      any
	ResponseText string
	Debug        map[string]any
}

// PlanTask asks the planner for a validated command plan.
func (a *MediaActivities) PlanTask(ctx context.Context, input PlanTaskInput) (*PlanTaskResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Planning media task", "task", input.Request.Task, "files", len(input.Request.Files))

	resp, err := a.Planner.Plan(ctx, input.Request, agent.PlanOptions{
		Debug:              input.Debug,
		IncludeRawResponse: input.IncludeRawResponse,
	})
	if err != nil {
		logger.Error("Planning failed", "error", err)
		return nil, err
	}

	logger.Info("Plan ready", "steps", len(resp.Plan.Steps))
	return &PlanTaskResult{
		Plan:         resp.Plan,
		RawPlan:      resp.RawPlan,
		ResponseText: resp.ResponseText,
		Debug:        resp.Debug,
	}, nil
}

// ExecutePlanInput is the execution activity input.
type ExecutePlanInput struct {
	Plan           *plan.CommandPlan
	Cwd            string
	TimeoutSeconds int
	PublicRoot     string
	DryRun         bool
}

// ExecutePlan runs a validated plan and returns the mechanical result. The
// workflow, not this activity, decides whether the result counts as task
// success.
func (a *MediaActivities) ExecutePlan(ctx context.Context, input ExecutePlanInput) (*executor.Result, error) {
	logger := activity.GetLogger(ctx)
	if input.Plan == nil || len(input.Plan.Steps) == 0 {
		return nil, errors.New("validated plan is required")
	}
	logger.Info("Executing plan", "steps", len(input.Plan.Steps), "dry_run", input.DryRun)

	// Heartbeat so long-running media commands stay cancellable.
	activity.RecordHeartbeat(ctx, "executing")

	result, err := a.Executor.Execute(ctx, input.Plan, executor.Options{
		Cwd:        input.Cwd,
		Timeout:    time.Duration(input.TimeoutSeconds) * time.Second,
		PublicRoot: input.PublicRoot,
		DryRun:     input.DryRun,
	})
	if err != nil {
		logger.Error("Execution failed to start", "error", err)
		return nil, err
	}

	for _, step := range result.Steps {
		switch {
		case step.Failed():
			a.Metrics.ObserveStep("failed")
		case step.Status == executor.StatusSkipped:
			a.Metrics.ObserveStep("skipped")
		default:
			a.Metrics.ObserveStep("executed")
		}
	}
	return result, nil
}
