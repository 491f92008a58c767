// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"media-agent/internal/executor"
	"media-agent/internal/metrics"
	"media-agent/internal/phases"
	"media-agent/internal/plan"
	"media-agent/internal/telemetry"
)

// TaskResult is the successful outcome of one RunTask invocation.
type TaskResult struct {
	TaskID  string            `json:"taskId"`
	Plan    *plan.CommandPlan `json:"plan"`
	RawPlan any               `json:"rawPlan"`
	Result  *executor.Result  `json:"result"`
	Phases  []phases.Phase    `json:"phases"`
	Debug   map[string]any    `json:"debug,omitempty"`
}

// MediaAgent orchestrates planner and executor with phase tracking.
// Concurrent RunTask calls share no mutable state; each run owns its plan,
// its tracker, and its result exclusively.
type MediaAgent struct {
	planner  Planner
	executor *executor.CommandExecutor
	metrics  *metrics.Metrics
}

// NewMediaAgent wires an agent. m may be nil to disable metrics recording.
func NewMediaAgent(planner Planner, exec *executor.CommandExecutor, m *metrics.Metrics) *MediaAgent {
	return &MediaAgent{planner: planner, executor: exec, metrics: m}
}

// RunTask drives one request through plan, execute, and summarize. Expected
// failures surface as *TaskError carrying the phase history and whatever
// partial context exists; anything else is a defect in the calling code.
//
// A normally-returned executor result is not success by itself: the agent
// inspects it for timed-out or non-zero steps and classifies the task
// accordingly. There is no retry loop here; retries are a caller concern.
func (a *MediaAgent) RunTask(ctx context.Context, req TaskRequest, opts RunOptions) (*TaskResult, error) {
	taskID := uuid.NewString()
	started := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "media_agent.run_task")
	defer span.End()
	telemetry.AddAttributes(ctx, telemetry.TaskAttrs(taskID, req.OutputDir, len(req.Files))...)

	tracker := phases.NewTracker()

	// Phase: plan.
	tracker.Start("plan", map[string]any{"task_id": taskID})
	tracker.Log("plan", "requesting command plan")
	planResp, err := a.planner.Plan(ctx, req, PlanOptions{
		Debug:              opts.Debug,
		IncludeRawResponse: opts.IncludeRawResponse,
	})
	if err != nil {
		tracker.Fail("plan", err, nil)
		telemetry.RecordError(ctx, err)
		a.metrics.ObserveTask("plan_failed", time.Since(started))
		taskErr := &TaskError{
			Message: "Plan phase failed",
			Phases:  tracker.Snapshot(),
			Cause:   err,
		}
		if planResp != nil {
			taskErr.Context.RawPlan = planResp.RawPlan
			taskErr.Context.Debug = planResp.Debug
			taskErr.Context.ResponseText = planResp.ResponseText
		}
		return nil, taskErr
	}
	p := planResp.Plan
	tracker.Complete("plan", map[string]any{
		"steps":    len(p.Steps),
		"commands": stepCommands(p),
	})
	telemetry.AddAttributes(ctx, telemetry.AttrPlanSteps.Int(len(p.Steps)))

	// Phase: execute.
	tracker.Start("execute", map[string]any{"dry_run": opts.DryRun})
	result, err := a.executor.Execute(ctx, p, executor.Options{
		Cwd:        opts.Cwd,
		Timeout:    opts.Timeout,
		PublicRoot: opts.PublicRoot,
		DryRun:     opts.DryRun,
	})
	if err != nil {
		tracker.Fail("execute", err, nil)
		telemetry.RecordError(ctx, err)
		a.metrics.ObserveTask("execute_failed", time.Since(started))
		return nil, &TaskError{
			Message: "Execution phase failed",
			Phases:  tracker.Snapshot(),
			Context: planContext(planResp),
			Cause:   err,
		}
	}
	a.observeSteps(result)

	if result.Failed() {
		failErr := describeFailure(result)
		tracker.Fail("execute", failErr, map[string]any{
			"exit_code": derefInt(result.ExitCode),
			"timed_out": result.TimedOut,
		})
		telemetry.RecordError(ctx, failErr)
		a.metrics.ObserveTask("execute_failed", time.Since(started))
		taskErr := &TaskError{
			Message: "Execution phase failed",
			Phases:  tracker.Snapshot(),
			Context: planContext(planResp),
			Cause:   failErr,
		}
		taskErr.Context.Result = result
		return nil, taskErr
	}
	tracker.Complete("execute", map[string]any{
		"exit_code": derefInt(result.ExitCode),
	})

	// Phase: summarize.
	tracker.Start("summarize", nil)
	existing := 0
	for _, out := range result.ResolvedOutputs {
		if out.Exists {
			existing++
		}
	}
	tracker.Complete("summarize", map[string]any{
		"outputs":          len(result.ResolvedOutputs),
		"outputs_existing": existing,
	})

	a.metrics.ObserveTask("success", time.Since(started))
	a.observePhases(tracker)

	return &TaskResult{
		TaskID:  taskID,
		Plan:    p,
		RawPlan: planResp.RawPlan,
		Result:  result,
		Phases:  tracker.Snapshot(),
		Debug:   planResp.Debug,
	}, nil
}

// describeFailure names the first failing step so the operator does not
// have to dig through the step list.
func describeFailure(result *executor.Result) error {
	i := result.FirstFailure()
	if i < 0 {
		return fmt.Errorf("execution exited with code %d", derefInt(result.ExitCode))
	}
	step := result.Steps[i]
	if step.TimedOut {
		return fmt.Errorf("step %d (%s) timed out", i+1, step.Command)
	}
	if step.ExitCode == nil {
		return fmt.Errorf("step %d (%s) could not be started", i+1, step.Command)
	}
	return fmt.Errorf("step %d (%s) exited with code %d", i+1, step.Command, *step.ExitCode)
}

func planContext(resp *PlanResponse) TaskErrorContext {
	return TaskErrorContext{
		Plan:         resp.Plan,
		RawPlan:      resp.RawPlan,
		Debug:        resp.Debug,
		ResponseText: resp.ResponseText,
	}
}

func stepCommands(p *plan.CommandPlan) []string {
	cmds := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		cmds[i] = s.Command
	}
	return cmds
}

func (a *MediaAgent) observeSteps(result *executor.Result) {
	for _, s := range result.Steps {
		switch {
		case s.Failed():
			a.metrics.ObserveStep("failed")
		case s.Status == executor.StatusExecuted:
			a.metrics.ObserveStep("executed")
		default:
			a.metrics.ObserveStep("skipped")
		}
	}
}

func (a *MediaAgent) observePhases(tracker *phases.Tracker) {
	for _, p := range tracker.Snapshot() {
		if p.StartedAt != nil && p.FinishedAt != nil {
			a.metrics.ObservePhase(p.ID, p.FinishedAt.Sub(*p.StartedAt))
		}
	}
}

func derefInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
