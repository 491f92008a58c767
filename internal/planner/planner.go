// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package planner turns a task request into a validated command plan by
// prompting a model and gating its output through the plan validator. A
// planning failure still returns whatever raw/debug material was captured,
// because fixing the prompt is the usual remediation.
package planner

import (
	"context"
	"fmt"

	"media-agent/internal/agent"
	"media-agent/internal/llm"
	"media-agent/internal/plan"
	"media-agent/internal/prompts"
	"media-agent/internal/tools"
)

// Config tunes the OpenCode-backed planner.
type Config struct {
	Model string // model id passed to the server; empty uses its default
	Agent string // opencode agent name; empty uses the default agent
}

// OpenCodePlanner implements agent.Planner on top of an OpenCode server.
type OpenCodePlanner struct {
	client    llm.PromptClient
	registry  *tools.Registry
	validator *plan.Validator
	config    Config
}

// New creates a planner. The validator is constructed over the same
// registry the prompt advertises, so the model can only be offered commands
// the validator will accept.
func New(client llm.PromptClient, registry *tools.Registry, config Config) *OpenCodePlanner {
	return &OpenCodePlanner{
		client:    client,
		registry:  registry,
		validator: plan.NewValidator(registry),
		config:    config,
	}
}

// Plan prompts the model, extracts the JSON plan, normalizes the legacy
// single-command shape, and validates. The returned response carries raw
// material even on failure.
func (p *OpenCodePlanner) Plan(ctx context.Context, req agent.TaskRequest, opts agent.PlanOptions) (*agent.PlanResponse, error) {
	prompt := prompts.BuildPlanPrompt(prompts.PlanRequest{
		Task:      req.Task,
		Files:     req.Files,
		OutputDir: req.OutputDir,
		Tools:     p.registry.DescribeExecutableCommands(),
	})

	resp := &agent.PlanResponse{}
	if opts.Debug {
		resp.Debug = map[string]any{
			"model":         p.config.Model,
			"prompt_length": len(prompt),
		}
	}

	result, err := p.client.ExecutePrompt(ctx, prompt, &llm.PromptOptions{
		Title: "Plan: " + truncate(req.Task, 80),
		Model: p.config.Model,
		Agent: p.config.Agent,
	})
	if err != nil {
		return resp, fmt.Errorf("planner: prompt failed: %w", err)
	}

	text := result.Text()
	if opts.IncludeRawResponse {
		resp.ResponseText = text
	}
	if opts.Debug {
		resp.Debug["session_id"] = result.SessionID
		resp.Debug["response_length"] = len(text)
	}

	raw, err := ExtractPlanJSON(text)
	if err != nil {
		resp.ResponseText = text
		return resp, err
	}
	raw = plan.NormalizeRaw(raw)
	resp.RawPlan = raw

	validated, err := p.validator.Validate(raw, req.OutputDir)
	if err != nil {
		resp.ResponseText = text
		return resp, fmt.Errorf("planner: invalid plan: %w", err)
	}
	resp.Plan = validated
	return resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
