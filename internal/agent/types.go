// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package agent orchestrates one media task end to end: plan, execute,
// summarize. It owns the definition of task success; the executor only
// reports what happened mechanically.
package agent

import (
	"context"
	"time"

	"media-agent/internal/plan"
)

// TaskFile is one uploaded input file, already resolved to an absolute path
// by the caller's session layer.
type TaskFile struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	AbsolutePath string `json:"absolutePath"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType,omitempty"`
}

// TaskRequest is one natural-language media-processing request. OutputDir
// is an absolute, caller-provisioned directory; distinct requests are
// expected to receive distinct directories, but enforcing that is the
// caller's session isolation concern.
type TaskRequest struct {
	Task      string     `json:"task"`
	Files     []TaskFile `json:"files"`
	OutputDir string     `json:"outputDir"`
}

// RunOptions tunes one RunTask invocation.
type RunOptions struct {
	Cwd                string
	Timeout            time.Duration
	PublicRoot         string
	DryRun             bool
	Debug              bool
	IncludeRawResponse bool
}

// PlanOptions is passed through to the planner.
type PlanOptions struct {
	Debug              bool
	IncludeRawResponse bool
}

// PlanResponse is what a Planner returns. Plan has already been through the
// validator; the agent trusts that. On a planning error the Planner should
// still return a partially filled response (raw plan, response text, debug)
// alongside the error, since the raw material is what an operator needs to
// diagnose an invalid plan.
type PlanResponse struct {
	Plan         *plan.CommandPlan
	RawPlan      any
	ResponseText string
	Debug        map[string]any
}

// Planner produces a validated command plan for a request. Implementations
// wrap the language-model call and must run the plan validator before
// returning.
type Planner interface {
	Plan(ctx context.Context, req TaskRequest, opts PlanOptions) (*PlanResponse, error)
}
