// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package executor

// StepStatus is the terminal disposition of one plan step.
type StepStatus string

const (
	StatusExecuted StepStatus = "executed"
	StatusSkipped  StepStatus = "skipped"
)

// SkipReason explains why a step was not spawned.
type SkipReason string

const (
	SkipNoOpCommand        SkipReason = "no_op_command"
	SkipDryRun             SkipReason = "dry_run"
	SkipPreviousStepFailed SkipReason = "previous_step_failed"
)

// StepResult records one step's outcome. ExitCode is nil when the step was
// skipped, timed out, or failed to spawn.
type StepResult struct {
	Status     StepStatus `json:"status"`
	Command    string     `json:"command"`
	Arguments  []string   `json:"arguments"`
	Reasoning  string     `json:"reasoning"`
	ExitCode   *int       `json:"exitCode"`
	TimedOut   bool       `json:"timedOut"`
	Stdout     string     `json:"stdout"`
	Stderr     string     `json:"stderr"`
	SkipReason SkipReason `json:"skipReason,omitempty"`
}

// Failed reports whether an executed step counts as a failure for fail-fast
// purposes: timeout, spawn error (nil exit code), or non-zero exit.
func (r StepResult) Failed() bool {
	if r.Status != StatusExecuted {
		return false
	}
	return r.TimedOut || r.ExitCode == nil || *r.ExitCode != 0
}

// DescribedOutput is a declared artifact resolved against the filesystem
// after the whole plan reached a terminal disposition.
type DescribedOutput struct {
	Path         string  `json:"path"`
	Description  string  `json:"description"`
	AbsolutePath string  `json:"absolutePath"`
	Exists       bool    `json:"exists"`
	Size         *int64  `json:"size"`
	PublicPath   *string `json:"publicPath"`
}

// Result is the full outcome of executing one validated plan. ExitCode is
// the first failing executed step's code (nil for timeout/spawn failure),
// 0 when every executed step succeeded, and nil when nothing executed at
// all (pure dry run / all no-op). Stdout and Stderr are the per-step
// streams concatenated with "[step N]" labels for operator review; machine
// consumers read Steps instead.
type Result struct {
	ExitCode        *int              `json:"exitCode"`
	TimedOut        bool              `json:"timedOut"`
	Stdout          string            `json:"stdout"`
	Stderr          string            `json:"stderr"`
	ResolvedOutputs []DescribedOutput `json:"resolvedOutputs"`
	DryRun          bool              `json:"dryRun"`
	Steps           []StepResult      `json:"steps"`
}

// Failed reports whether any executed step failed. A normally-returned
// Result is not itself task success; the agent owns that judgment, this is
// the mechanical check it builds on.
func (r *Result) Failed() bool {
	if r.TimedOut {
		return true
	}
	for _, s := range r.Steps {
		if s.Failed() {
			return true
		}
	}
	return r.ExitCode != nil && *r.ExitCode != 0
}

// FirstFailure returns the index of the first failed executed step, or -1.
func (r *Result) FirstFailure() int {
	for i, s := range r.Steps {
		if s.Failed() {
			return i
		}
	}
	return -1
}
