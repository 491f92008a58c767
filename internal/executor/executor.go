// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package executor runs a validated command plan as an ordered pipeline of
// child processes with fail-fast propagation and filesystem output
// resolution. Expected failures (missing tool, non-zero exit, timeout) are
// captured in the result, never returned as errors.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"media-agent/internal/plan"
	"media-agent/internal/tools"
)

// DefaultStepTimeout bounds a single spawned process. There is no
// plan-level timeout: a plan's total duration is the sum of its steps up to
// the first failure.
const DefaultStepTimeout = 5 * time.Minute

// Options configures one Execute call.
type Options struct {
	// Cwd is the working directory for spawned processes. Defaults to the
	// current process working directory.
	Cwd string
	// Timeout bounds each step individually. Defaults to DefaultStepTimeout.
	Timeout time.Duration
	// PublicRoot, when set, is the serving root used to derive relative
	// public paths for resolved outputs.
	PublicRoot string
	// DryRun skips every step without spawning anything.
	DryRun bool
}

// CommandExecutor executes validated plans. It is stateless and safe for
// concurrent use; each Execute call owns its plan and result exclusively.
type CommandExecutor struct{}

// NewCommandExecutor creates an executor.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

// Execute runs the plan's steps strictly in order. Once a step fails or
// times out, every later step is recorded as skipped with
// previous_step_failed and nothing further is spawned. Declared outputs are
// resolved against the filesystem only after all steps reached a terminal
// disposition, including failed ones, since a partially completed step may
// still have written a file worth reporting.
func (e *CommandExecutor) Execute(ctx context.Context, p *plan.CommandPlan, opts Options) (*Result, error) {
	if p == nil || len(p.Steps) == 0 {
		return nil, errors.New("executor: plan must be validated and non-empty")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultStepTimeout
	}

	// A command that writes into a nested directory should not fail purely
	// because the directory does not exist yet.
	if err := createOutputDirs(p); err != nil {
		return nil, err
	}

	result := &Result{
		DryRun: opts.DryRun,
		Steps:  make([]StepResult, 0, len(p.Steps)),
	}

	var stdoutAll, stderrAll strings.Builder
	failed := false

	for i, step := range p.Steps {
		sr := StepResult{
			Command:   step.Command,
			Arguments: append([]string(nil), step.Arguments...),
			Reasoning: step.Reasoning,
		}

		switch {
		case failed:
			sr.Status = StatusSkipped
			sr.SkipReason = SkipPreviousStepFailed
		case opts.DryRun:
			sr.Status = StatusSkipped
			sr.SkipReason = SkipDryRun
		case step.Command == tools.CommandNone:
			sr.Status = StatusSkipped
			sr.SkipReason = SkipNoOpCommand
		default:
			sr = e.runStep(ctx, step, opts.Cwd, timeout, sr)
			if sr.Failed() {
				failed = true
			}
		}

		appendLabelled(&stdoutAll, i, sr.Stdout)
		appendLabelled(&stderrAll, i, sr.Stderr)
		if sr.TimedOut {
			result.TimedOut = true
		}
		result.Steps = append(result.Steps, sr)
	}

	result.Stdout = stdoutAll.String()
	result.Stderr = stderrAll.String()
	result.ExitCode = aggregateExitCode(result.Steps)
	result.ResolvedOutputs = resolveOutputs(p, opts.PublicRoot)
	return result, nil
}

// runStep spawns one child process. The argument vector is passed as-is:
// plan arguments are untrusted strings and must never be shell-interpolated.
func (e *CommandExecutor) runStep(ctx context.Context, step plan.StepPlan, cwd string, timeout time.Duration, sr StepResult) StepResult {
	sr.Status = StatusExecuted

	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(stepCtx, step.Command, step.Arguments...)
	cmd.Dir = cwd
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	sr.Stdout = stdout.String()
	sr.Stderr = stderr.String()

	if stepCtx.Err() == context.DeadlineExceeded {
		sr.TimedOut = true
		return sr
	}

	switch {
	case err == nil:
		code := 0
		sr.ExitCode = &code
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			sr.ExitCode = &code
		} else {
			// Spawn-level OS error (executable not found, permission
			// denied): captured as a failing step, never thrown.
			if sr.Stderr != "" {
				sr.Stderr += "\n"
			}
			sr.Stderr += err.Error()
		}
	}
	return sr
}

func createOutputDirs(p *plan.CommandPlan) error {
	seen := make(map[string]bool)
	for _, step := range p.Steps {
		for _, out := range step.Outputs {
			dir := filepath.Dir(out.Path)
			if seen[dir] {
				continue
			}
			seen[dir] = true
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("executor: create output directory %s: %w", dir, err)
			}
		}
	}
	return nil
}

func appendLabelled(b *strings.Builder, stepIndex int, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, "[step %d] %s", stepIndex+1, text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
}

// aggregateExitCode is the first failing executed step's exit code, 0 when
// executed steps all succeeded, and nil when no step executed at all.
func aggregateExitCode(steps []StepResult) *int {
	executed := false
	for _, s := range steps {
		if s.Status != StatusExecuted {
			continue
		}
		executed = true
		if s.Failed() {
			if s.ExitCode != nil {
				code := *s.ExitCode
				return &code
			}
			return nil
		}
	}
	if !executed {
		return nil
	}
	zero := 0
	return &zero
}

func resolveOutputs(p *plan.CommandPlan, publicRoot string) []DescribedOutput {
	resolved := []DescribedOutput{}
	for _, step := range p.Steps {
		for _, out := range step.Outputs {
			d := DescribedOutput{
				Path:         out.Path,
				Description:  out.Description,
				AbsolutePath: out.Path,
			}
			if info, err := os.Stat(out.Path); err == nil {
				d.Exists = true
				if !info.IsDir() {
					size := info.Size()
					d.Size = &size
				}
			}
			if publicRoot != "" {
				if rel, err := filepath.Rel(publicRoot, out.Path); err == nil &&
					!filepath.IsAbs(rel) && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
					d.PublicPath = &rel
				}
			}
			resolved = append(resolved, d)
		}
	}
	return resolved
}
