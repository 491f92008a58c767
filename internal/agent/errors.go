// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package agent

import (
	"fmt"

	"media-agent/internal/executor"
	"media-agent/internal/phases"
	"media-agent/internal/plan"
)

// TaskErrorContext carries whatever partial state a failed run produced, so
// the caller can render a diagnostic without re-deriving anything.
type TaskErrorContext struct {
	Plan         *plan.CommandPlan `json:"plan,omitempty"`
	RawPlan      any               `json:"rawPlan,omitempty"`
	Result       *executor.Result  `json:"result,omitempty"`
	Debug        map[string]any    `json:"debug,omitempty"`
	ResponseText string            `json:"responseText,omitempty"`
}

// TaskError is the only error type RunTask returns for expected failure
// modes. It always carries the full phase history.
type TaskError struct {
	Message string
	Phases  []phases.Phase
	Context TaskErrorContext
	Cause   error
}

func (e *TaskError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TaskError) Unwrap() error {
	return e.Cause
}
