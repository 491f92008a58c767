// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package plan defines the command plan model and its validator. A plan is
// untrusted planner output; nothing may touch the filesystem or spawn a
// process until Validate has produced a CommandPlan from it.
package plan

// OutputPlan declares one artifact a step intends to produce. Path is
// absolute after validation and guaranteed to live inside the request's
// output directory.
type OutputPlan struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

// StepPlan is one child-process invocation, or an explicit no-op when
// Command is "none". ID, Title, and Note are optional display hints; absent
// means empty string here after validation trimmed blanks away.
type StepPlan struct {
	Command   string       `json:"command"`
	Arguments []string     `json:"arguments"`
	Reasoning string       `json:"reasoning"`
	Outputs   []OutputPlan `json:"outputs"`
	ID        string       `json:"id,omitempty"`
	Title     string       `json:"title,omitempty"`
	Note      string       `json:"note,omitempty"`
}

// CommandPlan is the root planning artifact. Values are immutable after
// validation; the executor never mutates a plan in place.
type CommandPlan struct {
	Steps    []StepPlan `json:"steps"`
	Overview string     `json:"overview,omitempty"`
	FollowUp string     `json:"followUp,omitempty"`
}
