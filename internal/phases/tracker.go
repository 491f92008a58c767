// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package phases tracks coarse task stages (plan / execute / summarize) for
// observability and error reporting. A tracker is owned by exactly one task
// run; it is not safe for concurrent use and does not need to be.
package phases

import "time"

// Status is the lifecycle state of one phase.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// PhaseError is a serializable failure record attached to a failed phase.
type PhaseError struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Stack   string `json:"stack,omitempty"`
}

// LogLine is one timestamped message appended to a phase.
type LogLine struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// Phase records status, timing, metadata, and logs for one coarse stage.
type Phase struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Status     Status         `json:"status"`
	StartedAt  *time.Time     `json:"startedAt"`
	FinishedAt *time.Time     `json:"finishedAt"`
	Error      *PhaseError    `json:"error"`
	Meta       map[string]any `json:"meta"`
	Logs       []LogLine      `json:"logs"`
}

// DefaultPhases is the stock phase list for a task run.
var DefaultPhases = []Definition{
	{ID: "plan", Title: "Plan commands"},
	{ID: "execute", Title: "Execute commands"},
	{ID: "summarize", Title: "Summarize results"},
}

// Definition names one phase at tracker construction.
type Definition struct {
	ID    string
	Title string
}

// Tracker is a small per-run state machine over a fixed phase list.
// Complete and Fail are terminal but deliberately re-overwritable: the
// tracker is single-owner and single-threaded per run, so it does not
// enforce a single terminal transition.
type Tracker struct {
	order  []string
	phases map[string]*Phase
	now    func() time.Time
}

// NewTracker creates a tracker with the given phases, all pending. With no
// definitions it uses DefaultPhases.
func NewTracker(defs ...Definition) *Tracker {
	if len(defs) == 0 {
		defs = DefaultPhases
	}
	t := &Tracker{
		phases: make(map[string]*Phase, len(defs)),
		now:    time.Now,
	}
	for _, d := range defs {
		if _, ok := t.phases[d.ID]; ok {
			continue
		}
		t.order = append(t.order, d.ID)
		t.phases[d.ID] = &Phase{
			ID:     d.ID,
			Title:  d.Title,
			Status: StatusPending,
			Meta:   map[string]any{},
			Logs:   []LogLine{},
		}
	}
	return t
}

// Start moves a phase to in_progress. StartedAt is set on the first call
// only; meta is merged on every call.
func (t *Tracker) Start(id string, meta map[string]any) {
	p, ok := t.phases[id]
	if !ok {
		return
	}
	p.Status = StatusInProgress
	if p.StartedAt == nil {
		at := t.now()
		p.StartedAt = &at
	}
	t.mergeMeta(p, meta)
}

// Complete marks a phase successful and merges meta.
func (t *Tracker) Complete(id string, meta map[string]any) {
	p, ok := t.phases[id]
	if !ok {
		return
	}
	p.Status = StatusSuccess
	at := t.now()
	p.FinishedAt = &at
	t.mergeMeta(p, meta)
}

// Fail marks a phase failed, recording the error.
func (t *Tracker) Fail(id string, err error, meta map[string]any) {
	p, ok := t.phases[id]
	if !ok {
		return
	}
	p.Status = StatusFailed
	at := t.now()
	p.FinishedAt = &at
	if err != nil {
		p.Error = &PhaseError{Message: err.Error(), Name: "TaskPhaseError"}
	}
	t.mergeMeta(p, meta)
}

// Log appends a timestamped line to a phase regardless of its status.
func (t *Tracker) Log(id, message string) {
	p, ok := t.phases[id]
	if !ok {
		return
	}
	p.Logs = append(p.Logs, LogLine{At: t.now(), Message: message})
}

// Snapshot returns the phases in declaration order with meta and logs
// copied, so callers cannot mutate tracker state through the result.
func (t *Tracker) Snapshot() []Phase {
	out := make([]Phase, 0, len(t.order))
	for _, id := range t.order {
		p := t.phases[id]
		cp := *p
		cp.Meta = make(map[string]any, len(p.Meta))
		for k, v := range p.Meta {
			cp.Meta[k] = v
		}
		cp.Logs = append([]LogLine(nil), p.Logs...)
		if p.Error != nil {
			e := *p.Error
			cp.Error = &e
		}
		out = append(out, cp)
	}
	return out
}

func (t *Tracker) mergeMeta(p *Phase, meta map[string]any) {
	for k, v := range meta {
		p.Meta[k] = v
	}
}
