// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package plan

import (
	"path/filepath"
	"strings"

	"media-agent/internal/tools"
)

// Validator is the sole gate between raw planner output and anything that
// spawns a process or touches the filesystem. It normalizes minor shape
// variance (missing optional fields become empty) and rejects structurally
// invalid or unsafe input with a ValidationError naming the offending index.
type Validator struct {
	registry *tools.Registry
}

// NewValidator creates a validator bound to the given tool registry.
func NewValidator(registry *tools.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate checks raw against the registry and the output-directory
// containment rule and returns a fresh CommandPlan. raw is typically the
// result of unmarshalling LLM JSON into any. The input is never mutated.
func (v *Validator) Validate(raw any, outputDir string) (*CommandPlan, error) {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidPlan("plan must be an object")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, invalidPlan("output directory is required")
	}
	outputDirAbs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, invalidPlan("output directory could not be resolved: " + err.Error())
	}

	rawSteps, ok := root["steps"].([]any)
	if !ok || len(rawSteps) == 0 {
		return nil, invalidPlan("Command steps are missing")
	}

	p := &CommandPlan{
		Steps:    make([]StepPlan, 0, len(rawSteps)),
		Overview: stringOr(root["overview"], ""),
		FollowUp: stringOr(root["followUp"], ""),
	}

	for i, rawStep := range rawSteps {
		step, err := v.validateStep(i, rawStep, outputDirAbs)
		if err != nil {
			return nil, err
		}
		p.Steps = append(p.Steps, step)
	}
	return p, nil
}

func (v *Validator) validateStep(index int, raw any, outputDirAbs string) (StepPlan, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return StepPlan{}, invalidStep(index)
	}

	command, ok := obj["command"].(string)
	if !ok || !v.registry.HasCommand(command) {
		name, _ := obj["command"].(string)
		return StepPlan{}, unknownCommand(index, name)
	}

	// Non-string argument elements are rejected, not coerced: silently
	// stringifying a number would change execution semantics invisibly.
	args, err := stringSlice(obj["arguments"])
	if err != nil {
		return StepPlan{}, invalidArguments(index)
	}

	step := StepPlan{
		Command:   command,
		Arguments: args,
		Reasoning: stringOr(obj["reasoning"], ""),
		ID:        trimmedOptional(obj["id"]),
		Title:     trimmedOptional(obj["title"]),
		Note:      trimmedOptional(obj["note"]),
		Outputs:   []OutputPlan{},
	}

	rawOutputs, ok := obj["outputs"].([]any)
	if !ok {
		return step, nil
	}
	for j, rawOut := range rawOutputs {
		out, err := validateOutput(index, j, rawOut, outputDirAbs)
		if err != nil {
			return StepPlan{}, err
		}
		step.Outputs = append(step.Outputs, out)
	}
	return step, nil
}

func validateOutput(stepIndex, outputIndex int, raw any, outputDirAbs string) (OutputPlan, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return OutputPlan{}, invalidOutput(stepIndex, outputIndex)
	}
	path, ok := obj["path"].(string)
	if !ok || strings.TrimSpace(path) == "" {
		return OutputPlan{}, invalidOutput(stepIndex, outputIndex)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return OutputPlan{}, pathEscapesOutputDir(stepIndex, outputIndex, path)
	}
	if !containedIn(outputDirAbs, abs) {
		return OutputPlan{}, pathEscapesOutputDir(stepIndex, outputIndex, path)
	}

	return OutputPlan{
		Path:        abs,
		Description: stringOr(obj["description"], ""),
	}, nil
}

// containedIn reports whether abs lives under dir. The relative path must
// not climb out via ".." and must not itself be absolute, which covers the
// drive-root override on some platforms.
func containedIn(dir, abs string) bool {
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return false
	}
	if filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// trimmedOptional returns the trimmed string if v is a non-blank string,
// otherwise "". Blank-after-trim values are treated as absent so display
// code downstream never sees whitespace-only labels.
func trimmedOptional(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func stringSlice(v any) ([]string, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, errNotStrings
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, errNotStrings
		}
		out = append(out, s)
	}
	return out, nil
}

var errNotStrings = invalidArguments(-1)
