// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package plan

import "fmt"

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	// ErrInvalidPlan means the plan root was not an object or had no steps.
	ErrInvalidPlan ErrorKind = "invalid_plan"
	// ErrInvalidStep means a step entry was not an object.
	ErrInvalidStep ErrorKind = "invalid_step"
	// ErrUnknownCommand means a step named a command outside the registry.
	ErrUnknownCommand ErrorKind = "unknown_command"
	// ErrInvalidArguments means a step's arguments were not all strings.
	ErrInvalidArguments ErrorKind = "invalid_arguments"
	// ErrInvalidOutput means an output entry was malformed.
	ErrInvalidOutput ErrorKind = "invalid_output"
	// ErrPathEscapesOutputDir means an output path resolved outside the
	// designated output directory.
	ErrPathEscapesOutputDir ErrorKind = "path_escapes_output_dir"
)

// ValidationError is the only error type Validate returns. It always names
// the offending step/output index where one exists, because the upstream LLM
// call is expensive to retry blindly.
type ValidationError struct {
	Kind        ErrorKind
	Message     string
	StepIndex   int // -1 when not step-scoped
	OutputIndex int // -1 when not output-scoped
	Command     string
	Path        string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidPlan(msg string) *ValidationError {
	return &ValidationError{Kind: ErrInvalidPlan, Message: msg, StepIndex: -1, OutputIndex: -1}
}

func invalidStep(index int) *ValidationError {
	return &ValidationError{
		Kind:        ErrInvalidStep,
		Message:     fmt.Sprintf("step %d is not an object", index),
		StepIndex:   index,
		OutputIndex: -1,
	}
}

func unknownCommand(index int, command string) *ValidationError {
	return &ValidationError{
		Kind:        ErrUnknownCommand,
		Message:     fmt.Sprintf("step %d names unknown command %q", index, command),
		StepIndex:   index,
		OutputIndex: -1,
		Command:     command,
	}
}

func invalidArguments(index int) *ValidationError {
	return &ValidationError{
		Kind:        ErrInvalidArguments,
		Message:     fmt.Sprintf("step %d arguments must be an array of strings", index),
		StepIndex:   index,
		OutputIndex: -1,
	}
}

func invalidOutput(stepIndex, outputIndex int) *ValidationError {
	return &ValidationError{
		Kind:        ErrInvalidOutput,
		Message:     fmt.Sprintf("step %d output %d must be an object with a non-empty path", stepIndex, outputIndex),
		StepIndex:   stepIndex,
		OutputIndex: outputIndex,
	}
}

func pathEscapesOutputDir(stepIndex, outputIndex int, path string) *ValidationError {
	return &ValidationError{
		Kind:        ErrPathEscapesOutputDir,
		Message:     fmt.Sprintf("step %d output %d path %q escapes the output directory", stepIndex, outputIndex, path),
		StepIndex:   stepIndex,
		OutputIndex: outputIndex,
		Path:        path,
	}
}
