// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package config loads media-agent configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"media-agent/internal/tools"
)

// Config is the complete media-agent configuration.
type Config struct {
	Planner   PlannerConfig   `yaml:"planner"`
	Execution ExecutionConfig `yaml:"execution"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Temporal  TemporalConfig  `yaml:"temporal"`
	// ExtraTools extends the stock tool catalog; extending the catalog is a
	// configuration change, never a code change.
	ExtraTools []tools.Definition `yaml:"extra_tools"`
}

// PlannerConfig selects the model backend.
type PlannerConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Agent   string `yaml:"agent"`
}

// ExecutionConfig tunes command execution.
type ExecutionConfig struct {
	StepTimeoutSeconds int    `yaml:"step_timeout_seconds"`
	PublicRoot         string `yaml:"public_root"`
	WorkingDirectory   string `yaml:"working_directory"`
}

// StepTimeout returns the configured per-step timeout.
func (e ExecutionConfig) StepTimeout() time.Duration {
	return time.Duration(e.StepTimeoutSeconds) * time.Second
}

// TelemetryConfig controls tracing export.
type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	CollectorURL string `yaml:"collector_url"`
	Environment  string `yaml:"environment"`
}

// TemporalConfig controls the durable-execution worker.
type TemporalConfig struct {
	HostPort  string `yaml:"host_port"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			BaseURL: "http://localhost:4096",
		},
		Execution: ExecutionConfig{
			StepTimeoutSeconds: 300,
		},
		Telemetry: TelemetryConfig{
			CollectorURL: "localhost:4318",
			Environment:  "development",
		},
		Temporal: TemporalConfig{
			Namespace: "default",
			TaskQueue: "media-task-queue",
		},
	}
}

// Load reads the config file at path, applying defaults for anything the
// file leaves unset. A missing file is an error; use Default directly when
// running without one.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants the rest of the system assumes.
func (c *Config) Validate() error {
	if c.Planner.BaseURL == "" {
		return fmt.Errorf("planner base_url is required")
	}
	if c.Execution.StepTimeoutSeconds <= 0 {
		return fmt.Errorf("execution step_timeout_seconds must be positive")
	}
	for i, d := range c.ExtraTools {
		if d.ID == "" {
			return fmt.Errorf("extra_tools[%d] is missing an id", i)
		}
		if d.ID == tools.CommandNone {
			return fmt.Errorf("extra_tools[%d] may not redefine %q", i, tools.CommandNone)
		}
	}
	return nil
}

// Registry builds the tool registry from the stock catalog plus ExtraTools.
func (c *Config) Registry() *tools.Registry {
	defs := tools.DefaultRegistry().DescribeExecutableCommands()
	defs = append(defs, c.ExtraTools...)
	return tools.NewRegistry(defs...)
}
