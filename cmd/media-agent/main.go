// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Command media-agent runs natural-language media tasks from the command
// line: it plans with the configured model backend, validates, executes,
// and prints the structured result.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"media-agent/internal/agent"
	"media-agent/internal/config"
	"media-agent/internal/executor"
	"media-agent/internal/llm"
	"media-agent/internal/planner"
	"media-agent/internal/telemetry"
	"media-agent/internal/tools"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		log.Fatalln("Error:", err)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "media-agent",
		Short:         "Plan and execute media-processing tasks with CLI tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to media-agent.yaml")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newToolsCmd(&configPath))
	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newRunCmd(configPath *string) *cobra.Command {
	var (
		task       string
		files      []string
		outputDir  string
		cwd        string
		publicRoot string
		timeout    time.Duration
		dryRun     bool
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one media task end to end",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if task == "" {
				return errors.New("--task is required")
			}
			if outputDir == "" {
				return errors.New("--output-dir is required")
			}

			if cfg.Telemetry.Enabled {
				otelCfg := telemetry.DefaultConfig()
				if cfg.Telemetry.CollectorURL != "" {
					otelCfg.CollectorURL = cfg.Telemetry.CollectorURL
				}
				if cfg.Telemetry.Environment != "" {
					otelCfg.Environment = cfg.Telemetry.Environment
				}
				tp, err := telemetry.NewTracerProvider(cmd.Context(), otelCfg)
				if err != nil {
					return fmt.Errorf("initialize tracing: %w", err)
				}
				defer func() {
					_ = tp.Shutdown(cmd.Context())
				}()
			}

			req := agent.TaskRequest{Task: task, OutputDir: outputDir}
			for i, f := range files {
				abs, err := filepath.Abs(f)
				if err != nil {
					return fmt.Errorf("resolve input file %s: %w", f, err)
				}
				info, err := os.Stat(abs)
				if err != nil {
					return fmt.Errorf("input file %s: %w", f, err)
				}
				req.Files = append(req.Files, agent.TaskFile{
					ID:           fmt.Sprintf("file-%d", i+1),
					OriginalName: filepath.Base(abs),
					AbsolutePath: abs,
					Size:         info.Size(),
				})
			}

			registry := cfg.Registry()
			p := planner.New(
				llm.NewClient(cfg.Planner.BaseURL),
				registry,
				planner.Config{Model: cfg.Planner.Model, Agent: cfg.Planner.Agent},
			)
			a := agent.NewMediaAgent(p, executor.NewCommandExecutor(), nil)

			if timeout <= 0 {
				timeout = cfg.Execution.StepTimeout()
			}
			if publicRoot == "" {
				publicRoot = cfg.Execution.PublicRoot
			}
			if cwd == "" {
				cwd = cfg.Execution.WorkingDirectory
			}

			result, err := a.RunTask(cmd.Context(), req, agent.RunOptions{
				Cwd:                cwd,
				Timeout:            timeout,
				PublicRoot:         publicRoot,
				DryRun:             dryRun,
				Debug:              debug,
				IncludeRawResponse: debug,
			})
			if err != nil {
				var taskErr *agent.TaskError
				if errors.As(err, &taskErr) {
					printJSON(cmd.ErrOrStderr(), map[string]any{
						"status": "failed",
						"error":  taskErr.Message,
						"detail": fmt.Sprint(taskErr.Cause),
						"phases": taskErr.Phases,
					})
				}
				return err
			}

			printJSON(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "natural-language task description")
	cmd.Flags().StringSliceVar(&files, "file", nil, "input file (repeatable)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory output files must live in")
	cmd.Flags().StringVar(&cwd, "cwd", "", "working directory for spawned commands")
	cmd.Flags().StringVar(&publicRoot, "public-root", "", "public serving root for output links")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-step timeout (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and report without spawning commands")
	cmd.Flags().BoolVar(&debug, "debug", false, "include planner debug payload in the output")
	return cmd
}

func newToolsCmd(configPath *string) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tool catalog, optionally probing availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			registry := cfg.Registry()

			if !probe {
				printJSON(cmd.OutOrStdout(), registry.DescribeExecutableCommands())
				return nil
			}

			results := tools.Probe(registry)
			for _, r := range results {
				status := "missing"
				if r.Available {
					status = r.Version
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", r.ID, status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "check which tools are installed")
	return cmd
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
