// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Command temporal-worker serves the media task queue. It registers the
// media task workflow and its planning and execution activities, and
// exposes Prometheus metrics while running.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"media-agent/internal/config"
	"media-agent/internal/executor"
	"media-agent/internal/llm"
	"media-agent/internal/metrics"
	"media-agent/internal/planner"
	"media-agent/internal/telemetry"
	"media-agent/internal/temporal"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to media-agent.yaml")
	metricsAddr := flag.String("metrics-addr", ":9464", "listen address for /metrics")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalln("Failed to load config:", err)
		}
		cfg = loaded
	}

	if cfg.Telemetry.Enabled {
		otelCfg := telemetry.DefaultConfig()
		if cfg.Telemetry.CollectorURL != "" {
			otelCfg.CollectorURL = cfg.Telemetry.CollectorURL
		}
		if cfg.Telemetry.Environment != "" {
			otelCfg.Environment = cfg.Telemetry.Environment
		}
		tp, err := telemetry.NewTracerProvider(context.Background(), otelCfg)
		if err != nil {
			log.Fatalln("Failed to initialize tracing:", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	registry := cfg.Registry()
	p := planner.New(
		llm.NewClient(cfg.Planner.BaseURL),
		registry,
		planner.Config{Model: cfg.Planner.Model, Agent: cfg.Planner.Agent},
	)

	promReg := prometheus.NewRegistry()
	activities := temporal.NewMediaActivities(p, executor.NewCommandExecutor())
	activities.Metrics = metrics.New("media_agent", promReg)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		log.Println("Metrics listening on", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			log.Println("Metrics server stopped:", err)
		}
	}()

	w, err := temporal.NewWorker(cfg.Temporal, activities)
	if err != nil {
		log.Fatalln("Failed to create worker:", err)
	}

	log.Println("Worker listening on task queue:", cfg.Temporal.TaskQueue)
	if err := w.Run(); err != nil {
		log.Fatalln("Worker stopped:", err)
	}
}
