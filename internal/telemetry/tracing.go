// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package telemetry wires OpenTelemetry tracing for task runs. The library
// core only attaches spans through the helpers here; exporting is the
// embedding process's decision.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerProvider manages the OpenTelemetry tracer provider lifecycle.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
}

// Config holds OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	CollectorURL   string
	Environment    string
	SamplingRate   float64
}

// DefaultConfig returns a default configuration pointing at a local OTLP
// HTTP collector.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "media-agent",
		ServiceVersion: "1.0.0",
		CollectorURL:   "localhost:4318",
		Environment:    "development",
		SamplingRate:   1.0,
	}
}

// NewTracerProvider creates and installs a tracer provider exporting over
// OTLP HTTP.
func NewTracerProvider(ctx context.Context, config *Config) (*TracerProvider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(config.CollectorURL),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SamplingRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{provider: tp}, nil
}

// Shutdown flushes and stops the tracer provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return tp.provider.Shutdown(shutdownCtx)
}

// StartSpan starts a new span on the media-agent tracer.
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer("media-agent").Start(ctx, spanName, opts...)
}

// RecordError records an error on the current span and marks it failed.
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// AddAttributes adds attributes to the current span.
func AddAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// Attribute keys used across task spans.
const (
	AttrTaskID    = attribute.Key("task.id")
	AttrPhase     = attribute.Key("task.phase")
	AttrPlanSteps = attribute.Key("plan.steps")
	AttrStepIndex = attribute.Key("step.index")
	AttrCommand   = attribute.Key("step.command")
	AttrDryRun    = attribute.Key("execution.dry_run")
	AttrExitCode  = attribute.Key("execution.exit_code")
	AttrModel     = attribute.Key("planner.model")
	AttrSessionID = attribute.Key("planner.session_id")
	AttrOutputDir = attribute.Key("task.output_dir")
	AttrFileCount = attribute.Key("task.file_count")
)

// TaskAttrs builds the common span attributes for one task run.
func TaskAttrs(taskID, outputDir string, files int) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrTaskID.String(taskID),
		AttrOutputDir.String(outputDir),
		AttrFileCount.Int(files),
	}
}
