package model

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for model construction.
var (
	tracer = otel.Tracer("dichuniv.model")
	meter  = otel.Meter("dichuniv.model")
)

var (
	buildLatency metric.Float64Histogram
	buildTotal   metric.Int64Counter
	groupsLoaded metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"model_build_duration_seconds",
			metric.WithDescription("Duration of model construction"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"model_build_total",
			metric.WithDescription("Total number of model constructions"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		groupsLoaded, err = meter.Int64Histogram(
			"model_groups_loaded",
			metric.WithDescription("Number of observation groups per model"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordBuildMetrics records metrics for one New call.
func recordBuildMetrics(ctx context.Context, duration time.Duration, groups int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))

	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)

	if success {
		groupsLoaded.Record(ctx, int64(groups))
	}
}

// startBuildSpan creates a span for model construction.
func startBuildSpan(ctx context.Context) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Model.New")
}

// setBuildSpanResult sets the result attributes on a build span.
func setBuildSpanResult(span trace.Span, groups, params int) {
	span.SetAttributes(
		attribute.Int("model.groups", groups),
		attribute.Int("model.params", params),
	)
}
