package cli

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for CLI commands.
var (
	tracer = otel.Tracer("dichuniv.cli")
	meter  = otel.Meter("dichuniv.cli")
)

var (
	commandTotal   metric.Int64Counter
	evalLatency    metric.Float64Histogram
	evalBatchTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		commandTotal, err = meter.Int64Counter(
			"cli_command_total",
			metric.WithDescription("Total number of CLI command executions"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		evalLatency, err = meter.Float64Histogram(
			"cli_eval_duration_seconds",
			metric.WithDescription("Duration of log density batch evaluations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		evalBatchTotal, err = meter.Int64Counter(
			"cli_eval_points_total",
			metric.WithDescription("Total number of parameter vectors evaluated"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordCommand records one command execution.
func recordCommand(ctx context.Context, name string, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	commandTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", name),
		attribute.Bool("success", success),
	))
}

// recordEvalMetrics records metrics for a batch evaluation.
func recordEvalMetrics(ctx context.Context, duration time.Duration, points int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	evalLatency.Record(ctx, duration.Seconds(), attrs)
	evalBatchTotal.Add(ctx, int64(points), attrs)
}

// startCommandSpan creates a span for a command.
func startCommandSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "cli."+name,
		trace.WithAttributes(attribute.String("cli.command", name)),
	)
}
