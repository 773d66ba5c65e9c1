package sync

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const (
	otelScope = "possync/sync"

	spanPull = "sync.pull"
	spanPush = "sync.push"

	metricPulled    = "possync.pull.records"
	metricPruned    = "possync.pull.pruned"
	metricPushed    = "possync.push.processed"
	metricFailed    = "possync.push.failed"
	metricConflicts = "possync.push.conflicts"
	metricEvents    = "possync.realtime.events"
)

// instruments are always non-nil, no-op when telemetry is disabled.
type instruments struct {
	tracer       trace.Tracer
	cntPulled    metric.Int64Counter
	cntPruned    metric.Int64Counter
	cntPushed    metric.Int64Counter
	cntFailed    metric.Int64Counter
	cntConflicts metric.Int64Counter
	cntEvents    metric.Int64Counter
}

func newInstruments(logger *slog.Logger) *instruments {
	meter := otel.Meter(otelScope)

	mustCounter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			logger.Error("creating OTel counter", "name", name, "error", err)
			return noop.Int64Counter{}
		}
		return c
	}

	return &instruments{
		tracer:       otel.Tracer(otelScope),
		cntPulled:    mustCounter(metricPulled, "Number of remote records written to the local store"),
		cntPruned:    mustCounter(metricPruned, "Number of local records removed because they vanished remotely"),
		cntPushed:    mustCounter(metricPushed, "Number of queue entries confirmed by the backend"),
		cntFailed:    mustCounter(metricFailed, "Number of queue entries that failed to push"),
		cntConflicts: mustCounter(metricConflicts, "Number of pushes rejected for a stale version"),
		cntEvents:    mustCounter(metricEvents, "Number of realtime change events applied"),
	}
}

func (in *instruments) add(ctx context.Context, c metric.Int64Counter, n int, table string) {
	if n > 0 {
		c.Add(ctx, int64(n), metric.WithAttributes(attribute.String("table", table)))
	}
}
