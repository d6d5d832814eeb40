package internal

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/ryangwn/svelte")

var (
	// flushDuration measures one drain of both effect queues to quiescence.
	flushDuration metric.Float64Histogram
	// flushedEffects counts effects executed across flushes.
	flushedEffects metric.Int64Counter
	// flushAborts counts flushes that hit the update-depth bound.
	flushAborts metric.Int64Counter
)

func init() {
	var err error
	flushDuration, err = meter.Float64Histogram(
		"reactivity.flush.duration",
		metric.WithDescription("The duration of one drain of both scheduled-effect queues to quiescence."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic("reactivity: failed to init 'reactivity.flush.duration' instrument")
	}

	flushedEffects, err = meter.Int64Counter(
		"reactivity.flush.effects",
		metric.WithDescription("The number of effects executed by flushes."),
	)
	if err != nil {
		panic("reactivity: failed to init 'reactivity.flush.effects' instrument")
	}

	flushAborts, err = meter.Int64Counter(
		"reactivity.flush.aborts",
		metric.WithDescription("The number of flushes aborted by the update-depth bound."),
	)
	if err != nil {
		panic("reactivity: failed to init 'reactivity.flush.aborts' instrument")
	}
}

func recordFlush(d time.Duration, effects int) {
	ctx := context.Background()
	flushDuration.Record(ctx, float64(d)/float64(time.Millisecond))
	if effects > 0 {
		flushedEffects.Add(ctx, int64(effects))
	}
}

func recordAbort() {
	flushAborts.Add(context.Background(), 1)
}
