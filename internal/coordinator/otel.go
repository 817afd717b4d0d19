package coordinator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/arcatdmz/koma/internal/coordinator"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// metrics holds the coordinator's counters. The global OTel meter is a
// no-op unless an SDK is installed, so recording is always safe.
type metrics struct {
	saves        metric.Int64Counter
	saveDuration metric.Float64Histogram
	coalescedCnt metric.Int64Counter
	opensDropped metric.Int64Counter
}

func newMetrics() (*metrics, error) {
	m := meter()
	out := &metrics{}
	var err error

	out.saves, err = m.Int64Counter(
		"coordinator.saves.executed",
		metric.WithDescription("Total save runs executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating saves counter: %w", err)
	}

	out.saveDuration, err = m.Float64Histogram(
		"coordinator.saves.duration",
		metric.WithDescription("Save run duration in seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating save duration histogram: %w", err)
	}

	out.coalescedCnt, err = m.Int64Counter(
		"coordinator.saves.coalesced",
		metric.WithDescription("Save requests absorbed into a trailing run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating coalesced counter: %w", err)
	}

	out.opensDropped, err = m.Int64Counter(
		"coordinator.opens.dropped",
		metric.WithDescription("Open requests dropped by the single-flight guard"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating opens dropped counter: %w", err)
	}

	return out, nil
}

func (m *metrics) saved(ctx context.Context, d time.Duration, err error) {
	ok := attribute.Bool("success", err == nil)
	m.saves.Add(ctx, 1, metric.WithAttributes(ok))
	m.saveDuration.Record(ctx, d.Seconds(), metric.WithAttributes(ok))
}

func (m *metrics) coalesced(ctx context.Context) {
	m.coalescedCnt.Add(ctx, 1)
}

func (m *metrics) openDropped(ctx context.Context) {
	m.opensDropped.Add(ctx, 1)
}
