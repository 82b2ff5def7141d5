package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName names the meter used for service instruments
const MeterName = "custadmin"

var (
	attrOperation = attribute.Key("operation")
	attrOutcome   = attribute.Key("outcome")
	attrCode      = attribute.Key("code")
	attrPoolState = attribute.Key("db.pool.state")
)

// operationBuckets are histogram boundaries for use case latency (seconds)
var operationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// CustomerMetrics counts customer use case calls and admission rejections
type CustomerMetrics struct {
	operations metric.Int64Counter
	rejections metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewCustomerMetrics registers the customer instruments on meter
func NewCustomerMetrics(meter metric.Meter) (*CustomerMetrics, error) {
	operations, err := meter.Int64Counter("custadmin_customer_operations_total",
		metric.WithDescription("Customer use case calls by operation and outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}

	rejections, err := meter.Int64Counter("custadmin_customer_rejections_total",
		metric.WithDescription("Customer records rejected by admission rule code"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rejections counter: %w", err)
	}

	duration, err := meter.Float64Histogram("custadmin_customer_operation_duration_seconds",
		metric.WithDescription("Customer use case latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(operationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &CustomerMetrics{operations: operations, rejections: rejections, duration: duration}, nil
}

// ObserveOperation records one finished use case call
func (m *CustomerMetrics) ObserveOperation(ctx context.Context, op, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attrOperation.String(op), attrOutcome.String(outcome))
	m.operations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// ObserveRejection records a record refused by the admission rules
func (m *CustomerMetrics) ObserveRejection(ctx context.Context, code string) {
	m.rejections.Add(ctx, 1, metric.WithAttributes(attrCode.String(code)))
}

// PoolStats is the subset of connection pool statistics exported as gauges
type PoolStats struct {
	MaxOpen int
	InUse   int
	Idle    int
}

// RegisterPoolMetrics exports connection pool gauges, read from stats at each collection
func RegisterPoolMetrics(meter metric.Meter, stats func() (PoolStats, error)) (metric.Registration, error) {
	connections, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool gauge: %w", err)
	}
	maxOpen, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum number of connections in the pool"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool max gauge: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s, err := stats()
		if err != nil {
			return err
		}
		o.ObserveInt64(connections, int64(s.InUse), metric.WithAttributes(attrPoolState.String("in_use")))
		o.ObserveInt64(connections, int64(s.Idle), metric.WithAttributes(attrPoolState.String("idle")))
		o.ObserveInt64(maxOpen, int64(s.MaxOpen))
		return nil
	}, connections, maxOpen)
}
