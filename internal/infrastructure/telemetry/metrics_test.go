package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func newManualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestCustomerMetrics(t *testing.T) {
	reader, provider := newManualMeter(t)
	m, err := NewCustomerMetrics(provider.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	m.ObserveOperation(ctx, "create", "ok", 20*time.Millisecond)
	m.ObserveOperation(ctx, "create", "ok", 30*time.Millisecond)
	m.ObserveOperation(ctx, "create", "validation", time.Millisecond)
	m.ObserveRejection(ctx, "INVALID_GSTIN")

	got := collect(t, reader)

	ops, ok := got["custadmin_customer_operations_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range ops.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		counts[outcome.AsString()] = dp.Value
	}
	assert.Equal(t, int64(2), counts["ok"])
	assert.Equal(t, int64(1), counts["validation"])

	rej, ok := got["custadmin_customer_rejections_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, rej.DataPoints, 1)
	code, _ := rej.DataPoints[0].Attributes.Value(attribute.Key("code"))
	assert.Equal(t, "INVALID_GSTIN", code.AsString())

	hist, ok := got["custadmin_customer_operation_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var total uint64
	for _, dp := range hist.DataPoints {
		total += dp.Count
	}
	assert.Equal(t, uint64(3), total)
}

func TestRegisterPoolMetrics(t *testing.T) {
	reader, provider := newManualMeter(t)

	reg, err := RegisterPoolMetrics(provider.Meter(MeterName), func() (PoolStats, error) {
		return PoolStats{MaxOpen: 25, InUse: 3, Idle: 7}, nil
	})
	require.NoError(t, err)
	defer func() { _ = reg.Unregister() }()

	got := collect(t, reader)

	conns, ok := got["db_pool_connections"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	byState := map[string]int64{}
	for _, dp := range conns.DataPoints {
		state, _ := dp.Attributes.Value(attribute.Key("db.pool.state"))
		byState[state.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"in_use": 3, "idle": 7}, byState)

	maxOpen, ok := got["db_pool_connections_max"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, maxOpen.DataPoints, 1)
	assert.Equal(t, int64(25), maxOpen.DataPoints[0].Value)
}

func TestRegisterPoolMetrics_StatsError(t *testing.T) {
	reader, provider := newManualMeter(t)

	_, err := RegisterPoolMetrics(provider.Meter(MeterName), func() (PoolStats, error) {
		return PoolStats{}, errors.New("pool closed")
	})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	assert.Error(t, reader.Collect(context.Background(), &rm))
}
