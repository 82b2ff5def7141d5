package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		l := zap.NewExample()
		ctx := WithContext(context.Background(), l)

		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("returns no-op logger when missing", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestWithRequestIDAndUserID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, l := WithRequestID(context.Background(), zap.New(core), "req-123")
	ctx, l = WithUserID(ctx, l, "user-9")
	FromContext(ctx).Info("hello")
	_ = l

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "user-9", GetUserID(ctx))

	entries := recorded.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-123", fields["request_id"])
		assert.Equal(t, "user-9", fields["user_id"])
	}
}

func TestWithCustomerID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-5")
	ctx = WithCustomerID(ctx, "CID240601103045")
	FromContext(ctx).Info("customer loaded")

	assert.Equal(t, "CID240601103045", GetCustomerID(ctx))
	entries := recorded.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-5", fields["request_id"])
		assert.Equal(t, "CID240601103045", fields["customer_id"])
	}
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetCustomerID(ctx))
	assert.Empty(t, GetTraceID(ctx))
}

func TestWithTraceContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	t.Run("no span leaves logger unchanged", func(t *testing.T) {
		assert.Same(t, base, WithTraceContext(context.Background(), base))
	})

	t.Run("valid span adds ids", func(t *testing.T) {
		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		WithTraceContext(ctx, base).Info("traced")

		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))
		entries := recorded.All()
		if assert.NotEmpty(t, entries) {
			fields := entries[len(entries)-1].ContextMap()
			assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
			assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
		}
	})
}
