package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func sqlFunc(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)
	newLogger := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	newGormLog, ok := newLogger.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, newGormLog.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("error carries the request, caller and customer", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn)
		ctx, l := WithRequestID(context.Background(), zap.NewNop(), "req-1")
		ctx, _ = WithUserID(ctx, l, "admin-7")
		ctx = WithCustomerID(ctx, "CID240601103045")

		gormLog.Trace(ctx, time.Now(), sqlFunc(`INSERT INTO "customers" ("id") VALUES ($1)`, 0), errors.New("duplicate key"))

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "customer store query failed", entries[0].Message)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "admin-7", fields["user_id"])
		assert.Equal(t, "CID240601103045", fields["customer_id"])
		assert.Equal(t, "INSERT", fields["statement"])
		assert.Equal(t, "duplicate key", fields["error"])
	})

	t.Run("background queries carry no request fields", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)

		gormLog.Trace(context.Background(), time.Now(), sqlFunc("  select count(*) from customers", 1), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "SELECT", fields["statement"])
		assert.NotContains(t, fields, "request_id")
		assert.NotContains(t, fields, "customer_id")
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn)

		gormLog.Trace(context.Background(), time.Now(), sqlFunc("SELECT", 0), gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("slow query warns", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))

		gormLog.Trace(context.Background(), time.Now().Add(-time.Second), sqlFunc("SELECT", 3), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "slow customer store query", entries[0].Message)
		assert.Equal(t, 10*time.Millisecond, entries[0].ContextMap()["threshold"])
	})

	t.Run("info level logs every query at debug", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)

		gormLog.Trace(context.Background(), time.Now(), sqlFunc("SELECT 1", 1), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, "customer store query", entries[0].Message)
	})

	t.Run("warn level skips fast queries", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn)

		gormLog.Trace(context.Background(), time.Now(), sqlFunc("SELECT 1", 1), nil)

		assert.Empty(t, recorded.All())
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Silent)

		gormLog.Trace(context.Background(), time.Now(), sqlFunc("SELECT 1", 1), errors.New("x"))

		assert.Empty(t, recorded.All())
	})
}

func TestGormLogger_Printf(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Info)

	gormLog.Info(context.Background(), "migrated %s", "customers")
	gormLog.Warn(context.Background(), "warn %d", 1)
	gormLog.Error(context.Background(), "error %d", 2)

	entries := recorded.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "migrated customers", entries[0].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("other"))
}
