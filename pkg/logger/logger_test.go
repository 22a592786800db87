package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextWithRequestID(t *testing.T) {
	ctx, id := ContextWithRequestID(context.Background())
	require.NotEmpty(t, id)

	again, sameID := ContextWithRequestID(ctx)
	assert.Equal(t, id, sameID)
	assert.Equal(t, ctx, again)
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx := ContextWithEntity(context.Background(), "copper", "leads")
	ctx = context.WithValue(ctx, RequestIDKey, "req-1")

	FromContext(ctx, base).Info("fetched")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "leads", fields["entity"])
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := newLogger(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestInitAdjustsEarlierLoggers(t *testing.T) {
	early := Get().With(zap.String("component", "early"))

	require.NoError(t, Init(Config{Level: "error", Encoding: "console"}))
	t.Cleanup(func() { _ = Init(Config{Level: "info"}) })

	assert.False(t, early.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, early.Core().Enabled(zapcore.ErrorLevel))
	assert.NotSame(t, early, Get())
}
