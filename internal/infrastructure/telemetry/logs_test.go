package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{ServiceName: "test"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(context.Background()))

	core := NewZapOTELCore(ZapBridgeConfig{ServiceName: "test", LoggerProvider: lp, Level: zapcore.InfoLevel})
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestNewBridgedLogger_WritesBase(t *testing.T) {
	base, logs := observer.New(zapcore.InfoLevel)
	logger := NewBridgedLogger(base, zapcore.NewNopCore())
	logger.Info("ticket created", zap.String("name", "CUST-Ticket-#01"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "ticket created", logs.All()[0].Message)
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	logger := zap.New(core.With([]zapcore.Field{zap.String("k", "v")}))
	logger.Info("dropped")
	logger.Warn("kept")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestProfiler_EnabledRequiresAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "erp"}, zaptest.NewLogger(t))
	assert.Error(t, err)
	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestProfileTypes(t *testing.T) {
	cfg := ProfilerConfig{ProfileCPU: true, ProfileMutex: true}
	assert.Len(t, cfg.profileTypes(), 3)
}
