package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/realmfikri/pos-shoestore/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memoryLogExporter struct {
	mu     sync.Mutex
	bodies []string
}

func (e *memoryLogExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
	}
	return nil
}

func (e *memoryLogExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryLogExporter) ForceFlush(context.Context) error { return nil }

func (e *memoryLogExporter) exported() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.bodies...)
}

func TestLoggerProvider_DisabledReturnsBase(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.Config{}, zap.NewNop())
	require.NoError(t, err)

	base := zap.NewNop()
	assert.False(t, lp.IsEnabled())
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_BridgeTeesAboveLevel(t *testing.T) {
	exporter := &memoryLogExporter{}
	lp, err := telemetry.NewLoggerProviderWithProcessor(
		telemetry.Config{ServiceName: "pos"},
		sdklog.NewSimpleProcessor(exporter),
		zap.NewNop(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	core, local := observer.New(zapcore.DebugLevel)
	log := lp.Bridge(zap.New(core), zapcore.WarnLevel)

	log.Info("sale completed")
	log.Warn("stock low", zap.String("sku", "RUN-42-BLK"))

	assert.Equal(t, 2, local.Len())
	assert.Equal(t, []string{"stock low"}, exporter.exported())
}
