package observability

import (
	"testing"

	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestLoadConfigDisablesExportWithoutEndpoint(t *testing.T) {
	cfg := LoadConfig(config.Config{
		Environment:   "production",
		Observability: config.ObservabilityConfig{OtelEnabled: true, LogLevel: "info"},
	})

	assert.Equal(t, "washdesk", cfg.ServiceName)
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
	assert.False(t, cfg.Debug())
}

func TestConfigDebug(t *testing.T) {
	assert.True(t, Config{Environment: "test"}.Debug())
	assert.True(t, Config{Environment: "production", LogLevel: "debug"}.Debug())
	assert.False(t, Config{Environment: "staging", LogLevel: "info"}.Debug())
}

func TestSplitConfigRaisesGormLevelInDebug(t *testing.T) {
	out := splitConfig(Config{Environment: "development", OtelEnabled: true, OtelExporterEndpoint: "otel:4317"})

	assert.True(t, out.Logger.Debug)
	assert.True(t, out.Logger.IncludeStackOnError)
	assert.True(t, out.Tracing.Enabled)
	assert.Equal(t, "otel:4317", out.Metrics.ExporterEndpoint)
	assert.Equal(t, gormlogger.Info, out.Gorm.Level)
}
