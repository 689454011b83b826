package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "LOG_LEVEL", "HISTORY_BACKEND", "HISTORY_LIMIT", "STRIP_MARKDOWN", "BATCH_WORKERS", "HISTORY_TABLE_NAME", "KAFKA_CONSUMER_TOPIC", "KAFKA_RESULTS_TOPIC"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, HistoryBackendMemory, cfg.HistoryBackend)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.False(t, cfg.StripMarkdown)
	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.Equal(t, "AnalysisHistory", cfg.AWS.HistoryTable)
	assert.Equal(t, "analysis-requests", cfg.Kafka.RequestsTopic)
	assert.Equal(t, "analysis-results", cfg.Kafka.ResultsTopic)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HISTORY_BACKEND", "Valkey")
	t.Setenv("HISTORY_LIMIT", "10")
	t.Setenv("STRIP_MARKDOWN", "true")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("VALKEY_TLS", "1")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, HistoryBackendValkey, cfg.HistoryBackend)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.True(t, cfg.StripMarkdown)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.Valkey.UseTLS)
}

func TestLoad_InvalidIntegersFallBack(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "lots")
	t.Setenv("BATCH_WORKERS", "-2")

	cfg := Load()
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 8, cfg.BatchWorkers)
}
