package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	HistoryBackendMemory   = "memory"
	HistoryBackendValkey   = "valkey"
	HistoryBackendDynamoDB = "dynamodb"
)

type Config struct {
	Env      string
	HTTPAddr string
	LogLevel slog.Level

	HistoryBackend string
	HistoryLimit   int
	StripMarkdown  bool
	BatchWorkers   int

	ShutdownTimeout time.Duration

	Valkey ValkeyConfig
	AWS    AWSConfig
	Kafka  KafkaConfig
}

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
}

type KafkaConfig struct {
	Broker        string
	GroupID       string
	RequestsTopic string
	ResultsTopic  string
}

type AWSConfig struct {
	Endpoint     string
	Region       string
	HistoryTable string
}

func Load() Config {
	return Config{
		Env:             AppEnv(),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		LogLevel:        parseLevel(getEnv("LOG_LEVEL", "info")),
		HistoryBackend:  strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendMemory)),
		HistoryLimit:    getEnvInt("HISTORY_LIMIT", 50),
		StripMarkdown:   getEnvBool("STRIP_MARKDOWN", false),
		BatchWorkers:    getEnvInt("BATCH_WORKERS", 8),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		Valkey: ValkeyConfig{
			Address:  getEnv("VALKEY_INIT_ADDRESS", "localhost:6379"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			UseTLS:   getEnvBool("VALKEY_TLS", false),
		},
		AWS: AWSConfig{
			Endpoint:     os.Getenv("AWS_ENDPOINT"),
			Region:       getEnv("AWS_REGION", "us-west-2"),
			HistoryTable: getEnv("HISTORY_TABLE_NAME", "AnalysisHistory"),
		},
		Kafka: KafkaConfig{
			Broker:        getEnv("KAFKA_BROKER", "localhost:29092"),
			GroupID:       getEnv("KAFKA_CONSUMER_GROUP_ID", "sentidash-analysis-workers"),
			RequestsTopic: getEnv("KAFKA_CONSUMER_TOPIC", "analysis-requests"),
			ResultsTopic:  getEnv("KAFKA_RESULTS_TOPIC", "analysis-results"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
