package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/clients/kafka_client"
	"github.com/spacesedan/sentidash/internal/consumers"
	"github.com/spacesedan/sentidash/internal/dashboard"
	"github.com/spacesedan/sentidash/internal/db"
	"github.com/spacesedan/sentidash/internal/logging"
)

const producerInitRetryDelay = 5 * time.Second

func main() {
	config.LoadEnv(config.AppEnv())
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var producer *kafka_client.Producer
	for {
		p, err := kafka_client.NewProducer(cfg.Kafka)
		if err == nil {
			producer = p
			break
		}

		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(producerInitRetryDelay):
		}
	}
	defer producer.Close()

	store, closeStore, err := db.OpenHistoryStore(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to open history store", slog.String("error", err.Error()))
		return
	}
	defer closeStore()

	consumer, err := kafka_client.NewConsumer(cfg.Kafka)
	if err != nil {
		slog.Error("[Main] Failed to start consumer", slog.String("error", err.Error()))
		return
	}
	defer consumer.Close()

	service := dashboard.NewService(store, dashboard.Options{
		StripMarkdown: cfg.StripMarkdown,
		BatchWorkers:  cfg.BatchWorkers,
	})
	worker := consumers.NewAnalysisRequestConsumer(
		service,
		producer,
		kafka_client.NewCommitHandler(ctx, consumer),
		cfg.Kafka.ResultsTopic,
	)

	slog.Info("[Main] Consuming analysis requests", slog.String("topic", cfg.Kafka.RequestsTopic))
	if err := worker.Run(ctx, kafka_client.NewKafkaMessageIterator(ctx, consumer)); err != nil {
		slog.Error("[Main] Consumer stopped", slog.String("error", err.Error()))
	}
}
