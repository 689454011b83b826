package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/clients"
)

// OpenHistoryStore builds the backend named by cfg.HistoryBackend. The
// returned close func releases any client the store holds.
func OpenHistoryStore(ctx context.Context, cfg config.Config) (HistoryStore, func(), error) {
	slog.Info("[HistoryStore] Opening history backend",
		slog.String("backend", cfg.HistoryBackend),
		slog.Int("limit", cfg.HistoryLimit))

	switch cfg.HistoryBackend {
	case config.HistoryBackendMemory:
		return NewMemoryHistory(cfg.HistoryLimit), func() {}, nil

	case config.HistoryBackendValkey:
		vc, err := clients.NewValkeyClient(cfg.Valkey)
		if err != nil {
			return nil, nil, fmt.Errorf("[HistoryStore] valkey backend: %w", err)
		}
		return NewValkeyHistory(vc, cfg.HistoryLimit), vc.Close, nil

	case config.HistoryBackendDynamoDB:
		awsCfg, err := clients.LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, nil, fmt.Errorf("[HistoryStore] dynamodb backend: %w", err)
		}
		client := clients.NewDynamoDBClient(awsCfg, cfg.AWS)
		return NewDynamoHistory(client, cfg.AWS.HistoryTable, cfg.HistoryLimit), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("[HistoryStore] unknown history backend %q", cfg.HistoryBackend)
	}
}
