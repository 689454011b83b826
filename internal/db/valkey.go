package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentidash/internal/clients"
	"github.com/spacesedan/sentidash/internal/models"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_HISTORY_KEY = "sentidash:history"
	valkeyRetries      = 3
)

// ValkeyHistory keeps history as a capped list of JSON documents.
type ValkeyHistory struct {
	vc    *clients.ValkeyClient
	key   string
	limit int
}

func NewValkeyHistory(vc *clients.ValkeyClient, limit int) *ValkeyHistory {
	return &ValkeyHistory{
		vc:    vc,
		key:   VALKEY_HISTORY_KEY,
		limit: normalizeLimit(limit),
	}
}

func (h *ValkeyHistory) Prepend(ctx context.Context, entries ...models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs, err := encodeEntries(entries)
	if err != nil {
		return err
	}

	results := h.vc.DoMultiWithRetry(ctx, func(c valkey.Client) []valkey.Completed {
		return []valkey.Completed{
			c.B().Lpush().Key(h.key).Element(docs...).Build(),
			c.B().Ltrim().Key(h.key).Start(0).Stop(int64(h.limit - 1)).Build(),
		}
	}, valkeyRetries)
	for _, res := range results {
		if err := res.Error(); err != nil {
			return fmt.Errorf("[ValkeyHistory] failed to prepend entries: %w", err)
		}
	}

	slog.Debug("[ValkeyHistory] Prepended entries", slog.Int("count", len(entries)))
	return nil
}

func (h *ValkeyHistory) List(ctx context.Context) ([]models.HistoryEntry, error) {
	docs, err := h.vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Lrange().Key(h.key).Start(0).Stop(-1).Build()
	}, valkeyRetries).AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []models.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("[ValkeyHistory] failed to list entries: %w", err)
	}
	return decodeEntries(docs), nil
}

func (h *ValkeyHistory) Clear(ctx context.Context) error {
	err := h.vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Del().Key(h.key).Build()
	}, valkeyRetries).Error()
	if err != nil {
		return fmt.Errorf("[ValkeyHistory] failed to clear entries: %w", err)
	}
	return nil
}

func (h *ValkeyHistory) Ping(ctx context.Context) error {
	return h.vc.Ping(ctx)
}

func encodeEntries(entries []models.HistoryEntry) ([]string, error) {
	docs := make([]string, 0, len(entries))
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("[ValkeyHistory] failed to encode entry: %w", err)
		}
		docs = append(docs, string(data))
	}
	return docs, nil
}

// decodeEntries skips documents that no longer decode rather than failing
// the whole listing.
func decodeEntries(docs []string) []models.HistoryEntry {
	entries := make([]models.HistoryEntry, 0, len(docs))
	for _, doc := range docs {
		var entry models.HistoryEntry
		if err := json.Unmarshal([]byte(doc), &entry); err != nil {
			slog.Warn("[ValkeyHistory] Skipping undecodable entry",
				slog.String("error", err.Error()))
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
