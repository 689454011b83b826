package db

import (
	"context"

	"github.com/spacesedan/sentidash/internal/models"
)

const DefaultHistoryLimit = 50

// HistoryStore keeps the most recent analyses, newest first.
//
// Prepend behaves like pushing each entry onto the front in turn: the last
// entry passed ends up first. Stores never hold more than their limit.
type HistoryStore interface {
	Prepend(ctx context.Context, entries ...models.HistoryEntry) error
	List(ctx context.Context) ([]models.HistoryEntry, error)
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return limit
}
