package db

import (
	"context"
	"slices"
	"sync"

	"github.com/spacesedan/sentidash/internal/models"
)

type MemoryHistory struct {
	entries     []models.HistoryEntry
	limit       int
	entriesLock sync.Mutex
}

func NewMemoryHistory(limit int) *MemoryHistory {
	limit = normalizeLimit(limit)
	return &MemoryHistory{
		entries: make([]models.HistoryEntry, 0, limit),
		limit:   limit,
	}
}

func (m *MemoryHistory) Prepend(_ context.Context, entries ...models.HistoryEntry) error {
	m.entriesLock.Lock()
	defer m.entriesLock.Unlock()

	front := slices.Clone(entries)
	slices.Reverse(front)
	m.entries = append(front, m.entries...)
	if len(m.entries) > m.limit {
		m.entries = m.entries[:m.limit]
	}
	return nil
}

func (m *MemoryHistory) List(_ context.Context) ([]models.HistoryEntry, error) {
	m.entriesLock.Lock()
	defer m.entriesLock.Unlock()

	return slices.Clone(m.entries), nil
}

func (m *MemoryHistory) Clear(_ context.Context) error {
	m.entriesLock.Lock()
	defer m.entriesLock.Unlock()

	m.entries = make([]models.HistoryEntry, 0, m.limit)
	return nil
}

func (m *MemoryHistory) Ping(_ context.Context) error {
	return nil
}
