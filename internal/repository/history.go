package repository

import (
	"context"

	"github.com/eslsoft/vocquiz/internal/entity"
)

// HistoryRepository stores completed quiz summaries.
type HistoryRepository interface {
	List(ctx context.Context) ([]entity.HistoryEntry, error)
	Create(ctx context.Context, entry entity.HistoryEntry) (*entity.HistoryEntry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Import(ctx context.Context, entries []entity.HistoryEntry) (ImportReport, error)
}

// HistoryStore is the durable backend behind a HistoryRepository.
type HistoryStore interface {
	LoadHistory(ctx context.Context) ([]entity.HistoryEntry, error)
	SaveHistory(ctx context.Context, entries []entity.HistoryEntry) error
	DeleteHistory(ctx context.Context, ids []string) error
	ClearHistory(ctx context.Context) error
}
