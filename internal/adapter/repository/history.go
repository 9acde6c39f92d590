package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/infrastructure/writebehind"
	"github.com/eslsoft/vocquiz/internal/repository"
)

type historyRepository struct {
	store repository.HistoryStore
	queue *writebehind.Queue
	clock func() time.Time
	newID func() string

	mu      sync.RWMutex
	entries map[string]entity.HistoryEntry
}

// NewHistoryRepository loads the stored quiz history and returns the cached repository.
func NewHistoryRepository(ctx context.Context, store repository.HistoryStore, queue *writebehind.Queue) (repository.HistoryRepository, error) {
	return newHistoryRepository(ctx, store, queue, time.Now, uuid.NewString)
}

func newHistoryRepository(ctx context.Context, store repository.HistoryStore, queue *writebehind.Queue, clock func() time.Time, newID func() string) (*historyRepository, error) {
	loaded, err := store.LoadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	r := &historyRepository{
		store:   store,
		queue:   queue,
		clock:   clock,
		newID:   newID,
		entries: make(map[string]entity.HistoryEntry, len(loaded)),
	}
	for _, e := range loaded {
		r.entries[e.ID] = e.Clone()
	}
	return r, nil
}

func (r *historyRepository) List(ctx context.Context) ([]entity.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	entries := lo.MapToSlice(r.entries, func(_ string, e entity.HistoryEntry) entity.HistoryEntry { return e.Clone() })
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b entity.HistoryEntry) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return entries, nil
}

// Create stores entry. A zero Date is stamped with the current time; callers recovering
// a missed day pass the backdated timestamp instead.
func (r *historyRepository) Create(ctx context.Context, entry entity.HistoryEntry) (*entity.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry = entry.Clone()
	entry.ID = r.newID()
	if entry.Date.IsZero() {
		entry.Date = r.clock()
	}

	r.mu.Lock()
	r.entries[entry.ID] = entry
	r.mu.Unlock()

	r.save("create history entry", entry)
	clone := entry.Clone()
	return &clone, nil
}

func (r *historyRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	if _, ok := r.entries[id]; !ok {
		r.mu.Unlock()
		return entity.ErrHistoryNotFound
	}
	delete(r.entries, id)
	r.mu.Unlock()

	ids := []string{id}
	r.enqueue("delete history entry", func(ctx context.Context) error {
		return r.store.DeleteHistory(ctx, ids)
	})
	return nil
}

func (r *historyRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.entries = make(map[string]entity.HistoryEntry)
	r.mu.Unlock()

	r.enqueue("clear history", r.store.ClearHistory)
	return nil
}

// Import merges entries by id, assigning ids to entries that have none. Entries without
// a date are skipped.
func (r *historyRepository) Import(ctx context.Context, entries []entity.HistoryEntry) (repository.ImportReport, error) {
	if err := ctx.Err(); err != nil {
		return repository.ImportReport{}, err
	}
	var report repository.ImportReport
	batch := make([]entity.HistoryEntry, 0, len(entries))
	index := make(map[string]int, len(entries))

	for _, e := range entries {
		if e.Date.IsZero() {
			report.Skipped++
			continue
		}
		e = e.Clone()
		if e.ID == "" {
			e.ID = r.newID()
		}
		if i, seen := index[e.ID]; seen {
			batch[i] = e
			continue
		}
		index[e.ID] = len(batch)
		batch = append(batch, e)
	}

	r.mu.Lock()
	for _, e := range batch {
		r.entries[e.ID] = e
	}
	r.mu.Unlock()

	report.Imported = len(batch)
	if len(batch) > 0 {
		r.save("import history", batch...)
	}
	return report, nil
}

func (r *historyRepository) save(name string, entries ...entity.HistoryEntry) {
	batch := lo.Map(entries, func(e entity.HistoryEntry, _ int) entity.HistoryEntry { return e.Clone() })
	r.enqueue(name, func(ctx context.Context) error {
		return r.store.SaveHistory(ctx, batch)
	})
}

// enqueue hands op to the queue. A refusal after shutdown is logged and counted there.
func (r *historyRepository) enqueue(name string, op writebehind.Op) {
	_ = r.queue.Enqueue(name, op)
}
