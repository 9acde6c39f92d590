package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/infrastructure/writebehind"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/eslsoft/vocquiz/pkg/filterexpr"
)

type listWordsParams struct {
	Category      *string
	Categories    []string
	Folder        *string
	English       *string
	EnglishPrefix *string
	Words         []string
	TurkishPrefix *string
	Level         *int
	LevelMin      *int
	LevelMax      *int
	LevelAbove    *int
	LevelBelow    *int
	Due           *bool
	ReviewAfter   *time.Time
	ReviewBefore  *time.Time
	CreatedAfter  *time.Time
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

// wordRepository keeps every word in memory and mirrors each mutation to the durable
// store through the write-behind queue.
type wordRepository struct {
	store repository.WordStore
	queue *writebehind.Queue
	clock func() time.Time
	newID func() string

	mu    sync.RWMutex
	words map[string]entity.Word
}

// NewWordRepository loads every stored word and returns the cached repository.
func NewWordRepository(ctx context.Context, store repository.WordStore, queue *writebehind.Queue) (repository.WordRepository, error) {
	return newWordRepository(ctx, store, queue, time.Now, uuid.NewString)
}

func newWordRepository(ctx context.Context, store repository.WordStore, queue *writebehind.Queue, clock func() time.Time, newID func() string) (*wordRepository, error) {
	loaded, err := store.LoadWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	r := &wordRepository{
		store: store,
		queue: queue,
		clock: clock,
		newID: newID,
		words: make(map[string]entity.Word, len(loaded)),
	}
	for _, w := range loaded {
		r.words[w.ID] = w.Clone()
	}
	return r, nil
}

func (r *wordRepository) List(ctx context.Context) ([]entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	words := lo.MapToSlice(r.words, func(_ string, w entity.Word) entity.Word { return w.Clone() })
	r.mu.RUnlock()

	slices.SortFunc(words, func(a, b entity.Word) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return words, nil
}

func (r *wordRepository) Search(ctx context.Context, query *repository.ListWordQuery) ([]entity.Word, int, error) {
	if query == nil {
		query = &repository.ListWordQuery{}
	}
	var p listWordsParams
	if err := filterexpr.Bind(query, &p, listWordsSchema); err != nil {
		return nil, 0, err
	}
	p.Words = normalizeLowerStrings(p.Words)

	words, err := r.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	now := r.clock()
	words = lo.Filter(words, func(w entity.Word, _ int) bool {
		if !w.MatchesGroup(query.Category, query.Folder) {
			return false
		}
		if query.DueOnly && !w.IsDue(now) {
			return false
		}
		return p.matches(w, now)
	})

	slices.SortStableFunc(words, func(a, b entity.Word) int {
		if c := compareWordKey(a, b, p.PrimaryKey, p.PrimaryDesc); c != 0 {
			return c
		}
		return compareWordKey(a, b, p.SecondaryKey, p.SecondaryDesc)
	})

	total := len(words)
	start, end := query.Window(total)
	return words[start:end], total, nil
}

func (p listWordsParams) matches(w entity.Word, now time.Time) bool {
	switch {
	case p.Category != nil && w.Category != *p.Category:
		return false
	case len(p.Categories) > 0 && !lo.Contains(p.Categories, w.Category):
		return false
	case p.Folder != nil && w.Folder != *p.Folder:
		return false
	case p.English != nil && !strings.EqualFold(w.English, *p.English):
		return false
	case p.EnglishPrefix != nil && !hasPrefixFold(w.English, *p.EnglishPrefix):
		return false
	case len(p.Words) > 0 && !lo.Contains(p.Words, strings.ToLower(w.English)):
		return false
	case p.TurkishPrefix != nil && !hasPrefixFold(w.Turkish, *p.TurkishPrefix):
		return false
	case p.Level != nil && w.EffectiveLevel() != *p.Level:
		return false
	case p.LevelMin != nil && w.EffectiveLevel() < *p.LevelMin:
		return false
	case p.LevelMax != nil && w.EffectiveLevel() > *p.LevelMax:
		return false
	case p.LevelAbove != nil && w.EffectiveLevel() <= *p.LevelAbove:
		return false
	case p.LevelBelow != nil && w.EffectiveLevel() >= *p.LevelBelow:
		return false
	case p.Due != nil && w.IsDue(now) != *p.Due:
		return false
	case p.CreatedAfter != nil && w.CreatedAt.Before(*p.CreatedAfter):
		return false
	}
	if p.ReviewAfter != nil || p.ReviewBefore != nil {
		if w.NextReview == nil {
			return false
		}
		if p.ReviewAfter != nil && w.NextReview.Before(*p.ReviewAfter) {
			return false
		}
		if p.ReviewBefore != nil && w.NextReview.After(*p.ReviewBefore) {
			return false
		}
	}
	return true
}

func compareWordKey(a, b entity.Word, key string, desc bool) int {
	var c int
	switch key {
	case "created_at":
		c = a.CreatedAt.Compare(b.CreatedAt)
	case "english":
		c = cmp.Compare(strings.ToLower(a.English), strings.ToLower(b.English))
	case "turkish":
		c = cmp.Compare(strings.ToLower(a.Turkish), strings.ToLower(b.Turkish))
	case "level":
		c = cmp.Compare(a.EffectiveLevel(), b.EffectiveLevel())
	case "next_review":
		c = compareOptionalTime(a.NextReview, b.NextReview)
	default:
		c = cmp.Compare(a.ID, b.ID)
	}
	if desc {
		return -c
	}
	return c
}

// compareOptionalTime sorts unscheduled words first.
func compareOptionalTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

func (r *wordRepository) GetByID(ctx context.Context, id string) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.words[id]
	if !ok {
		return nil, entity.ErrWordNotFound
	}
	clone := w.Clone()
	return &clone, nil
}

func (r *wordRepository) Create(ctx context.Context, draft entity.WordDraft) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !draft.Valid() {
		return nil, entity.ErrInvalidWordText
	}

	// a new card always starts unscheduled at the lowest level
	draft.ID = ""
	draft.Level = entity.MinLevel
	draft.NextReview = nil
	draft.LastReviewed = nil
	draft.CreatedAt = nil
	w := draft.Build(r.newID(), r.clock())

	r.mu.Lock()
	r.words[w.ID] = w
	r.mu.Unlock()

	r.save("create word", w)
	clone := w.Clone()
	return &clone, nil
}

func (r *wordRepository) Update(ctx context.Context, id string, patch entity.WordPatch) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if patch.Level != nil && (*patch.Level < entity.MinLevel || *patch.Level > entity.MaxLevel) {
		return nil, entity.ErrInvalidLevel
	}

	r.mu.Lock()
	w, ok := r.words[id]
	if !ok {
		r.mu.Unlock()
		return nil, entity.ErrWordNotFound
	}
	w = w.Clone()
	patch.Apply(&w)
	if w.English == "" || w.Turkish == "" {
		r.mu.Unlock()
		return nil, entity.ErrInvalidWordText
	}
	w.Normalize(r.clock())
	r.words[id] = w
	r.mu.Unlock()

	r.save("update word", w)
	clone := w.Clone()
	return &clone, nil
}

func (r *wordRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	if _, ok := r.words[id]; !ok {
		r.mu.Unlock()
		return entity.ErrWordNotFound
	}
	delete(r.words, id)
	r.mu.Unlock()

	r.remove("delete word", []string{id})
	return nil
}

func (r *wordRepository) DeleteMany(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ids = lo.Uniq(ids)
	r.mu.Lock()
	for _, id := range ids {
		delete(r.words, id)
	}
	r.mu.Unlock()

	if len(ids) > 0 {
		r.remove("delete words", ids)
	}
	return nil
}

func (r *wordRepository) Restore(ctx context.Context, words []entity.Word) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	now := r.clock()
	restored := make([]entity.Word, 0, len(words))

	r.mu.Lock()
	for _, w := range words {
		if w.ID == "" {
			continue
		}
		if _, exists := r.words[w.ID]; exists {
			continue
		}
		w = w.Clone()
		w.Normalize(now)
		r.words[w.ID] = w
		restored = append(restored, w)
	}
	r.mu.Unlock()

	if len(restored) > 0 {
		r.save("restore words", restored...)
	}
	return len(restored), nil
}

func (r *wordRepository) Import(ctx context.Context, drafts []entity.WordDraft) (repository.ImportReport, error) {
	if err := ctx.Err(); err != nil {
		return repository.ImportReport{}, err
	}
	now := r.clock()
	var report repository.ImportReport
	imported := make(map[string]entity.Word, len(drafts))
	order := make([]string, 0, len(drafts))

	for _, d := range drafts {
		if !d.Valid() {
			report.Skipped++
			continue
		}
		w := d.Build(r.newID(), now)
		if _, seen := imported[w.ID]; !seen {
			order = append(order, w.ID)
		}
		imported[w.ID] = w
	}

	batch := make([]entity.Word, 0, len(order))
	r.mu.Lock()
	for _, id := range order {
		w := imported[id]
		r.words[id] = w
		batch = append(batch, w)
	}
	r.mu.Unlock()

	report.Imported = len(batch)
	if len(batch) > 0 {
		r.save("import words", batch...)
	}
	return report, nil
}

func (r *wordRepository) save(name string, words ...entity.Word) {
	batch := lo.Map(words, func(w entity.Word, _ int) entity.Word { return w.Clone() })
	r.enqueue(name, func(ctx context.Context) error { return r.store.SaveWords(ctx, batch) })
}

func (r *wordRepository) remove(name string, ids []string) {
	ids = slices.Clone(ids)
	r.enqueue(name, func(ctx context.Context) error { return r.store.DeleteWords(ctx, ids) })
}

// enqueue hands op to the queue. A refusal after shutdown is logged and counted there;
// the in-memory state stays authoritative either way.
func (r *wordRepository) enqueue(name string, op writebehind.Op) {
	_ = r.queue.Enqueue(name, op)
}
