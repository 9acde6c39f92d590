package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

var fixedNow = time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// fakeWordRepo keeps words in a map and records the calls usecases make.
type fakeWordRepo struct {
	words     map[string]entity.Word
	nextID    int
	listErr   error
	lastQuery *repository.ListWordQuery
	imported  []entity.WordDraft
	updates   map[string]entity.WordPatch
}

func newFakeWordRepo(words ...entity.Word) *fakeWordRepo {
	r := &fakeWordRepo{words: map[string]entity.Word{}, updates: map[string]entity.WordPatch{}}
	for _, w := range words {
		r.words[w.ID] = w
	}
	return r
}

func (r *fakeWordRepo) List(ctx context.Context) ([]entity.Word, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]entity.Word, 0, len(r.words))
	for _, w := range r.words {
		out = append(out, w.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeWordRepo) Search(ctx context.Context, query *repository.ListWordQuery) ([]entity.Word, int, error) {
	r.lastQuery = query
	words, err := r.List(ctx)
	return words, len(words), err
}

func (r *fakeWordRepo) GetByID(ctx context.Context, id string) (*entity.Word, error) {
	w, ok := r.words[id]
	if !ok {
		return nil, entity.ErrWordNotFound
	}
	c := w.Clone()
	return &c, nil
}

func (r *fakeWordRepo) Create(ctx context.Context, draft entity.WordDraft) (*entity.Word, error) {
	r.nextID++
	draft.ID = ""
	w := draft.Build(strings.Repeat("w", r.nextID), fixedNow)
	r.words[w.ID] = w
	return &w, nil
}

func (r *fakeWordRepo) Update(ctx context.Context, id string, patch entity.WordPatch) (*entity.Word, error) {
	w, ok := r.words[id]
	if !ok {
		return nil, entity.ErrWordNotFound
	}
	patch.Apply(&w)
	r.words[id] = w
	r.updates[id] = patch
	return &w, nil
}

func (r *fakeWordRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.words[id]; !ok {
		return entity.ErrWordNotFound
	}
	delete(r.words, id)
	return nil
}

func (r *fakeWordRepo) DeleteMany(ctx context.Context, ids []string) error {
	for _, id := range ids {
		delete(r.words, id)
	}
	return nil
}

func (r *fakeWordRepo) Restore(ctx context.Context, words []entity.Word) (int, error) {
	n := 0
	for _, w := range words {
		if _, ok := r.words[w.ID]; ok {
			continue
		}
		r.words[w.ID] = w
		n++
	}
	return n, nil
}

func (r *fakeWordRepo) Import(ctx context.Context, drafts []entity.WordDraft) (repository.ImportReport, error) {
	r.imported = append(r.imported, drafts...)
	report := repository.ImportReport{}
	for _, d := range drafts {
		if !d.Valid() {
			report.Skipped++
			continue
		}
		r.nextID++
		w := d.Build("imp-"+strings.Repeat("i", r.nextID), fixedNow)
		r.words[w.ID] = w
		report.Imported++
	}
	return report, nil
}

type fakeHistoryRepo struct {
	entries []entity.HistoryEntry
	nextID  int
}

func (r *fakeHistoryRepo) List(ctx context.Context) ([]entity.HistoryEntry, error) {
	out := append([]entity.HistoryEntry(nil), r.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeHistoryRepo) Create(ctx context.Context, entry entity.HistoryEntry) (*entity.HistoryEntry, error) {
	r.nextID++
	entry.ID = "h" + strings.Repeat("x", r.nextID)
	if entry.Date.IsZero() {
		entry.Date = fixedNow
	}
	r.entries = append(r.entries, entry)
	return &entry, nil
}

func (r *fakeHistoryRepo) Delete(ctx context.Context, id string) error {
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return entity.ErrHistoryNotFound
}

func (r *fakeHistoryRepo) Clear(ctx context.Context) error {
	r.entries = nil
	return nil
}

func (r *fakeHistoryRepo) Import(ctx context.Context, entries []entity.HistoryEntry) (repository.ImportReport, error) {
	r.entries = append(r.entries, entries...)
	return repository.ImportReport{Imported: len(entries)}, nil
}

func newTestHistoryUsecase(repo *fakeHistoryRepo) *historyUsecase {
	uc := NewHistoryUsecase(repo, time.UTC).(*historyUsecase)
	uc.clock = fixedClock
	return uc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func sampleWords(n int) []entity.Word {
	words := make([]entity.Word, 0, n)
	for i := 0; i < n; i++ {
		next := fixedNow.Add(-time.Hour)
		words = append(words, entity.Word{
			ID:         string(rune('a' + i)),
			English:    "en-" + string(rune('a'+i)),
			Turkish:    "tr-" + string(rune('a'+i)),
			Category:   entity.DefaultGroup,
			Folder:     entity.DefaultGroup,
			Level:      1,
			NextReview: &next,
			CreatedAt:  fixedNow.Add(-time.Duration(i) * time.Hour),
		})
	}
	return words
}
