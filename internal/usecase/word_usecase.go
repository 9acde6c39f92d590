package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

// WordUsecase defines business logic for the learner's word list.
type WordUsecase interface {
	AddWord(ctx context.Context, draft entity.WordDraft) (*entity.Word, error)
	UpdateWord(ctx context.Context, id string, patch entity.WordPatch) (*entity.Word, error)
	GetWord(ctx context.Context, id string) (*entity.Word, error)
	ListWords(ctx context.Context, query *repository.ListWordQuery) ([]entity.Word, int, error)
	DeleteWord(ctx context.Context, id string) error
	DeleteWords(ctx context.Context, ids []string) error
	RestoreWords(ctx context.Context, words []entity.Word) (int, error)
	ImportWords(ctx context.Context, drafts []entity.WordDraft) (repository.ImportReport, error)
	AddPack(ctx context.Context, packID string) (*WordPack, repository.ImportReport, error)
	Groups(ctx context.Context) (*Groups, error)
}

// Groups lists the categories and folders in use, for quiz filter selection.
type Groups struct {
	Categories []string
	Folders    []string
}

const (
	_defaultPageSize = int32(50)
	_maxPageSize     = int32(1000)
)

type wordUsecase struct {
	repo repository.WordRepository
}

func NewWordUsecase(repo repository.WordRepository) WordUsecase {
	return &wordUsecase{repo: repo}
}

func (u *wordUsecase) AddWord(ctx context.Context, draft entity.WordDraft) (*entity.Word, error) {
	if !draft.Valid() {
		return nil, entity.ErrInvalidWordText
	}
	return u.repo.Create(ctx, draft)
}

// UpdateWord edits the card itself. Level and review dates belong to grading and are
// rejected here.
func (u *wordUsecase) UpdateWord(ctx context.Context, id string, patch entity.WordPatch) (*entity.Word, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, entity.ErrWordNotFound
	}
	if patch.TouchesMastery() {
		return nil, entity.ErrMasteryReadOnly
	}
	if patch.English != nil && strings.TrimSpace(*patch.English) == "" {
		return nil, entity.ErrInvalidWordText
	}
	if patch.Turkish != nil && strings.TrimSpace(*patch.Turkish) == "" {
		return nil, entity.ErrInvalidWordText
	}
	return u.repo.Update(ctx, id, patch)
}

func (u *wordUsecase) GetWord(ctx context.Context, id string) (*entity.Word, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, entity.ErrWordNotFound
	}
	return u.repo.GetByID(ctx, id)
}

func (u *wordUsecase) ListWords(ctx context.Context, query *repository.ListWordQuery) ([]entity.Word, int, error) {
	if query == nil {
		query = &repository.ListWordQuery{}
	}
	q := *query
	if q.PageSize < 0 {
		q.PageSize = _defaultPageSize
	}
	if q.PageSize > _maxPageSize {
		q.PageSize = _maxPageSize
	}
	return u.repo.Search(ctx, &q)
}

func (u *wordUsecase) DeleteWord(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return entity.ErrWordNotFound
	}
	return u.repo.Delete(ctx, id)
}

func (u *wordUsecase) DeleteWords(ctx context.Context, ids []string) error {
	ids = lo.Compact(lo.Map(ids, func(id string, _ int) string { return strings.TrimSpace(id) }))
	if len(ids) == 0 {
		return nil
	}
	return u.repo.DeleteMany(ctx, ids)
}

func (u *wordUsecase) RestoreWords(ctx context.Context, words []entity.Word) (int, error) {
	valid := lo.Filter(words, func(w entity.Word, _ int) bool {
		return w.ID != "" && strings.TrimSpace(w.English) != "" && strings.TrimSpace(w.Turkish) != ""
	})
	if len(valid) == 0 {
		return 0, nil
	}
	return u.repo.Restore(ctx, valid)
}

func (u *wordUsecase) ImportWords(ctx context.Context, drafts []entity.WordDraft) (repository.ImportReport, error) {
	if len(drafts) == 0 {
		return repository.ImportReport{}, nil
	}
	return u.repo.Import(ctx, drafts)
}

func (u *wordUsecase) AddPack(ctx context.Context, packID string) (*WordPack, repository.ImportReport, error) {
	pack, ok := FindPack(packID)
	if !ok {
		return nil, repository.ImportReport{}, entity.ErrPackNotFound
	}
	report, err := u.repo.Import(ctx, pack.Words)
	if err != nil {
		return nil, repository.ImportReport{}, err
	}
	return &pack, report, nil
}

func (u *wordUsecase) Groups(ctx context.Context) (*Groups, error) {
	words, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	categories := lo.Uniq(lo.Map(words, func(w entity.Word, _ int) string { return entity.NormalizeGroup(w.Category) }))
	folders := lo.Uniq(lo.Map(words, func(w entity.Word, _ int) string { return entity.NormalizeGroup(w.Folder) }))
	sort.Strings(categories)
	sort.Strings(folders)
	return &Groups{Categories: categories, Folders: folders}, nil
}
