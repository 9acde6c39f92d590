package repository

import (
	"context"

	"github.com/eslsoft/vocquiz/internal/entity"
)

// ListWordQuery holds parameters for listing words. Filter and OrderBy accept the CEL
// subset understood by pkg/filterexpr.
type ListWordQuery struct {
	Pagination
	FilterOrder

	Category string
	Folder   string
	DueOnly  bool
}

// ImportReport counts the outcome of a bulk import.
type ImportReport struct {
	Imported int
	Skipped  int
}

// WordRepository is the word side of the store the quiz engine talks to. Reads come from
// an authoritative in-memory view; writes land there immediately and reach durable
// storage asynchronously.
type WordRepository interface {
	List(ctx context.Context) ([]entity.Word, error)
	Search(ctx context.Context, query *ListWordQuery) ([]entity.Word, int, error)
	GetByID(ctx context.Context, id string) (*entity.Word, error)
	Create(ctx context.Context, draft entity.WordDraft) (*entity.Word, error)
	Update(ctx context.Context, id string, patch entity.WordPatch) (*entity.Word, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
	Restore(ctx context.Context, words []entity.Word) (int, error)
	Import(ctx context.Context, drafts []entity.WordDraft) (ImportReport, error)
}

// WordStore is the durable backend behind a WordRepository.
type WordStore interface {
	LoadWords(ctx context.Context) ([]entity.Word, error)
	SaveWords(ctx context.Context, words []entity.Word) error
	DeleteWords(ctx context.Context, ids []string) error
}
