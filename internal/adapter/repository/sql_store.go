package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/eslsoft/vocquiz/internal/infrastructure/database"
	"github.com/eslsoft/vocquiz/internal/infrastructure/database/types"
	"github.com/eslsoft/vocquiz/internal/repository"
)

// DefaultBatchSize caps the number of rows written per transaction.
const DefaultBatchSize = 450

var (
	wordColumns    = []string{"id", "english", "turkish", "category", "folder", "part_of_speech", "example", "emoji", "level", "next_review", "last_reviewed", "created_at"}
	historyColumns = []string{"id", "date", "total", "correct", "incorrect", "percentage", "category", "folder", "mode", "wrong_answers"}
)

type wordRecord struct {
	ID           string       `db:"id"`
	English      string       `db:"english"`
	Turkish      string       `db:"turkish"`
	Category     string       `db:"category"`
	Folder       string       `db:"folder"`
	PartOfSpeech string       `db:"part_of_speech"`
	Example      string       `db:"example"`
	Emoji        string       `db:"emoji"`
	Level        int          `db:"level"`
	NextReview   sql.NullTime `db:"next_review"`
	LastReviewed sql.NullTime `db:"last_reviewed"`
	CreatedAt    time.Time    `db:"created_at"`
}

type historyRecord struct {
	ID           string             `db:"id"`
	Date         time.Time          `db:"date"`
	Total        int                `db:"total"`
	Correct      int                `db:"correct"`
	Incorrect    int                `db:"incorrect"`
	Percentage   int                `db:"percentage"`
	Category     string             `db:"category"`
	Folder       string             `db:"folder"`
	Mode         string             `db:"mode"`
	WrongAnswers types.WrongAnswers `db:"wrong_answers"`
}

// SQLWordStore persists words in the "words" table.
type SQLWordStore struct {
	db        *database.DB
	batchSize int
}

// NewSQLWordStore returns a WordStore backed by db.
func NewSQLWordStore(db *database.DB, cfg *config.Config) repository.WordStore {
	return &SQLWordStore{db: db, batchSize: batchSize(cfg)}
}

func (s *SQLWordStore) LoadWords(ctx context.Context) ([]entity.Word, error) {
	query, args := entsql.Dialect(s.db.Dialect).
		Select(wordColumns...).
		From(entsql.Table(database.WordsTableName)).
		Query()

	var rows []wordRecord
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	return lo.Map(rows, func(row wordRecord, _ int) entity.Word { return mapWordRecord(row) }), nil
}

// SaveWords upserts words by id, one transaction per batch. A failing batch stops the
// import; batches committed before it stay committed.
func (s *SQLWordStore) SaveWords(ctx context.Context, words []entity.Word) error {
	for i, chunk := range lo.Chunk(words, s.batchSize) {
		insert := entsql.Dialect(s.db.Dialect).
			Insert(database.WordsTableName).
			Columns(wordColumns...)
		for _, w := range chunk {
			insert.Values(w.ID, w.English, w.Turkish, w.Category, w.Folder, w.PartOfSpeech, w.Example, w.Emoji,
				w.Level, nullTime(w.NextReview), nullTime(w.LastReviewed), w.CreatedAt)
		}
		insert.OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())

		if err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
			query, args := insert.Query()
			_, err := tx.ExecContext(ctx, query, args...)
			return err
		}); err != nil {
			return fmt.Errorf("save words batch %d: %w", i, translateError(err, entity.ErrDuplicateWord))
		}
	}
	return nil
}

func (s *SQLWordStore) DeleteWords(ctx context.Context, ids []string) error {
	return deleteByID(ctx, s.db, database.WordsTableName, ids, s.batchSize)
}

// SQLHistoryStore persists quiz history in the "quiz_history" table.
type SQLHistoryStore struct {
	db        *database.DB
	batchSize int
}

// NewSQLHistoryStore returns a HistoryStore backed by db.
func NewSQLHistoryStore(db *database.DB, cfg *config.Config) repository.HistoryStore {
	return &SQLHistoryStore{db: db, batchSize: batchSize(cfg)}
}

func (s *SQLHistoryStore) LoadHistory(ctx context.Context) ([]entity.HistoryEntry, error) {
	query, args := entsql.Dialect(s.db.Dialect).
		Select(historyColumns...).
		From(entsql.Table(database.HistoryTableName)).
		Query()

	var rows []historyRecord
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return lo.Map(rows, func(row historyRecord, _ int) entity.HistoryEntry { return mapHistoryRecord(row) }), nil
}

func (s *SQLHistoryStore) SaveHistory(ctx context.Context, entries []entity.HistoryEntry) error {
	for i, chunk := range lo.Chunk(entries, s.batchSize) {
		insert := entsql.Dialect(s.db.Dialect).
			Insert(database.HistoryTableName).
			Columns(historyColumns...)
		for _, e := range chunk {
			insert.Values(e.ID, e.Date, e.Total, e.Correct, e.Incorrect, e.Percentage, e.Category, e.Folder,
				string(e.Mode), types.WrongAnswers(e.WrongAnswers))
		}
		insert.OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())

		if err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
			query, args := insert.Query()
			_, err := tx.ExecContext(ctx, query, args...)
			return err
		}); err != nil {
			return fmt.Errorf("save history batch %d: %w", i, translateError(err, entity.ErrDuplicateHistoryEntry))
		}
	}
	return nil
}

func (s *SQLHistoryStore) DeleteHistory(ctx context.Context, ids []string) error {
	return deleteByID(ctx, s.db, database.HistoryTableName, ids, s.batchSize)
}

func (s *SQLHistoryStore) ClearHistory(ctx context.Context) error {
	query, args := entsql.Dialect(s.db.Dialect).Delete(database.HistoryTableName).Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func deleteByID(ctx context.Context, db *database.DB, table string, ids []string, size int) error {
	for _, chunk := range lo.Chunk(lo.Uniq(ids), size) {
		query, args := entsql.Dialect(db.Dialect).
			Delete(table).
			Where(entsql.In("id", lo.ToAnySlice(chunk)...)).
			Query()
		if err := withTx(ctx, db, func(tx *sqlx.Tx) error {
			_, err := tx.ExecContext(ctx, query, args...)
			return err
		}); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

func withTx(ctx context.Context, db *database.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func batchSize(cfg *config.Config) int {
	if cfg == nil || cfg.Sync.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return cfg.Sync.BatchSize
}

func mapWordRecord(row wordRecord) entity.Word {
	w := entity.Word{
		ID:           row.ID,
		English:      row.English,
		Turkish:      row.Turkish,
		Category:     row.Category,
		Folder:       row.Folder,
		PartOfSpeech: row.PartOfSpeech,
		Example:      row.Example,
		Emoji:        row.Emoji,
		Level:        row.Level,
		CreatedAt:    row.CreatedAt,
	}
	if row.NextReview.Valid {
		next := row.NextReview.Time
		w.NextReview = &next
	}
	if row.LastReviewed.Valid {
		last := row.LastReviewed.Time
		w.LastReviewed = &last
	}
	return w
}

func mapHistoryRecord(row historyRecord) entity.HistoryEntry {
	return entity.HistoryEntry{
		ID:           row.ID,
		Date:         row.Date,
		Total:        row.Total,
		Correct:      row.Correct,
		Incorrect:    row.Incorrect,
		Percentage:   row.Percentage,
		Category:     row.Category,
		Folder:       row.Folder,
		Mode:         entity.ParseQuizMode(row.Mode),
		WrongAnswers: []entity.WrongAnswer(row.WrongAnswers),
	}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
