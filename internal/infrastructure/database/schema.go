package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/sirupsen/logrus"
)

const (
	WordsTableName   = "words"
	HistoryTableName = "quiz_history"
)

var (
	// WordsColumns holds the columns for the "words" table.
	WordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 64},
		{Name: "english", Type: field.TypeString, Size: 255},
		{Name: "turkish", Type: field.TypeString, Size: 255},
		{Name: "category", Type: field.TypeString, Size: 128, Default: "General"},
		{Name: "folder", Type: field.TypeString, Size: 128, Default: "General"},
		{Name: "part_of_speech", Type: field.TypeString, Size: 64, Default: ""},
		{Name: "example", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "emoji", Type: field.TypeString, Size: 32, Default: ""},
		{Name: "level", Type: field.TypeInt, Default: 1},
		{Name: "next_review", Type: field.TypeTime, Nullable: true},
		{Name: "last_reviewed", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// WordsTable holds the schema information for the "words" table.
	WordsTable = &schema.Table{
		Name:       WordsTableName,
		Columns:    WordsColumns,
		PrimaryKey: []*schema.Column{WordsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "word_category_folder",
				Unique:  false,
				Columns: []*schema.Column{WordsColumns[3], WordsColumns[4]},
			},
			{
				Name:    "word_next_review",
				Unique:  false,
				Columns: []*schema.Column{WordsColumns[9]},
			},
		},
	}
	// HistoryColumns holds the columns for the "quiz_history" table.
	HistoryColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 64},
		{Name: "date", Type: field.TypeTime},
		{Name: "total", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeInt},
		{Name: "incorrect", Type: field.TypeInt},
		{Name: "percentage", Type: field.TypeInt},
		{Name: "category", Type: field.TypeString, Size: 128, Default: "all"},
		{Name: "folder", Type: field.TypeString, Size: 128, Default: "all"},
		{Name: "mode", Type: field.TypeString, Size: 32, Default: "mixed"},
		{Name: "wrong_answers", Type: field.TypeJSON, SchemaType: map[string]string{dialect.Postgres: "jsonb"}},
	}
	// HistoryTable holds the schema information for the "quiz_history" table.
	HistoryTable = &schema.Table{
		Name:       HistoryTableName,
		Columns:    HistoryColumns,
		PrimaryKey: []*schema.Column{HistoryColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "history_date",
				Unique:  false,
				Columns: []*schema.Column{HistoryColumns[1]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		WordsTable,
		HistoryTable,
	}
)

// Migrate creates or upgrades the words and history tables.
func Migrate(ctx context.Context, db *DB, logger *logrus.Logger, logSQL bool) error {
	var drv dialect.Driver = entsql.OpenDB(db.Dialect, db.DB.DB)
	if logSQL && logger != nil {
		drv = dialect.DebugWithContext(drv, func(_ context.Context, args ...any) {
			logger.Debug(args...)
		})
	}

	migrate, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := migrate.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
