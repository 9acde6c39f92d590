package database

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
)

// DB is a sqlx handle that remembers which SQL dialect its statements must be built for.
type DB struct {
	*sqlx.DB
	Dialect string
}

// NewConnection opens the durable store configured in cfg.
func NewConnection(cfg *config.Config, logger *logrus.Logger) (*DB, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}

	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch driver {
	case config.DriverSQLite:
		return openSQLite(ctx, dsn)
	case config.DriverPostgres:
		return openPostgres(ctx, dsn)
	case config.DriverPgx:
		return openPgx(ctx, dsn, cfg.Database.LogSQL, logger)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// OpenSQLite opens a sqlite database at dsn.
func OpenSQLite(ctx context.Context, dsn string) (*DB, func(), error) {
	return openSQLite(ctx, dsn)
}

func openSQLite(ctx context.Context, dsn string) (*DB, func(), error) {
	rawDB, err := sqlx.Open(config.DriverSQLite, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite db: %w", err)
	}
	rawDB.SetMaxOpenConns(1)
	rawDB.SetMaxIdleConns(1)

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := rawDB.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		rawDB.Close()
		return nil, nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}

	db := &DB{DB: rawDB, Dialect: dialect.SQLite}
	return db, func() { _ = rawDB.Close() }, nil
}

func openPostgres(ctx context.Context, dsn string) (*DB, func(), error) {
	rawDB, err := sqlx.Open(config.DriverPostgres, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres db: %w", err)
	}
	rawDB.SetMaxOpenConns(10)

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, nil, fmt.Errorf("ping postgres db: %w", err)
	}

	db := &DB{DB: rawDB, Dialect: dialect.Postgres}
	return db, func() { _ = rawDB.Close() }, nil
}

func openPgx(ctx context.Context, dsn string, logSQL bool, logger *logrus.Logger) (*DB, func(), error) {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse pgx config: %w", err)
	}

	if logSQL && logger != nil {
		connCfg.Tracer = &tracelog.TraceLog{
			Logger: tracelog.LoggerFunc(func(_ context.Context, lvl tracelog.LogLevel, msg string, data map[string]any) {
				logger.WithFields(logrus.Fields(data)).WithField("pgx_level", lvl.String()).Debug(msg)
			}),
			LogLevel: tracelog.LogLevelTrace,
		}
	}

	sqlDB := stdlib.OpenDB(*connCfg)
	sqlDB.SetMaxOpenConns(10)
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("ping pgx db: %w", err)
	}

	db := &DB{DB: sqlx.NewDb(sqlDB, config.DriverPgx), Dialect: dialect.Postgres}
	return db, func() { _ = sqlDB.Close() }, nil
}
