package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/eslsoft/vocquiz/internal/infrastructure/database"
	"github.com/eslsoft/vocquiz/internal/infrastructure/writebehind"
	"github.com/eslsoft/vocquiz/internal/usecase"
	"github.com/eslsoft/vocquiz/internal/usecase/backup"
	"github.com/eslsoft/vocquiz/internal/usecase/quiz"
)

const shutdownTimeout = 30 * time.Second

func provideLocation(cfg *config.Config) (*time.Location, error) {
	return cfg.Location()
}

// provideDatabase opens the durable store and brings its schema up to date.
func provideDatabase(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*database.DB, func(), error) {
	db, cleanup, err := database.NewConnection(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db, logger, cfg.Database.LogSQL); err != nil {
		cleanup()
		return nil, nil, err
	}
	return db, cleanup, nil
}

// provideQueue starts the write-behind queue. Its cleanup drains pending writes before
// the database is closed.
func provideQueue(cfg *config.Config, logger *logrus.Logger) (*writebehind.Queue, func()) {
	queue := writebehind.New(logger, cfg.Sync.QueueSize)
	return queue, func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := queue.Close(ctx); err != nil {
			logger.WithError(err).Warn("write-behind queue did not drain")
		}
		if n := queue.Failures(); n > 0 {
			logger.WithField("failures", n).Warn("some writes did not reach the durable store")
		}
	}
}

func provideGenerator() *quiz.Generator {
	return quiz.NewGenerator(quiz.NewRand(), time.Now)
}

func provideQuizDefaults(cfg *config.Config) usecase.QuizDefaults {
	return usecase.QuizDefaults{
		QuestionCount: cfg.Quiz.QuestionCount,
		Mode:          entity.ParseQuizMode(cfg.Quiz.Mode),
	}
}

func provideBackup(words usecase.WordUsecase, history usecase.HistoryUsecase) *backup.Service {
	return backup.NewService(words, history)
}
