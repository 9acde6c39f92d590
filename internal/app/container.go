package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/eslsoft/vocquiz/internal/infrastructure/writebehind"
	"github.com/eslsoft/vocquiz/internal/usecase"
	"github.com/eslsoft/vocquiz/internal/usecase/backup"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Queue   *writebehind.Queue
	Words   usecase.WordUsecase
	History usecase.HistoryUsecase
	Quiz    usecase.QuizUsecase
	Stats   usecase.StatsUsecase
	Backup  *backup.Service
}
