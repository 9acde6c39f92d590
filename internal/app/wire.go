//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/eslsoft/vocquiz/internal/adapter/repository"
	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/eslsoft/vocquiz/internal/infrastructure/logging"
	"github.com/eslsoft/vocquiz/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
	logging.NewLogger,
	provideLocation,
)

var databaseSet = wire.NewSet(
	provideDatabase,
	provideQueue,
)

var repositorySet = wire.NewSet(
	repository.NewSQLWordStore,
	repository.NewSQLHistoryStore,
	repository.NewWordRepository,
	repository.NewHistoryRepository,
)

var usecaseSet = wire.NewSet(
	provideGenerator,
	provideQuizDefaults,
	usecase.NewWordUsecase,
	usecase.NewHistoryUsecase,
	usecase.NewQuizUsecase,
	usecase.NewStatsUsecase,
	provideBackup,
)

// Initialize builds the application container using Wire.
func Initialize(ctx context.Context) (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
