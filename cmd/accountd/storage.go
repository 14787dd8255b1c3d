package main

import (
	"log/slog"

	"accounts/config"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"
	"accounts/internal/infra/persistence/memory"
	"accounts/internal/infra/persistence/postgres"
	"accounts/internal/infra/persistence/redisstore"

	"go.uber.org/fx"
)

type storageParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// storageBackend is the set of repositories of the configured storage driver.
type storageBackend struct {
	fx.Out

	UserRepo  repository.UserRepository
	TxManager repository.TransactionManager
	TokenRepo repository.TokenRepository `name:"storageTokens"`
}

func newStorageBackend(params storageParams) (storageBackend, error) {
	switch params.Config.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return storageBackend{}, err
		}

		return storageBackend{
			UserRepo:  postgres.NewUserRepository(db),
			TxManager: postgres.NewTransactionManager(db),
			TokenRepo: postgres.NewTokenRepository(db),
		}, nil

	case config.StorageDriverMemory:
		params.Logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()

		return storageBackend{
			UserRepo:  memory.NewUserRepository(store),
			TxManager: memory.NewTransactionManager(store),
			TokenRepo: memory.NewTokenRepository(store),
		}, nil

	default:
		return storageBackend{}, errors.Errorf("unknown storage driver: %s", params.Config.Storage.Driver)
	}
}

type tokenRepositoryParams struct {
	fx.In
	fx.Lifecycle

	Config        *config.Config
	Logger        *slog.Logger
	StorageTokens repository.TokenRepository `name:"storageTokens"`
}

// newTokenRepository keeps tokens next to the users unless Redis is configured.
func newTokenRepository(params tokenRepositoryParams) repository.TokenRepository {
	if params.Config.TokenStore.Driver != config.TokenStoreRedis {
		return params.StorageTokens
	}

	client := redisstore.NewClient(redisstore.Params{
		Lifecycle: params.Lifecycle,
		Config:    params.Config,
		Logger:    params.Logger,
	})

	return redisstore.NewTokenRepository(client)
}
