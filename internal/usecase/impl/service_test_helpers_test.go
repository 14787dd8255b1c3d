package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"accounts/config"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/infra/auth"
	"accounts/internal/infra/persistence/memory"
	"accounts/internal/usecase"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(tokenTTL time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Auth.TokenTTL = tokenTTL
	cfg.PasswordStrength.MinLength = 8

	return cfg
}

// accountFixtures wires every usecase over a fresh in-memory store.
type accountFixtures struct {
	store     *memory.Store
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	hasher    service.PasswordHasher
	generator service.TokenGenerator

	users    usecase.UserUsecase
	tokens   usecase.TokenUsecase
	gate     usecase.AuthGate
	profiles usecase.ProfileUsecase
}

func newAccountFixtures(t *testing.T, tokenTTL time.Duration) *accountFixtures {
	t.Helper()

	cfg := newTestConfig(tokenTTL)
	logger := newDiscardLogger()
	store := memory.NewStore()

	fx := &accountFixtures{
		store:     store,
		userRepo:  memory.NewUserRepository(store),
		tokenRepo: memory.NewTokenRepository(store),
		hasher:    auth.NewBcryptHasher(cfg),
		generator: auth.NewTokenGenerator(cfg),
	}

	fx.users = NewUserService(UserServiceParams{
		TxManager: memory.NewTransactionManager(store),
		UserRepo:  fx.userRepo,
		Hasher:    fx.hasher,
		Policy:    auth.NewPasswordPolicy(cfg),
		Logger:    logger,
	})
	fx.tokens = NewTokenService(TokenServiceParams{
		UserRepo:  fx.userRepo,
		TokenRepo: fx.tokenRepo,
		Hasher:    fx.hasher,
		Generator: fx.generator,
		Config:    cfg,
		Logger:    logger,
	})
	fx.gate = NewAuthGate(AuthGateParams{
		UserRepo:  fx.userRepo,
		TokenRepo: fx.tokenRepo,
		Generator: fx.generator,
		Logger:    logger,
	})
	fx.profiles = NewProfileService(ProfileServiceParams{
		Users:  fx.users,
		Logger: logger,
	})

	return fx
}

func (fx *accountFixtures) register(t *testing.T, email, password, name string) *usecase.RegisterOutput {
	t.Helper()

	out, err := fx.users.Register(context.Background(), &usecase.RegisterInput{
		Email:    email,
		Password: password,
		Name:     name,
	})
	require.NoError(t, err)

	return out
}

func (fx *accountFixtures) issue(t *testing.T, email, password string) string {
	t.Helper()

	out, err := fx.tokens.Issue(context.Background(), &usecase.IssueTokenInput{Email: email, Password: password})
	require.NoError(t, err)

	return out.Token
}

func ptr[T any](v T) *T {
	return &v
}
