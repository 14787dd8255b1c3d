package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"accounts/config"
	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/errors"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// dummyPassword is hashed once and checked against for unknown identities,
// so a lookup miss costs the same bcrypt work as a wrong password.
const dummyPassword = "dummy-password-for-timing"

// tokenService implements the TokenUsecase interface.
type tokenService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	hasher    service.PasswordHasher
	generator service.TokenGenerator
	tokenTTL  time.Duration
	logger    *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// TokenServiceParams holds dependencies for TokenService, injected by Fx.
type TokenServiceParams struct {
	fx.In

	UserRepo  repository.UserRepository
	TokenRepo repository.TokenRepository
	Hasher    service.PasswordHasher
	Generator service.TokenGenerator
	Config    *config.Config
	Logger    *slog.Logger
}

// NewTokenService is the constructor for tokenService.
func NewTokenService(params TokenServiceParams) usecase.TokenUsecase {
	var ttl time.Duration
	if params.Config != nil {
		ttl = params.Config.Auth.TokenTTL
	}

	return &tokenService{
		userRepo:  params.UserRepo,
		tokenRepo: params.TokenRepo,
		hasher:    params.Hasher,
		generator: params.Generator,
		tokenTTL:  ttl,
		logger:    params.Logger,
	}
}

func (srv *tokenService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *tokenService) burnDummyCheck(password string) {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash(dummyPassword)
		if err == nil {
			srv.dummyHash = hash
		}
	})

	if srv.dummyHash != "" {
		srv.hasher.Check(password, srv.dummyHash)
	}
}

// refuse logs why a credential exchange failed; callers only ever see ErrInvalidCredentials.
func (srv *tokenService) refuse(ctx context.Context, email, reason string) error {
	srv.log(ctx).Info("Token refused", slog.String("email", email), slog.String("reason", reason))

	return domainerrors.ErrInvalidCredentials.WrapMessage(reason)
}

// Issue verifies the credentials and replaces the user's token with a fresh one.
// Unknown identity, inactive user and wrong password are indistinguishable.
func (srv *tokenService) Issue(ctx context.Context, input *usecase.IssueTokenInput) (*usecase.IssueTokenOutput, error) {
	email := entity.NormalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(err, "failed to find user")
		}

		srv.burnDummyCheck(input.Password)

		return nil, srv.refuse(ctx, email, "unknown identity")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, srv.refuse(ctx, email, "password mismatch")
	}

	if !user.IsActive {
		return nil, srv.refuse(ctx, email, "inactive")
	}

	raw, hash, err := srv.generator.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate token")
	}

	token := entity.NewToken(user.ID, hash, srv.tokenTTL)
	if err := srv.tokenRepo.Replace(ctx, token); err != nil {
		return nil, errors.Wrap(err, "failed to store token")
	}

	srv.log(ctx).Info("Token issued", slog.String("user_id", user.ID.String()))

	return &usecase.IssueTokenOutput{Token: raw, User: user}, nil
}

// Revoke drops the user's active token, if any.
func (srv *tokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	if err := srv.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to revoke token")
	}

	srv.log(ctx).Info("Token revoked", slog.String("user_id", userID.String()))

	return nil
}
