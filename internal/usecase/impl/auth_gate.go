package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/errors"
	"accounts/internal/usecase"

	"go.uber.org/fx"
)

type authGate struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	generator service.TokenGenerator
	logger    *slog.Logger
	now       func() time.Time
}

// AuthGateParams holds dependencies for AuthGate, injected by Fx.
type AuthGateParams struct {
	fx.In

	UserRepo  repository.UserRepository
	TokenRepo repository.TokenRepository
	Generator service.TokenGenerator
	Logger    *slog.Logger
}

// NewAuthGate is the constructor for authGate.
func NewAuthGate(params AuthGateParams) usecase.AuthGate {
	return &authGate{
		userRepo:  params.UserRepo,
		tokenRepo: params.TokenRepo,
		generator: params.Generator,
		logger:    params.Logger,
		now:       time.Now,
	}
}

func (g *authGate) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, g.logger)
}

func (g *authGate) deny(ctx context.Context, reason string) error {
	g.log(ctx).Debug("Token rejected", slog.String("reason", reason))

	return domainerrors.ErrUnauthorized.WrapMessage(reason)
}

// Resolve returns the active owner of rawToken. Every failure is ErrUnauthorized
// except storage errors, which surface as-is.
func (g *authGate) Resolve(ctx context.Context, rawToken string) (*entity.User, error) {
	if !g.generator.WellFormed(rawToken) {
		return nil, g.deny(ctx, "malformed")
	}

	token, err := g.tokenRepo.FindByHash(ctx, g.generator.Hash(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, g.deny(ctx, "unknown")
		}

		return nil, errors.Wrap(err, "failed to load token")
	}

	if token.IsExpiredAt(g.now()) {
		return nil, g.deny(ctx, "expired")
	}

	user, err := g.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, g.deny(ctx, "owner missing")
		}

		return nil, errors.Wrap(err, "failed to load token owner")
	}

	if !user.IsActive {
		return nil, g.deny(ctx, "owner inactive")
	}

	return user, nil
}
