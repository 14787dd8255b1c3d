package impl

import (
	"context"
	"log/slog"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/usecase"

	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	users  usecase.UserUsecase
	logger *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	Users  usecase.UserUsecase
	Logger *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		users:  params.Users,
		logger: params.Logger,
	}
}

// GetProfile projects the authenticated user. The hash never leaves the entity.
func (srv *profileService) GetProfile(ctx context.Context, user *entity.User) (*entity.Profile, error) {
	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Getting user profile", slog.String("user_id", user.ID.String()))

	return user.Profile(), nil
}

// UpdateProfile changes the name and/or password of the authenticated user.
func (srv *profileService) UpdateProfile(ctx context.Context, user *entity.User, input *usecase.UpdateProfileInput) (*entity.Profile, error) {
	if input.Full && (input.Name == nil || input.Password == nil) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name and password are required")
	}

	updated, err := srv.users.Update(ctx, user.ID, &usecase.UpdateUserInput{
		Name:     input.Name,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	return updated.Profile(), nil
}
