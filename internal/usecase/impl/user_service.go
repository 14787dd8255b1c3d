// Package impl contains the implementation of the application's business logic.
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

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	policy    service.PasswordPolicy
	logger    *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Policy    service.PasswordPolicy
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		policy:    params.Policy,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates and hashes the password, then creates the user inside a
// transaction. Nothing is written when the password is rejected.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}

	if err := srv.policy.Validate(input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	newUser := entity.NewUser(email, name, hashedPassword)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			return domainerrors.ErrDuplicateIdentity
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check existing user")
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			// A concurrent registration won the unique index.
			if errors.Is(err, repository.ErrUserAlreadyExists) {
				return domainerrors.ErrDuplicateIdentity
			}

			return errors.Wrap(err, "failed to create user")
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateIdentity) {
			srv.log(ctx).Info("Registration rejected, identity taken", slog.String("email", email))
		}

		return nil, err
	}

	srv.log(ctx).Info("User registered", slog.String("user_id", newUser.ID.String()))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// FindByIdentity looks a user up by normalized email.
func (srv *userService) FindByIdentity(ctx context.Context, email string) (*entity.User, error) {
	user, err := srv.userRepo.FindByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// Update applies a partial update. A new password goes through the policy and is re-hashed.
func (srv *userService) Update(ctx context.Context, userID uuid.UUID, input *usecase.UpdateUserInput) (*entity.User, error) {
	var newName *string
	if input.Name != nil {
		name, err := normalizeName(*input.Name)
		if err != nil {
			return nil, err
		}
		newName = &name
	}

	var newHash string
	if input.Password != nil {
		if err := srv.policy.Validate(*input.Password); err != nil {
			return nil, err
		}

		hashed, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash password")
		}
		newHash = hashed
	}

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if newName != nil {
			user.Name = *newName
		}
		if newHash != "" {
			user.PasswordHash = newHash
		}
		user.UpdatedAt = time.Now().UTC()

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user")
		}
		updated = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User updated",
		slog.String("user_id", userID.String()),
		slog.Bool("name_changed", input.Name != nil),
		slog.Bool("password_changed", input.Password != nil),
	)

	return updated, nil
}

// normalizeName trims the display name and rejects one that is blank afterwards.
func normalizeName(name string) (string, error) {
	normalized := entity.NormalizeName(name)
	if normalized == "" {
		return "", domainerrors.ErrValidationFailed.WithDetails("name: must not be blank")
	}

	return normalized, nil
}
