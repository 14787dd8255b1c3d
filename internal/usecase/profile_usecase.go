package usecase

import (
	"context"

	"accounts/internal/domain/entity"
)

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, user *entity.User) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, user *entity.User, input *UpdateProfileInput) (*entity.Profile, error)
}

// --- Input DTOs ---

// UpdateProfileInput defines the profile fields a user may change. The email is not one of them.
// Full replaces the whole profile and requires every field.
type UpdateProfileInput struct {
	Name     *string
	Password *string
	Full     bool
}
