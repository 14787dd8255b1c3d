// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"accounts/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateUserInput carries the mutable user fields. Nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Password *string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	FindByIdentity(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, userID uuid.UUID, input *UpdateUserInput) (*entity.User, error)
}
