package usecase

import (
	"context"

	"accounts/internal/domain/entity"

	"github.com/google/uuid"
)

// IssueTokenInput defines the credentials exchanged for a token.
type IssueTokenInput struct {
	Email    string
	Password string
}

// IssueTokenOutput carries the raw token. It is the only place the raw value exists.
type IssueTokenOutput struct {
	Token string
	User  *entity.User
}

// TokenUsecase mints and revokes the single active token of a user.
type TokenUsecase interface {
	Issue(ctx context.Context, input *IssueTokenInput) (*IssueTokenOutput, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}

// AuthGate resolves a presented raw token to its active owner.
type AuthGate interface {
	Resolve(ctx context.Context, rawToken string) (*entity.User, error)
}
