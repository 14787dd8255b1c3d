package repository

import (
	"context"

	"accounts/internal/domain/entity"
	"accounts/internal/errors"

	"github.com/google/uuid"
)

// ErrTokenNotFound is returned when no token matches the given hash.
var ErrTokenNotFound = errors.New("token not found")

// TokenRepository stores the single active token of each user.
type TokenRepository interface {
	// Replace atomically discards any token the owner holds and stores the new one.
	Replace(ctx context.Context, token *entity.Token) error

	// FindByHash retrieves a token by the hash of its raw value.
	FindByHash(ctx context.Context, tokenHash string) (*entity.Token, error)

	// DeleteByUserID removes the user's token, if any.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
