package entity

import (
	"time"

	"github.com/google/uuid"
)

// Token is the persisted side of an opaque API token. Only the SHA-256 hash of
// the raw value is stored; the raw value is returned to the client once.
type Token struct {
	ID        uuid.UUID  // The unique ID for this token record.
	UserID    uuid.UUID  // Owner. A user holds at most one token at a time.
	TokenHash string     // Hex-encoded SHA-256 of the raw token.
	ExpiresAt *time.Time // Nil when tokens do not expire.
	CreatedAt time.Time
}

// NewToken builds a token record for userID. A non-positive ttl yields a token without expiry.
func NewToken(userID uuid.UUID, tokenHash string, ttl time.Duration) *Token {
	now := time.Now().UTC()
	token := &Token{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		CreatedAt: now,
	}

	if ttl > 0 {
		expiresAt := now.Add(ttl)
		token.ExpiresAt = &expiresAt
	}

	return token
}

// IsExpiredAt reports whether the token is no longer valid at t.
func (t *Token) IsExpiredAt(at time.Time) bool {
	return t.ExpiresAt != nil && !at.Before(*t.ExpiresAt)
}
