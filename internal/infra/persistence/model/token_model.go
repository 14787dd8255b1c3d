package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenModel mirrors the 'auth_tokens' table. The unique user_id index is what
// keeps a single active token per user.
type TokenModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_auth_tokens_user_id"`
	TokenHash string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_auth_tokens_token_hash"`
	ExpiresAt *time.Time `gorm:"index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (TokenModel) TableName() string {
	return "auth_tokens"
}
