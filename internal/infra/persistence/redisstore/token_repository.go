// Package redisstore keeps API tokens in Redis. Users stay in the primary store.
package redisstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"accounts/config"
	"accounts/internal/domain/entity"
	"accounts/internal/domain/lifecycle"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	tokenKeyPrefix = "auth:token:"
	userKeyPrefix  = "auth:user:"

	maxWatchAttempts = 5
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewClient builds a client from config and pings it on start.
func NewClient(params Params) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     params.Config.Redis.Addr,
		Password: params.Config.Redis.Password,
		DB:       params.Config.Redis.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping Redis")
			}
			params.Logger.Info("Connected to Redis", slog.String("addr", params.Config.Redis.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client
}

// tokenPayload is the JSON stored under auth:token:<hash>.
type tokenPayload struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type tokenRepository struct {
	client *redis.Client
}

// NewTokenRepository returns a TokenRepository backed by Redis. The user key
// points at the current token hash, so replacing a token drops the previous one.
func NewTokenRepository(client *redis.Client) repository.TokenRepository {
	return &tokenRepository{client: client}
}

func tokenKey(hash string) string {
	return tokenKeyPrefix + hash
}

func userKey(userID uuid.UUID) string {
	return userKeyPrefix + userID.String()
}

func ttlUntil(expiresAt *time.Time) time.Duration {
	if expiresAt == nil {
		return 0
	}

	// Already expired tokens still need a positive TTL for SET.
	ttl := time.Until(*expiresAt)
	if ttl < time.Millisecond {
		ttl = time.Millisecond
	}

	return ttl
}

func (r *tokenRepository) Replace(ctx context.Context, token *entity.Token) error {
	payload, err := json.Marshal(tokenPayload{
		ID:        token.ID,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode token")
	}

	ownerKey := userKey(token.UserID)
	ttl := ttlUntil(token.ExpiresAt)

	txf := func(tx *redis.Tx) error {
		previous, err := tx.Get(ctx, ownerKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if previous != "" && previous != token.TokenHash {
				pipe.Del(ctx, tokenKey(previous))
			}
			pipe.Set(ctx, tokenKey(token.TokenHash), payload, ttl)
			pipe.Set(ctx, ownerKey, token.TokenHash, ttl)

			return nil
		})

		return err
	}

	if err := retryOnConflict(func() error { return r.client.Watch(ctx, txf, ownerKey) }); err != nil {
		return errors.Wrap(err, "failed to store token")
	}

	return nil
}

func (r *tokenRepository) FindByHash(ctx context.Context, tokenHash string) (*entity.Token, error) {
	raw, err := r.client.Get(ctx, tokenKey(tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrTokenNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load token")
	}

	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode token")
	}

	return &entity.Token{
		ID:        payload.ID,
		UserID:    payload.UserID,
		TokenHash: tokenHash,
		ExpiresAt: payload.ExpiresAt,
		CreatedAt: payload.CreatedAt,
	}, nil
}

func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	ownerKey := userKey(userID)

	txf := func(tx *redis.Tx) error {
		hash, err := tx.Get(ctx, ownerKey).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, tokenKey(hash), ownerKey)

			return nil
		})

		return err
	}

	if err := retryOnConflict(func() error { return r.client.Watch(ctx, txf, ownerKey) }); err != nil {
		return errors.Wrap(err, "failed to delete token")
	}

	return nil
}

// retryOnConflict reruns a WATCH transaction while another client keeps touching the owner key.
func retryOnConflict(watch func() error) error {
	var err error
	for range maxWatchAttempts {
		err = watch()
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}

	return err
}
