package redisstore

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to REDIS_ADDR and skips when it is unset.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestTTLUntil(t *testing.T) {
	assert.Equal(t, time.Duration(0), ttlUntil(nil))

	past := time.Now().Add(-time.Hour)
	assert.Equal(t, time.Millisecond, ttlUntil(&past))

	future := time.Now().Add(time.Hour)
	assert.InDelta(t, float64(time.Hour), float64(ttlUntil(&future)), float64(time.Second))
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("6f1c1c4e-3c52-4b6e-9d8e-0f3a5b1e2c11")

	assert.Equal(t, "auth:token:abc", tokenKey("abc"))
	assert.Equal(t, "auth:user:6f1c1c4e-3c52-4b6e-9d8e-0f3a5b1e2c11", userKey(id))
}

func TestRetryOnConflict(t *testing.T) {
	t.Run("succeeds after conflicts", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(func() error {
			calls++
			if calls < 3 {
				return redis.TxFailedErr
			}

			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the attempt limit", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(func() error {
			calls++

			return redis.TxFailedErr
		})
		assert.True(t, errors.Is(err, redis.TxFailedErr))
		assert.Equal(t, maxWatchAttempts, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(func() error {
			calls++

			return redis.ErrClosed
		})
		assert.True(t, errors.Is(err, redis.ErrClosed))
		assert.Equal(t, 1, calls)
	})
}

func TestTokenRepository_ConcurrentReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokenRepository(newTestClient(t))
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, tokens.Replace(ctx, entity.NewToken(userID, uuid.NewString(), time.Minute)))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, tokens.DeleteByUserID(ctx, userID), "delete %d", i)
		}()
	}
	wg.Wait()

	require.NoError(t, tokens.DeleteByUserID(ctx, userID))
}

func TestTokenRepository_ReplaceAndFind(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokenRepository(newTestClient(t))
	userID := uuid.New()
	first := uuid.NewString()
	second := uuid.NewString()

	require.NoError(t, tokens.Replace(ctx, entity.NewToken(userID, first, time.Minute)))
	require.NoError(t, tokens.Replace(ctx, entity.NewToken(userID, second, time.Minute)))

	_, err := tokens.FindByHash(ctx, first)
	assert.True(t, errors.Is(err, repository.ErrTokenNotFound))

	current, err := tokens.FindByHash(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, userID, current.UserID)
	require.NotNil(t, current.ExpiresAt)

	require.NoError(t, tokens.DeleteByUserID(ctx, userID))
	_, err = tokens.FindByHash(ctx, second)
	assert.True(t, errors.Is(err, repository.ErrTokenNotFound))
}
