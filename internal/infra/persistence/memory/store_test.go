package memory

import (
	"context"
	"sync"
	"testing"

	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	user := entity.NewUser("test@test.com", "Test Name", "hash")
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByEmail(ctx, "TEST@test.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Name", byID.Name)

	// Returned values are copies.
	byID.Name = "mutated"
	again, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Name", again.Name)
}

func TestUserRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	_, err := repo.FindByEmail(ctx, "missing@test.com")
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))

	err = repo.Update(ctx, entity.NewUser("ghost@test.com", "Ghost", "hash"))
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))

	assert.Error(t, repo.Create(ctx, entity.NewUser("nohash@test.com", "No Hash", "")))

	require.NoError(t, repo.Create(ctx, entity.NewUser("dup@test.com", "A", "hash")))
	err = repo.Create(ctx, entity.NewUser("Dup@Test.com", "B", "hash"))
	assert.True(t, errors.Is(err, repository.ErrUserAlreadyExists))
}

func TestUserRepository_ConcurrentDuplicateCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := repo.Create(ctx, entity.NewUser("race@test.com", "Racer", "hash"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, repository.ErrUserAlreadyExists):
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, dupes)
}

func TestTokenRepository_SingleTokenPerUser(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := NewUserRepository(store)
	tokens := NewTokenRepository(store)

	owner := entity.NewUser("owner@test.com", "Owner", "hash")
	require.NoError(t, users.Create(ctx, owner))

	require.NoError(t, tokens.Replace(ctx, entity.NewToken(owner.ID, "first", 0)))
	require.NoError(t, tokens.Replace(ctx, entity.NewToken(owner.ID, "second", 0)))

	_, err := tokens.FindByHash(ctx, "first")
	assert.True(t, errors.Is(err, repository.ErrTokenNotFound))

	current, err := tokens.FindByHash(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, current.UserID)

	require.NoError(t, tokens.DeleteByUserID(ctx, owner.ID))
	_, err = tokens.FindByHash(ctx, "second")
	assert.True(t, errors.Is(err, repository.ErrTokenNotFound))
}

func TestTokenRepository_UnknownOwner(t *testing.T) {
	tokens := NewTokenRepository(NewStore())

	err := tokens.Replace(context.Background(), entity.NewToken(uuid.New(), "hash", 0))
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestTransactionManager_Rollback(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txManager := NewTransactionManager(store)
	users := NewUserRepository(store)

	existing := entity.NewUser("existing@test.com", "Before", "hash")
	require.NoError(t, users.Create(ctx, existing))

	sentinel := errors.New("abort")
	err := txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		repo := factory.UserRepo()
		if err := repo.Create(ctx, entity.NewUser("new@test.com", "New", "hash")); err != nil {
			return err
		}

		changed := *existing
		changed.Name = "After"
		if err := repo.Update(ctx, &changed); err != nil {
			return err
		}

		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = users.FindByEmail(ctx, "new@test.com")
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))

	stored, err := users.FindByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Before", stored.Name)
}

func TestTransactionManager_Commit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txManager := NewTransactionManager(store)

	err := txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		return factory.UserRepo().Create(ctx, entity.NewUser("commit@test.com", "Commit", "hash"))
	})
	require.NoError(t, err)

	_, err = NewUserRepository(store).FindByEmail(ctx, "commit@test.com")
	assert.NoError(t, err)
}

func TestTransactionManager_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewTransactionManager(NewStore()).Execute(ctx, func(repository.RepositoryFactory) error {
		called = true

		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
