package impl

import (
	"context"
	"sync"
	"testing"

	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/errors"
	"accounts/internal/infra/auth"
	"accounts/internal/infra/persistence/memory"
	mockSvc "accounts/internal/mocks/service"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register_Success(t *testing.T) {
	fx := newAccountFixtures(t, 0)

	out := fx.register(t, "test@test.com", "testpass123", "test name")

	assert.Equal(t, "test@test.com", out.User.Email)
	assert.Equal(t, "test name", out.User.Name)
	assert.True(t, out.User.IsActive)
	assert.NotEqual(t, "testpass123", out.User.PasswordHash)

	stored, err := fx.userRepo.FindByEmail(context.Background(), "test@test.com")
	require.NoError(t, err)
	assert.True(t, fx.hasher.Check("testpass123", stored.PasswordHash))
}

func TestUserService_Register_NormalizesIdentity(t *testing.T) {
	fx := newAccountFixtures(t, 0)

	out := fx.register(t, "  Test@Test.COM ", "testpass123", "test name")
	assert.Equal(t, "test@test.com", out.User.Email)

	_, err := fx.users.Register(context.Background(), &usecase.RegisterInput{
		Email:    "TEST@test.com",
		Password: "testpass123",
		Name:     "other",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateIdentity))
}

func TestUserService_Register_Duplicate(t *testing.T) {
	fx := newAccountFixtures(t, 0)
	fx.register(t, "test@test.com", "testpass123", "test name")

	_, err := fx.users.Register(context.Background(), &usecase.RegisterInput{
		Email:    "test@test.com",
		Password: "testpass123",
		Name:     "test name",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateIdentity))
}

func TestUserService_Register_WeakPasswordWritesNothing(t *testing.T) {
	fx := newAccountFixtures(t, 0)

	_, err := fx.users.Register(context.Background(), &usecase.RegisterInput{
		Email:    "test@test.com",
		Password: "tes",
		Name:     "test name",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrWeakPassword))

	_, err = fx.users.FindByIdentity(context.Background(), "test@test.com")
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUserService_Register_WeakPasswordSkipsHashing(t *testing.T) {
	store := memory.NewStore()
	hasher := mockSvc.NewMockPasswordHasher(t)

	users := NewUserService(UserServiceParams{
		TxManager: memory.NewTransactionManager(store),
		UserRepo:  memory.NewUserRepository(store),
		Hasher:    hasher,
		Policy:    auth.NewPasswordPolicy(newTestConfig(0)),
		Logger:    newDiscardLogger(),
	})

	_, err := users.Register(context.Background(), &usecase.RegisterInput{
		Email:    "test@test.com",
		Password: "short",
		Name:     "test name",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrWeakPassword))
}

func TestUserService_Register_BlankName(t *testing.T) {
	fx := newAccountFixtures(t, 0)

	_, err := fx.users.Register(context.Background(), &usecase.RegisterInput{
		Email:    "test@test.com",
		Password: "testpass123",
		Name:     "   ",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = fx.users.FindByIdentity(context.Background(), "test@test.com")
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUserService_Register_TrimsName(t *testing.T) {
	fx := newAccountFixtures(t, 0)

	out := fx.register(t, "test@test.com", "testpass123", "  test name  ")
	assert.Equal(t, "test name", out.User.Name)
}

func TestUserService_Register_HashFailure(t *testing.T) {
	store := memory.NewStore()
	hasher := mockSvc.NewMockPasswordHasher(t)
	hasher.EXPECT().Hash("testpass123").Return("", domainerrors.ErrPasswordHashFailed)

	users := NewUserService(UserServiceParams{
		TxManager: memory.NewTransactionManager(store),
		UserRepo:  memory.NewUserRepository(store),
		Hasher:    hasher,
		Policy:    auth.NewPasswordPolicy(newTestConfig(0)),
		Logger:    newDiscardLogger(),
	})

	_, err := users.Register(context.Background(), &usecase.RegisterInput{
		Email:    "test@test.com",
		Password: "testpass123",
		Name:     "test name",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))

	_, err = memory.NewUserRepository(store).FindByEmail(context.Background(), "test@test.com")
	assert.Error(t, err)
}

func TestUserService_Register_ConcurrentSameIdentity(t *testing.T) {
	fx := newAccountFixtures(t, 0)

	const workers = 8
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

			_, err := fx.users.Register(context.Background(), &usecase.RegisterInput{
				Email:    "race@test.com",
				Password: "testpass123",
				Name:     "racer",
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domainerrors.ErrDuplicateIdentity):
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, dupes)
}

func TestUserService_Update_Partial(t *testing.T) {
	fx := newAccountFixtures(t, 0)
	user := fx.register(t, "test@test.com", "testpass123", "test name").User

	updated, err := fx.users.Update(context.Background(), user.ID, &usecase.UpdateUserInput{Name: ptr("updated name")})
	require.NoError(t, err)
	assert.Equal(t, "updated name", updated.Name)
	assert.True(t, fx.hasher.Check("testpass123", updated.PasswordHash))
}

func TestUserService_Update_Password(t *testing.T) {
	fx := newAccountFixtures(t, 0)
	user := fx.register(t, "test@test.com", "testpass123", "test name").User

	_, err := fx.users.Update(context.Background(), user.ID, &usecase.UpdateUserInput{Password: ptr("newpassword123")})
	require.NoError(t, err)

	stored, err := fx.users.FindByIdentity(context.Background(), "test@test.com")
	require.NoError(t, err)
	assert.True(t, fx.hasher.Check("newpassword123", stored.PasswordHash))
	assert.False(t, fx.hasher.Check("testpass123", stored.PasswordHash))
	assert.Equal(t, "test name", stored.Name)
}

func TestUserService_Update_WeakPassword(t *testing.T) {
	fx := newAccountFixtures(t, 0)
	user := fx.register(t, "test@test.com", "testpass123", "test name").User

	_, err := fx.users.Update(context.Background(), user.ID, &usecase.UpdateUserInput{
		Name:     ptr("ignored"),
		Password: ptr("short"),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrWeakPassword))

	stored, err := fx.users.FindByIdentity(context.Background(), "test@test.com")
	require.NoError(t, err)
	assert.Equal(t, "test name", stored.Name)
	assert.True(t, fx.hasher.Check("testpass123", stored.PasswordHash))
}

func TestUserService_Update_Name(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "trimmed", input: "  padded  ", want: "padded"},
		{name: "blank", input: "   ", want: "test name", wantErr: domainerrors.ErrValidationFailed},
		{name: "empty", input: "", want: "test name", wantErr: domainerrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newAccountFixtures(t, 0)
			user := fx.register(t, "test@test.com", "testpass123", "test name").User

			_, err := fx.users.Update(context.Background(), user.ID, &usecase.UpdateUserInput{Name: ptr(tt.input)})
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}

			stored, err := fx.users.FindByIdentity(context.Background(), "test@test.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Name)
		})
	}
}

func TestUserService_Update_UnknownUser(t *testing.T) {
	fx := newAccountFixtures(t, 0)

	_, err := fx.users.Update(context.Background(), uuid.New(), &usecase.UpdateUserInput{Name: ptr("nobody")})
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
