// Package memory is an in-process persistence backend with the same uniqueness
// and transaction semantics as the Postgres one. It backs local runs and tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"

	"github.com/google/uuid"
)

// Store holds all users and tokens. mu guards the maps; txMu serializes transactions.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users       map[uuid.UUID]entity.User
	userByEmail map[string]uuid.UUID
	tokens      map[string]entity.Token // keyed by token hash
	tokenByUser map[uuid.UUID]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:       make(map[uuid.UUID]entity.User),
		userByEmail: make(map[string]uuid.UUID),
		tokens:      make(map[string]entity.Token),
		tokenByUser: make(map[uuid.UUID]string),
	}
}

type snapshot struct {
	users       map[uuid.UUID]entity.User
	userByEmail map[string]uuid.UUID
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot{
		users:       maps.Clone(s.users),
		userByEmail: maps.Clone(s.userByEmail),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.userByEmail = snap.userByEmail
}

// --- users ---

type userRepository struct {
	store *Store
}

// NewUserRepository returns a UserRepository over the store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.userByEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	user := r.store.users[id]

	return &user, nil
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		return errors.New("user id is required")
	}
	if user.PasswordHash == "" {
		return errors.New("password hash is required")
	}

	email := entity.NormalizeEmail(user.Email)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, taken := r.store.userByEmail[email]; taken {
		return errors.Wrap(repository.ErrUserAlreadyExists, "email already exists")
	}
	if _, taken := r.store.users[user.ID]; taken {
		return errors.Errorf("user id %s already exists", user.ID)
	}

	stored := *user
	stored.Email = email
	r.store.users[user.ID] = stored
	r.store.userByEmail[email] = user.ID

	return nil
}

func (r *userRepository) Update(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}

	stored.Name = user.Name
	stored.PasswordHash = user.PasswordHash
	stored.IsActive = user.IsActive
	stored.UpdatedAt = user.UpdatedAt
	r.store.users[user.ID] = stored

	return nil
}

// --- tokens ---

type tokenRepository struct {
	store *Store
}

// NewTokenRepository returns a TokenRepository over the store.
func NewTokenRepository(store *Store) repository.TokenRepository {
	return &tokenRepository{store: store}
}

func (r *tokenRepository) Replace(_ context.Context, token *entity.Token) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[token.UserID]; !ok {
		return errors.Wrap(repository.ErrUserNotFound, "token owner does not exist")
	}

	if previous, ok := r.store.tokenByUser[token.UserID]; ok {
		delete(r.store.tokens, previous)
	}

	r.store.tokens[token.TokenHash] = *token
	r.store.tokenByUser[token.UserID] = token.TokenHash

	return nil
}

func (r *tokenRepository) FindByHash(_ context.Context, tokenHash string) (*entity.Token, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	token, ok := r.store.tokens[tokenHash]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}

	return &token, nil
}

func (r *tokenRepository) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if hash, ok := r.store.tokenByUser[userID]; ok {
		delete(r.store.tokens, hash)
		delete(r.store.tokenByUser, userID)
	}

	return nil
}

// --- transactions ---

type transactionManager struct {
	store *Store
}

type repositoryFactory struct {
	store *Store
}

func (f *repositoryFactory) UserRepo() repository.UserRepository {
	return NewUserRepository(f.store)
}

// NewTransactionManager runs transactions one at a time and restores the user
// tables when fn fails or panics.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

func (tm *transactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) (err error) {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	tm.store.txMu.Lock()
	defer tm.store.txMu.Unlock()

	snap := tm.store.snapshot()

	defer func() {
		if r := recover(); r != nil {
			tm.store.restore(snap)
			panic(r)
		}
	}()

	if err = fn(&repositoryFactory{store: tm.store}); err != nil {
		tm.store.restore(snap)

		return err
	}

	return nil
}
