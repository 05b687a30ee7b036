// Package memory is an in-process storage driver backed by maps. It serves
// development and tests; semantics mirror the postgres driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/todolabs/todolist/internal/domain"
)

type Store struct {
	mu sync.Mutex

	usersByID  map[string]*domain.User
	usersByKey map[string]string // provider+"\x00"+providerID -> user ID

	tokensByHash map[string]*domain.RefreshToken

	todosByID map[string]*domain.Todo
}

func New() *Store {
	return &Store{
		usersByID:    map[string]*domain.User{},
		usersByKey:   map[string]string{},
		tokensByHash: map[string]*domain.RefreshToken{},
		todosByID:    map[string]*domain.Todo{},
	}
}

func (s *Store) Users() domain.UserRepository                 { return (*userRepo)(s) }
func (s *Store) RefreshTokens() domain.RefreshTokenRepository { return (*tokenRepo)(s) }
func (s *Store) Todos() domain.TodoRepository                 { return (*todoRepo)(s) }

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close()                         {}

func identityKey(provider, providerID string) string {
	return provider + "\x00" + providerID
}

// ─── users ───

type userRepo Store

func (r *userRepo) FindOrCreate(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := identityKey(nu.Provider, nu.ProviderID)

	if id, ok := r.usersByKey[key]; ok {
		u := r.usersByID[id]
		if nu.Email != nil {
			u.Email = nu.Email
		}
		if nu.DisplayName != "" {
			u.DisplayName = nu.DisplayName
		}
		if nu.AvatarURL != nil {
			u.AvatarURL = nu.AvatarURL
		}
		u.UpdatedAt = now
		cp := *u
		return &cp, nil
	}

	u := &domain.User{
		ID:          uuid.NewString(),
		Provider:    nu.Provider,
		ProviderID:  nu.ProviderID,
		Email:       nu.Email,
		DisplayName: nu.DisplayName,
		AvatarURL:   nu.AvatarURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.usersByID[u.ID] = u
	r.usersByKey[key] = u.ID
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.usersByID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// ─── refresh tokens ───

type tokenRepo Store

func (r *tokenRepo) Create(ctx context.Context, rt *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokensByHash[rt.TokenHash]; ok {
		return domain.ErrConflict
	}
	cp := *rt
	r.tokensByHash[rt.TokenHash] = &cp
	return nil
}

func (r *tokenRepo) GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokensByHash[hash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (r *tokenRepo) DeleteByHash(ctx context.Context, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokensByHash[hash]; !ok {
		return false, nil
	}
	delete(r.tokensByHash, hash)
	return true, nil
}

func (r *tokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for hash, rt := range r.tokensByHash {
		if rt.ExpiresAt.Before(now) {
			delete(r.tokensByHash, hash)
			n++
		}
	}
	return n, nil
}

// ─── todos ───

type todoRepo Store

func (r *todoRepo) Create(ctx context.Context, t *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	cp := *t
	r.todosByID[t.ID] = &cp
	return nil
}

func (r *todoRepo) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.Todo{}
	for _, t := range r.todosByID {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *todoRepo) Get(ctx context.Context, userID, id string) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todosByID[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *todoRepo) Update(ctx context.Context, userID, id string, patch domain.UpdateTodo) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todosByID[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	return &cp, nil
}

func (r *todoRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todosByID[id]
	if !ok || t.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.todosByID, id)
	return nil
}
