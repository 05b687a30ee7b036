package domain

import (
	"context"
	"time"
)

// UserRepository persists accounts keyed by upstream identity.
type UserRepository interface {
	// FindOrCreate resolves (provider, provider_id) to an account, creating
	// it on first login. On repeat logins the display name, avatar and email
	// are refreshed from the provider, but never overwritten with empties.
	// Concurrent calls for the same identity converge on one account.
	FindOrCreate(ctx context.Context, nu NewUser) (*User, error)

	// GetByID returns the user or ErrNotFound.
	GetByID(ctx context.Context, id string) (*User, error)
}

// RefreshTokenRepository persists refresh credential hashes.
type RefreshTokenRepository interface {
	// Create stores a new refresh credential record.
	Create(ctx context.Context, rt *RefreshToken) error

	// GetByHash returns the record for a secret hash, or ErrNotFound.
	GetByHash(ctx context.Context, hash string) (*RefreshToken, error)

	// DeleteByHash removes the record and reports whether it existed. The
	// boolean is the serialization point for rotation: of N concurrent
	// renewals with the same secret exactly one observes true.
	DeleteByHash(ctx context.Context, hash string) (bool, error)

	// DeleteExpired purges records whose expiry is before now and returns
	// the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TodoRepository persists user-scoped tasks. Every operation is scoped by
// userID; a todo owned by someone else behaves as ErrNotFound.
type TodoRepository interface {
	Create(ctx context.Context, t *Todo) error
	ListByUser(ctx context.Context, userID string) ([]Todo, error)
	Get(ctx context.Context, userID, id string) (*Todo, error)
	Update(ctx context.Context, userID, id string, patch UpdateTodo) (*Todo, error)
	Delete(ctx context.Context, userID, id string) error
}

// Store bundles the repositories a storage driver provides.
type Store interface {
	Users() UserRepository
	RefreshTokens() RefreshTokenRepository
	Todos() TodoRepository

	// Ping verifies the backend is reachable; used by readiness checks.
	Ping(ctx context.Context) error
	Close()
}
