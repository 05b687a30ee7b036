package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/todolabs/todolist/internal/domain"
)

type userRepo struct{ pool *pgxpool.Pool }

// FindOrCreate upserts on (provider, provider_id). The profile fields are
// refreshed on conflict, but COALESCE/NULLIF keep an empty upstream value
// from wiping a stored one. Concurrent first logins race on the unique
// constraint and both land on the same row.
func (r *userRepo) FindOrCreate(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	const q = `
		INSERT INTO users (id, provider, provider_id, email, display_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (provider, provider_id) DO UPDATE SET
			email        = COALESCE(EXCLUDED.email, users.email),
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), users.display_name),
			avatar_url   = COALESCE(EXCLUDED.avatar_url, users.avatar_url),
			updated_at   = NOW()
		RETURNING id, provider, provider_id, email, display_name, avatar_url, created_at, updated_at`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, q,
		uuid.NewString(), nu.Provider, nu.ProviderID, nu.Email, nu.DisplayName, nu.AvatarURL,
	).Scan(&u.ID, &u.Provider, &u.ProviderID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
		SELECT id, provider, provider_id, email, display_name, avatar_url, created_at, updated_at
		FROM users WHERE id = $1`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&u.ID, &u.Provider, &u.ProviderID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
