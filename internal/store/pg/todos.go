package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/todolabs/todolist/internal/domain"
)

type todoRepo struct{ pool *pgxpool.Pool }

func (r *todoRepo) Create(ctx context.Context, t *domain.Todo) error {
	const q = `
		INSERT INTO todos (id, user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at`
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return r.pool.QueryRow(ctx, q, t.ID, t.UserID, t.Title, t.Description, t.Completed).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *todoRepo) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	const q = `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM todos WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Todo{}
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *todoRepo) Get(ctx context.Context, userID, id string) (*domain.Todo, error) {
	const q = `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM todos WHERE id = $1 AND user_id = $2`

	t := &domain.Todo{}
	err := r.pool.QueryRow(ctx, q, id, userID).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *todoRepo) Update(ctx context.Context, userID, id string, patch domain.UpdateTodo) (*domain.Todo, error) {
	const q = `
		UPDATE todos SET
			title       = COALESCE($3, title),
			description = COALESCE($4, description),
			completed   = COALESCE($5, completed),
			updated_at  = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, completed, created_at, updated_at`

	t := &domain.Todo{}
	err := r.pool.QueryRow(ctx, q, id, userID, patch.Title, patch.Description, patch.Completed).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *todoRepo) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM todos WHERE id = $1 AND user_id = $2`
	ct, err := r.pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
