// Package todo contains the task management service.
package todo

import (
	"context"
	"errors"
	"strings"

	"github.com/todolabs/todolist/internal/domain"
	"github.com/todolabs/todolist/internal/observability/logger"
)

// Service handles user-scoped task operations.
type Service interface {
	List(ctx context.Context, userID string) ([]domain.Todo, error)
	Create(ctx context.Context, userID string, in CreateInput) (*domain.Todo, error)
	Get(ctx context.Context, userID, id string) (*domain.Todo, error)
	Update(ctx context.Context, userID, id string, in UpdateInput) (*domain.Todo, error)
	Delete(ctx context.Context, userID, id string) error
}

// CreateInput is the payload for a new task.
type CreateInput struct {
	Title       string
	Description string
}

// UpdateInput is a partial update; nil fields are untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Service errors.
var (
	ErrTitleRequired = errors.New("title_required")
)

// Deps contains dependencies for the todo service.
type Deps struct {
	Todos domain.TodoRepository
}

type service struct {
	deps Deps
}

// NewService creates a new todo Service.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Todo, error) {
	return s.deps.Todos.ListByUser(ctx, userID)
}

func (s *service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Todo, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	t := &domain.Todo{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
	}
	if err := s.deps.Todos.Create(ctx, t); err != nil {
		return nil, err
	}

	logger.From(ctx).Debug("todo created",
		logger.Layer("service"),
		logger.Component("todo"),
		logger.UserID(userID),
		logger.String("todo_id", t.ID),
	)
	return t, nil
}

func (s *service) Get(ctx context.Context, userID, id string) (*domain.Todo, error) {
	return s.deps.Todos.Get(ctx, userID, id)
}

func (s *service) Update(ctx context.Context, userID, id string, in UpdateInput) (*domain.Todo, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		in.Title = &title
	}
	return s.deps.Todos.Update(ctx, userID, id, domain.UpdateTodo{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	})
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	return s.deps.Todos.Delete(ctx, userID, id)
}
